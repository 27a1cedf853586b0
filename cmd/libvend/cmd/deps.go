package cmd

import (
	"fmt"

	"github.com/libvend/libvend/internal/core"
)

// deps bundles the shared dependencies commands build lazily: the config
// manager plus the registry client, store, and lifecycle manager derived
// from the loaded configuration.
type deps struct {
	config  *core.ConfigManager
	cfg     *core.Config
	client  *core.Client
	store   *core.Store
	manager *core.Manager
}

// newDeps creates shared dependencies. Called lazily by commands that need
// them. storageDir overrides the configured storage root when non-empty
// (the --dir flag).
func newDeps(storageDir string) (*deps, error) {
	config, err := core.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	root := cfg.StorageDir
	if storageDir != "" {
		root = storageDir
	}

	client := core.NewClient(cfg.Registry, cfg.CDN)
	store := core.NewStore(root)

	return &deps{
		config:  config,
		cfg:     cfg,
		client:  client,
		store:   store,
		manager: core.NewManager(client, store),
	}, nil
}
