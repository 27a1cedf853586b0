package core

import (
	"context"
	"fmt"
)

// Target keywords accepted wherever a version can be requested.
const (
	// TargetLatest resolves to the first element of the registry's
	// ordered version list. That may be a pre-release: callers opting
	// into "latest" accept pre-releases. This is the one definition of
	// "latest", used at every call site.
	TargetLatest = "latest"
	// TargetStable resolves to the registry's distinguished latest-stable
	// tag.
	TargetStable = "stable"
)

// Manager orchestrates the dependency lifecycle over one library at a
// time: resolve a version, filter the file tree, stage downloads, swap the
// result in, and emit the descriptor. One logical operation per library
// name at a time; distinct libraries own disjoint storage subtrees and may
// be processed concurrently.
type Manager struct {
	client *Client
	store  *Store
}

// NewManager creates a Manager over the given registry client and store.
func NewManager(client *Client, store *Store) *Manager {
	return &Manager{client: client, store: store}
}

// Install resolves target ("" means latest) and installs the library:
// local mode downloads the selected assets into the storage root, remote
// mode records a CDN reference. Either way the descriptor is written and
// any previously installed version replaced. Registry and selection
// failures abort before any filesystem mutation.
func (m *Manager) Install(ctx context.Context, name, target string, cfg SelectionConfig) (*Dependency, error) {
	vl, err := m.client.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	version, err := resolveTarget(vl, target)
	if err != nil {
		return nil, fmt.Errorf("resolving %q for %s: %w", target, name, err)
	}
	return m.installVersion(ctx, name, version, cfg)
}

// Update moves an installed library to target ("" means latest),
// classifying the move as an upgrade or downgrade by positional rank in
// the registry's ordered version list (lower index = newer). The rank
// comparison is positional, not semantic: it is only as correct as the
// registry's own ordering. Updating to the installed version is rejected
// with ErrAlreadyAtVersion before any filesystem work.
func (m *Manager) Update(ctx context.Context, name, target string, cfg SelectionConfig) (*UpdateResult, error) {
	current, err := m.store.Installed(name)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}

	vl, err := m.client.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	version, err := resolveTarget(vl, target)
	if err != nil {
		return nil, fmt.Errorf("resolving %q for %s: %w", target, name, err)
	}

	if current.Version == version {
		return nil, fmt.Errorf("%w: %s is already at %s", ErrAlreadyAtVersion, name, version)
	}

	direction := classifyDirection(vl.Versions, current.Version, version)

	dep, err := m.installVersion(ctx, name, version, cfg)
	if err != nil {
		return nil, err
	}

	return &UpdateResult{
		Dependency: dep,
		Previous:   current.Version,
		Direction:  direction,
	}, nil
}

// Uninstall removes an installed library: unit directory, index entry, and
// descriptor.
func (m *Manager) Uninstall(name string) error {
	rec, err := m.store.Installed(name)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	return m.store.RemoveInstalled(name)
}

// installVersion runs the install pipeline for a concrete version:
// fetch tree, select assets, stage downloads, swap in, emit descriptor.
func (m *Manager) installVersion(ctx context.Context, name, version string, cfg SelectionConfig) (*Dependency, error) {
	tree, err := m.client.FetchFileTree(ctx, name, version)
	if err != nil {
		return nil, err
	}

	scripts, haveScripts := Select(tree.Assets, AssetScript, tree.Nested, cfg)
	stylesheets, haveStylesheets := Select(tree.Assets, AssetStylesheet, tree.Nested, cfg)

	dep, err := BuildDependency(DescriptorInput{
		Name:        name,
		BaseURL:     tree.BaseURL,
		Scripts:     scripts,
		Stylesheets: stylesheets,
		Config:      cfg,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Local {
		staged, err := m.store.StageVersion(name)
		if err != nil {
			return nil, err
		}

		var urls []string
		if haveScripts {
			if err := m.store.Prepare(staged, AssetScript); err != nil {
				m.store.DiscardStaged(staged)
				return nil, err
			}
			urls = append(urls, assetURLs(tree.BaseURL, scripts)...)
		}
		if haveStylesheets {
			if err := m.store.Prepare(staged, AssetStylesheet); err != nil {
				m.store.DiscardStaged(staged)
				return nil, err
			}
			urls = append(urls, assetURLs(tree.BaseURL, stylesheets)...)
		}

		if err := m.store.Download(ctx, staged, urls); err != nil {
			m.store.DiscardStaged(staged)
			return nil, err
		}

		if err := m.store.CommitStaged(staged, name, dep.Version); err != nil {
			m.store.DiscardStaged(staged)
			return nil, err
		}
	} else {
		if err := m.store.RecordRemote(name, dep.Version); err != nil {
			return nil, err
		}
	}

	if err := WriteDescriptor(m.store.Root(), dep); err != nil {
		return nil, err
	}
	return dep, nil
}

// resolveTarget maps a requested target onto a concrete version from the
// registry's list. Explicit versions must appear in the list: the rank
// comparison is undefined for versions the registry does not know.
func resolveTarget(vl *VersionList, target string) (string, error) {
	switch target {
	case "", TargetLatest:
		return vl.Versions[0], nil
	case TargetStable:
		if vl.Stable == "" {
			return "", fmt.Errorf("registry lists no stable tag")
		}
		return vl.Stable, nil
	default:
		if rankOf(vl.Versions, target) < 0 {
			return "", fmt.Errorf("%w: %s", ErrVersionNotFound, target)
		}
		return target, nil
	}
}

// classifyDirection compares positional ranks within the ordered version
// sequence: a lower index means newer, so a current version ranking below
// (newer than) the target makes the move a downgrade. A current version
// the registry no longer lists is treated as an upgrade.
func classifyDirection(versions []string, current, target string) UpdateDirection {
	currentRank := rankOf(versions, current)
	targetRank := rankOf(versions, target)
	if currentRank >= 0 && currentRank < targetRank {
		return DirectionDowngrade
	}
	return DirectionUpgrade
}

// rankOf returns the index of a version in the ordered list, or -1.
func rankOf(versions []string, version string) int {
	for i, v := range versions {
		if v == version {
			return i
		}
	}
	return -1
}

// assetURLs joins selected asset paths onto the download base URL,
// preserving order.
func assetURLs(baseURL string, paths []string) []string {
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = baseURL + p
	}
	return urls
}
