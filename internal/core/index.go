package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	indexFileName       = "libvend.lock.json"
	currentIndexVersion = 1
)

// InstalledIndex is the persisted installed-state record: library name to
// installed version, one entry per name. It lives in the storage root and
// is the sole source of truth for "what is currently installed" — the
// directory scan in RebuildIndex exists only to adopt storage roots that
// predate the index file.
type InstalledIndex struct {
	IndexVersion int                `json:"indexVersion"`
	Libraries    []InstalledLibrary `json:"libraries"`
}

// Find returns the entry for a library name, or nil.
func (idx *InstalledIndex) Find(name string) *InstalledLibrary {
	for i := range idx.Libraries {
		if idx.Libraries[i].Name == name {
			return &idx.Libraries[i]
		}
	}
	return nil
}

// IndexPath returns the full path to the index file in a storage root.
func IndexPath(root string) string {
	return filepath.Join(root, indexFileName)
}

// ReadIndex reads and parses the index from a storage root.
// Returns nil, nil if the file does not exist.
func ReadIndex(root string) (*InstalledIndex, error) {
	data, err := os.ReadFile(IndexPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading installed index: %w", err)
	}

	var idx InstalledIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing installed index: %w", err)
	}
	return &idx, nil
}

// WriteIndex writes the index to a storage root atomically. Entries are
// sorted by name for deterministic output.
func WriteIndex(root string, idx *InstalledIndex) error {
	sort.Slice(idx.Libraries, func(i, j int) bool {
		return idx.Libraries[i].Name < idx.Libraries[j].Name
	})
	if idx.IndexVersion == 0 {
		idx.IndexVersion = currentIndexVersion
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling installed index: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating storage root: %w", err)
	}
	return writeFileAtomic(IndexPath(root), data)
}

// AddOrUpdateIndexEntry upserts an entry by library name, creating the
// index file if it does not exist. Upserting preserves the invariant of at
// most one installed version per library name.
func AddOrUpdateIndexEntry(root string, entry InstalledLibrary) error {
	idx, err := ReadIndex(root)
	if err != nil {
		return err
	}
	if idx == nil {
		idx = &InstalledIndex{
			IndexVersion: currentIndexVersion,
			Libraries:    []InstalledLibrary{},
		}
	}

	found := false
	for i, lib := range idx.Libraries {
		if lib.Name == entry.Name {
			idx.Libraries[i] = entry
			found = true
			break
		}
	}
	if !found {
		idx.Libraries = append(idx.Libraries, entry)
	}

	return WriteIndex(root, idx)
}

// RemoveIndexEntry removes an entry by library name. No-op if the index
// does not exist or the library is not recorded.
func RemoveIndexEntry(root string, name string) error {
	idx, err := ReadIndex(root)
	if err != nil {
		return err
	}
	if idx == nil {
		return nil
	}

	filtered := idx.Libraries[:0]
	for _, lib := range idx.Libraries {
		if lib.Name != name {
			filtered = append(filtered, lib)
		}
	}
	idx.Libraries = filtered

	return WriteIndex(root, idx)
}
