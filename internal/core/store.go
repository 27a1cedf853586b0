package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const downloadTimeout = 60 * time.Second

// Store manages the on-disk storage root for installed libraries. Each
// installed version occupies one unit directory named {bareName}-{version},
// subdivided into per-type subfolders (js/, css/). All side effects are
// confined to the root; no other part of the host project is touched.
//
// New versions are staged into a hidden directory and swapped into place
// only after every download succeeded, so a failed install or update never
// destroys the previously installed version.
type Store struct {
	root       string
	httpClient *http.Client
}

// NewStore creates a Store over the given storage root. The root need not
// exist yet; it is created on first install.
func NewStore(root string) *Store {
	return &Store{
		root:       root,
		httpClient: &http.Client{Timeout: downloadTimeout},
	}
}

// Root returns the storage root path.
func (s *Store) Root() string {
	return s.root
}

// UnitDir returns the unit directory for a library version. The scope of a
// scoped name is stripped: "@scope/lib" at 1.2.0 lives in "lib-1.2.0".
func (s *Store) UnitDir(name, version string) string {
	return filepath.Join(s.root, BareName(name)+"-"+version)
}

// Installed returns the installed record for a library, or nil if none.
// The index file is the source of truth; a missing index triggers a
// one-time directory scan to adopt storage roots that predate it.
func (s *Store) Installed(name string) (*InstalledLibrary, error) {
	idx, err := ReadIndex(s.root)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		idx, err = s.RebuildIndex()
		if err != nil {
			return nil, err
		}
	}
	return idx.Find(name), nil
}

// InstalledAll returns every installed record, sorted by name.
func (s *Store) InstalledAll() ([]InstalledLibrary, error) {
	idx, err := ReadIndex(s.root)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		idx, err = s.RebuildIndex()
		if err != nil {
			return nil, err
		}
	}
	return idx.Libraries, nil
}

// RemoveInstalled deletes a library's installed unit in full: the unit
// directory, the index entry, and the descriptor file. No-op if the
// library is not installed.
func (s *Store) RemoveInstalled(name string) error {
	rec, err := s.Installed(name)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	unit := s.UnitDir(name, rec.Version)
	if dirExists(unit) {
		if err := os.RemoveAll(unit); err != nil {
			return fmt.Errorf("removing %s: %w", unit, err)
		}
	}

	descriptor := filepath.Join(s.root, descriptorFileName(name))
	if fileExists(descriptor) {
		if err := os.Remove(descriptor); err != nil {
			return fmt.Errorf("removing descriptor: %w", err)
		}
	}

	return RemoveIndexEntry(s.root, name)
}

// StageVersion creates a fresh, uniquely named staging directory for a new
// version's downloads. The caller commits it with CommitStaged or discards
// it with DiscardStaged.
func (s *Store) StageVersion(name string) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("creating storage root: %w", err)
	}
	staged, err := os.MkdirTemp(s.root, ".staging-"+BareName(name)+"-*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	return staged, nil
}

// DiscardStaged removes a staging directory and everything in it.
func (s *Store) DiscardStaged(staged string) {
	_ = os.RemoveAll(staged)
}

// Prepare idempotently creates the directory layout for assets of the
// given type under dir. Safe to call when the layout already exists.
func (s *Store) Prepare(dir string, typ AssetType) error {
	if err := os.MkdirAll(filepath.Join(dir, string(typ)), 0o755); err != nil {
		return fmt.Errorf("creating %s layout: %w", typ, err)
	}
	return nil
}

// Download fetches each asset URL into dir/{extension}/{fileName}, where
// the file name is the URL's final path segment and the extension folder
// is derived from it. An asset with no resolvable file extension is
// reported as a failure rather than written under a guessed name.
//
// Fetches run concurrently; each is independent, and a failure on one
// asset does not roll back or cancel its siblings. When any asset fails,
// the returned *DownloadError lists the failures in listing order.
func (s *Store) Download(ctx context.Context, dir string, assetURLs []string) error {
	errs := make([]error, len(assetURLs))

	var wg sync.WaitGroup
	for i, assetURL := range assetURLs {
		wg.Add(1)
		go func(i int, assetURL string) {
			defer wg.Done()
			errs[i] = s.downloadOne(ctx, dir, assetURL)
		}(i, assetURL)
	}
	wg.Wait()

	var failures []DownloadFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, DownloadFailure{URL: assetURLs[i], Err: err})
		}
	}
	if len(failures) > 0 {
		return &DownloadError{Total: len(assetURLs), Failures: failures}
	}
	return nil
}

// downloadOne fetches a single asset into its extension subfolder.
func (s *Store) downloadOne(ctx context.Context, dir, assetURL string) error {
	fileName, ext, err := destFileName(assetURL)
	if err != nil {
		return err
	}

	destDir := filepath.Join(dir, ext)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", ext, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching: unexpected status %d", resp.StatusCode)
	}

	dest, err := os.OpenFile(filepath.Join(destDir, fileName), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// destFileName derives the destination file name and extension folder from
// an asset URL's final path segment.
func destFileName(assetURL string) (name, ext string, err error) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid asset URL: %w", err)
	}
	name = path.Base(u.Path)
	e := path.Ext(name)
	if e == "" || e == "." || name == "/" || name == "." {
		return "", "", fmt.Errorf("asset URL has no resolvable file extension")
	}
	return name, strings.TrimPrefix(e, "."), nil
}

// CommitStaged swaps a fully downloaded staging directory into place as
// the installed unit for name@version: the previously installed version's
// unit is removed, the staging directory renamed to its final name, and
// the index updated. This is the only point where the old version is
// destroyed, so every failure before it leaves the prior install intact.
func (s *Store) CommitStaged(staged, name, version string) error {
	if err := s.RemoveInstalled(name); err != nil {
		return fmt.Errorf("removing previous version: %w", err)
	}

	unit := s.UnitDir(name, version)
	// A leftover unit with no index entry can exist after an interrupted
	// run; clear it so the rename cannot fail.
	if dirExists(unit) {
		if err := os.RemoveAll(unit); err != nil {
			return fmt.Errorf("clearing stale unit: %w", err)
		}
	}
	if err := os.Rename(staged, unit); err != nil {
		return fmt.Errorf("activating %s@%s: %w", name, version, err)
	}

	return AddOrUpdateIndexEntry(s.root, InstalledLibrary{
		Name:        name,
		Version:     version,
		Mode:        SourceLocal,
		InstalledAt: time.Now().UTC(),
	})
}

// RecordRemote records a remote-mode installation: any previously
// installed local unit is removed and the index entry replaced.
func (s *Store) RecordRemote(name, version string) error {
	if err := s.RemoveInstalled(name); err != nil {
		return fmt.Errorf("removing previous version: %w", err)
	}
	return AddOrUpdateIndexEntry(s.root, InstalledLibrary{
		Name:        name,
		Version:     version,
		Mode:        SourceRemote,
		InstalledAt: time.Now().UTC(),
	})
}

// RebuildIndex scans the storage root for unit directories named
// {name}-{version} and writes a fresh index from what it finds. It exists
// to adopt storage roots created before the index file; ambiguous layouts
// (two units decoding to the same library name) are an error rather than
// a guess.
func (s *Store) RebuildIndex() (*InstalledIndex, error) {
	idx := &InstalledIndex{
		IndexVersion: currentIndexVersion,
		Libraries:    []InstalledLibrary{},
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("scanning storage root: %w", err)
	}

	seen := make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name, version, ok := splitUnitName(entry.Name())
		if !ok {
			continue
		}
		if prior, dup := seen[name]; dup {
			return nil, fmt.Errorf("storage root holds both %s-%s and %s-%s: remove one and retry",
				name, prior, name, version)
		}
		seen[name] = version
		idx.Libraries = append(idx.Libraries, InstalledLibrary{
			Name:    name,
			Version: version,
			Mode:    SourceLocal,
		})
	}

	if len(idx.Libraries) > 0 {
		if err := WriteIndex(s.root, idx); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// splitUnitName decodes a unit directory name into library name and
// version. The split point is the first dash followed by a digit, which
// keeps dashed library names ("my-lib-2.0.0") and pre-release versions
// ("lib-2.0.0-beta.1") unambiguous.
func splitUnitName(dir string) (name, version string, ok bool) {
	for i := 0; i < len(dir)-1; i++ {
		if dir[i] == '-' && dir[i+1] >= '0' && dir[i+1] <= '9' {
			return dir[:i], dir[i+1:], true
		}
	}
	return "", "", false
}
