package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitUnitName(t *testing.T) {
	cases := []struct {
		dir     string
		name    string
		version string
		ok      bool
	}{
		{"alpha-1.0.0", "alpha", "1.0.0", true},
		{"my-lib-2.0.0", "my-lib", "2.0.0", true},
		{"lib-2.0.0-beta.1", "lib", "2.0.0-beta.1", true},
		{"noversion", "", "", false},
		{"trailing-", "", "", false},
	}

	for _, tc := range cases {
		name, version, ok := splitUnitName(tc.dir)
		if ok != tc.ok || name != tc.name || version != tc.version {
			t.Errorf("splitUnitName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.dir, name, version, ok, tc.name, tc.version, tc.ok)
		}
	}
}

func TestStore_UnitDirStripsScope(t *testing.T) {
	s := NewStore("/tmp/libs")
	got := s.UnitDir("@acme/widgets", "1.0.0")
	if filepath.Base(got) != "widgets-1.0.0" {
		t.Errorf("UnitDir() = %q, want basename widgets-1.0.0", got)
	}
}

func TestStore_InstalledNone(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "libs"))

	rec, err := s.Installed("alpha")
	if err != nil {
		t.Fatalf("Installed() error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
}

func TestStore_RemoveInstalledNoop(t *testing.T) {
	root := filepath.Join(t.TempDir(), "libs")
	s := NewStore(root)

	if err := s.RemoveInstalled("alpha"); err != nil {
		t.Fatalf("RemoveInstalled() on empty store: %v", err)
	}
	if dirExists(root) {
		t.Error("no-op removal created the storage root")
	}
}

func TestStore_CommitStagedReplacesPrevious(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	// Install 1.0.0.
	staged, err := s.StageVersion("alpha")
	if err != nil {
		t.Fatal(err)
	}
	writeTestAsset(t, staged, "js/alpha.min.js")
	if err := s.CommitStaged(staged, "alpha", "1.0.0"); err != nil {
		t.Fatalf("CommitStaged() error: %v", err)
	}

	// Replace with 2.0.0.
	staged, err = s.StageVersion("alpha")
	if err != nil {
		t.Fatal(err)
	}
	writeTestAsset(t, staged, "js/alpha.min.js")
	if err := s.CommitStaged(staged, "alpha", "2.0.0"); err != nil {
		t.Fatalf("CommitStaged() error: %v", err)
	}

	if dirExists(s.UnitDir("alpha", "1.0.0")) {
		t.Error("previous unit survived the swap")
	}
	if !dirExists(s.UnitDir("alpha", "2.0.0")) {
		t.Error("new unit missing after swap")
	}

	rec, err := s.Installed("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.Version != "2.0.0" {
		t.Errorf("installed record = %+v, want version 2.0.0", rec)
	}
	if rec.Mode != SourceLocal {
		t.Errorf("Mode = %q, want local", rec.Mode)
	}

	// No staging leftovers.
	entries, _ := os.ReadDir(root)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".staging-") {
			t.Errorf("staging leftover %s", e.Name())
		}
	}
}

func TestStore_RecordRemoteRemovesLocalUnit(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	staged, err := s.StageVersion("alpha")
	if err != nil {
		t.Fatal(err)
	}
	writeTestAsset(t, staged, "js/alpha.min.js")
	if err := s.CommitStaged(staged, "alpha", "1.0.0"); err != nil {
		t.Fatal(err)
	}

	if err := s.RecordRemote("alpha", "2.0.0"); err != nil {
		t.Fatalf("RecordRemote() error: %v", err)
	}

	if dirExists(s.UnitDir("alpha", "1.0.0")) {
		t.Error("local unit survived switch to remote mode")
	}
	rec, err := s.Installed("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil || rec.Mode != SourceRemote || rec.Version != "2.0.0" {
		t.Errorf("installed record = %+v, want remote 2.0.0", rec)
	}
}

func TestStore_RebuildIndexAdoptsUnits(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"alpha-1.2.0", "my-lib-2.0.0-beta.1"} {
		if err := os.MkdirAll(filepath.Join(root, dir, "js"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	s := NewStore(root)
	rec, err := s.Installed("my-lib")
	if err != nil {
		t.Fatalf("Installed() error: %v", err)
	}
	if rec == nil || rec.Version != "2.0.0-beta.1" {
		t.Errorf("adopted record = %+v, want version 2.0.0-beta.1", rec)
	}

	// The scan result is persisted as the index.
	if !fileExists(IndexPath(root)) {
		t.Error("rebuild did not persist the index")
	}
}

func TestStore_RebuildIndexRejectsAmbiguity(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"alpha-1.0.0", "alpha-2.0.0"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	s := NewStore(root)
	if _, err := s.Installed("alpha"); err == nil {
		t.Error("expected an error for two units of the same library")
	}
}

func TestStore_DownloadPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("asset body"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewStore(dir)

	urls := []string{
		srv.URL + "/alpha.min.js",
		srv.URL + "/missing.min.js",
		srv.URL + "/alpha.min.css",
	}
	err := s.Download(context.Background(), dir, urls)

	var de *DownloadError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DownloadError", err)
	}
	if len(de.Failures) != 1 || de.Total != 3 {
		t.Errorf("failures = %d of %d, want 1 of 3", len(de.Failures), de.Total)
	}
	if de.Failures[0].URL != urls[1] {
		t.Errorf("failed URL = %q, want %q", de.Failures[0].URL, urls[1])
	}

	// Siblings are not rolled back.
	if !fileExists(filepath.Join(dir, "js", "alpha.min.js")) {
		t.Error("sibling script download missing")
	}
	if !fileExists(filepath.Join(dir, "css", "alpha.min.css")) {
		t.Error("sibling stylesheet download missing")
	}
}

func TestStore_DownloadRejectsExtensionless(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("asset body"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewStore(dir)

	err := s.Download(context.Background(), dir, []string{srv.URL + "/no-extension"})

	var de *DownloadError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DownloadError", err)
	}

	// Nothing should have been written under a guessed name.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("extensionless download wrote files: %v", entries)
	}
}

func writeTestAsset(t *testing.T, dir, rel string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("asset body"), 0o644); err != nil {
		t.Fatal(err)
	}
}
