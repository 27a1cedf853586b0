package core

import (
	"os"
	"testing"
	"time"
)

func TestReadIndex_Missing(t *testing.T) {
	idx, err := ReadIndex(t.TempDir())
	if err != nil {
		t.Fatalf("ReadIndex() error: %v", err)
	}
	if idx != nil {
		t.Errorf("expected nil index for a missing file, got %+v", idx)
	}
}

func TestIndex_UpsertKeepsOneEntryPerName(t *testing.T) {
	root := t.TempDir()

	entries := []InstalledLibrary{
		{Name: "alpha", Version: "1.0.0", Mode: SourceLocal, InstalledAt: time.Now().UTC()},
		{Name: "beta", Version: "2.0.0", Mode: SourceRemote, InstalledAt: time.Now().UTC()},
		{Name: "alpha", Version: "1.5.0", Mode: SourceLocal, InstalledAt: time.Now().UTC()},
	}
	for _, e := range entries {
		if err := AddOrUpdateIndexEntry(root, e); err != nil {
			t.Fatalf("AddOrUpdateIndexEntry(%s) error: %v", e.Name, err)
		}
	}

	idx, err := ReadIndex(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx.Libraries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(idx.Libraries))
	}
	if rec := idx.Find("alpha"); rec == nil || rec.Version != "1.5.0" {
		t.Errorf("alpha entry = %+v, want version 1.5.0", rec)
	}
}

func TestIndex_SortedByName(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mu"} {
		err := AddOrUpdateIndexEntry(root, InstalledLibrary{
			Name: name, Version: "1.0.0", Mode: SourceLocal,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	idx, err := ReadIndex(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mu", "zeta"}
	for i, lib := range idx.Libraries {
		if lib.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, lib.Name, want[i])
		}
	}
	if idx.IndexVersion != currentIndexVersion {
		t.Errorf("IndexVersion = %d, want %d", idx.IndexVersion, currentIndexVersion)
	}
}

func TestIndex_RemoveEntry(t *testing.T) {
	root := t.TempDir()

	// Removing from a root with no index is a no-op.
	if err := RemoveIndexEntry(root, "alpha"); err != nil {
		t.Fatalf("RemoveIndexEntry() on missing index: %v", err)
	}

	err := AddOrUpdateIndexEntry(root, InstalledLibrary{
		Name: "alpha", Version: "1.0.0", Mode: SourceLocal,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := RemoveIndexEntry(root, "alpha"); err != nil {
		t.Fatalf("RemoveIndexEntry() error: %v", err)
	}
	idx, err := ReadIndex(root)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Find("alpha") != nil {
		t.Error("entry survived removal")
	}
}

func TestReadIndex_Corrupt(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(IndexPath(root), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadIndex(root); err == nil {
		t.Error("expected an error for a corrupt index file")
	}
}
