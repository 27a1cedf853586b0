package core

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestVersionFromDownloadURL(t *testing.T) {
	cases := []struct {
		url     string
		version string
		wantErr bool
	}{
		{"https://cdn.example.com/alpha@1.2.3/", "1.2.3", false},
		{"https://cdn.example.com/alpha@1.2.3/dist/", "1.2.3", false},
		{"https://cdn.example.com/@acme/widgets@2.0.0-rc.1/", "2.0.0-rc.1", false},
		{"https://cdn.example.com/alpha/", "", true},
		{"https://cdn.example.com/alpha@", "", true},
	}

	for _, tc := range cases {
		got, err := versionFromDownloadURL(tc.url)
		if tc.wantErr {
			if err == nil {
				t.Errorf("versionFromDownloadURL(%q) = %q, want error", tc.url, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("versionFromDownloadURL(%q) error: %v", tc.url, err)
			continue
		}
		if got != tc.version {
			t.Errorf("versionFromDownloadURL(%q) = %q, want %q", tc.url, got, tc.version)
		}
	}
}

func TestBuildDependency_Local(t *testing.T) {
	dep, err := BuildDependency(DescriptorInput{
		Name:        "alpha",
		BaseURL:     "https://cdn.example.com/alpha@1.0.0/",
		Scripts:     []string{"alpha.min.js"},
		Stylesheets: []string{"alpha.min.css"},
		Config:      SelectionConfig{Local: true, Minified: true},
	})
	if err != nil {
		t.Fatalf("BuildDependency() error: %v", err)
	}

	if dep.Mode != SourceLocal {
		t.Errorf("Mode = %q, want local", dep.Mode)
	}
	if dep.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", dep.Version)
	}
	if dep.RemoteBase != "" {
		t.Errorf("local dependency carries a remote base %q", dep.RemoteBase)
	}
	if want := []string{"js/alpha.min.js"}; !reflect.DeepEqual(dep.Scripts, want) {
		t.Errorf("Scripts = %v, want %v", dep.Scripts, want)
	}
	if want := []string{"css/alpha.min.css"}; !reflect.DeepEqual(dep.Stylesheets, want) {
		t.Errorf("Stylesheets = %v, want %v", dep.Stylesheets, want)
	}
}

func TestBuildDependency_LocalAlreadyPrefixed(t *testing.T) {
	// Nested trees hand the builder paths that already carry the type
	// folder; they must not be double-prefixed.
	dep, err := BuildDependency(DescriptorInput{
		Name:    "beta",
		BaseURL: "https://cdn.example.com/beta@2.0.0/dist/",
		Scripts: []string{"js/beta.min.js"},
		Config:  SelectionConfig{Local: true, Minified: true},
	})
	if err != nil {
		t.Fatalf("BuildDependency() error: %v", err)
	}
	if want := []string{"js/beta.min.js"}; !reflect.DeepEqual(dep.Scripts, want) {
		t.Errorf("Scripts = %v, want %v", dep.Scripts, want)
	}
	if dep.Stylesheets != nil {
		t.Errorf("Stylesheets = %v, want nil", dep.Stylesheets)
	}
}

func TestBuildDependency_Remote(t *testing.T) {
	dep, err := BuildDependency(DescriptorInput{
		Name:        "alpha",
		BaseURL:     "https://cdn.example.com/alpha@1.0.0/",
		Scripts:     []string{"alpha.min.js"},
		Stylesheets: []string{"alpha.min.css"},
		Config:      SelectionConfig{Minified: true},
	})
	if err != nil {
		t.Fatalf("BuildDependency() error: %v", err)
	}

	if dep.Mode != SourceRemote {
		t.Errorf("Mode = %q, want remote", dep.Mode)
	}
	if dep.RemoteBase != "https://cdn.example.com/alpha@1.0.0/" {
		t.Errorf("RemoteBase = %q", dep.RemoteBase)
	}
	// Remote paths stay registry-relative: no js/ and css/ rewriting.
	if want := []string{"alpha.min.js"}; !reflect.DeepEqual(dep.Scripts, want) {
		t.Errorf("Scripts = %v, want %v", dep.Scripts, want)
	}
	if want := []string{"alpha.min.css"}; !reflect.DeepEqual(dep.Stylesheets, want) {
		t.Errorf("Stylesheets = %v, want %v", dep.Stylesheets, want)
	}
}

func TestBuildDependency_NoAssets(t *testing.T) {
	_, err := BuildDependency(DescriptorInput{
		Name:    "alpha",
		BaseURL: "https://cdn.example.com/alpha@1.0.0/",
		Config:  SelectionConfig{Local: true},
	})
	if !errors.Is(err, ErrNoAssetsMatched) {
		t.Errorf("error = %v, want ErrNoAssetsMatched", err)
	}
}

func TestDescriptor_WriteRead(t *testing.T) {
	root := t.TempDir()
	dep := &Dependency{
		Name:        "@acme/widgets",
		Version:     "1.0.0",
		Mode:        SourceLocal,
		Scripts:     []string{"js/widgets.min.js"},
		Stylesheets: []string{"css/widgets.min.css"},
	}

	if err := WriteDescriptor(root, dep); err != nil {
		t.Fatalf("WriteDescriptor() error: %v", err)
	}

	// The file name strips the scope.
	want := filepath.Join(root, "widgets.libvend.yaml")
	if !fileExists(want) {
		t.Fatalf("descriptor not written at %s", want)
	}

	got, err := ReadDescriptor(root, "@acme/widgets")
	if err != nil {
		t.Fatalf("ReadDescriptor() error: %v", err)
	}
	if !reflect.DeepEqual(got, dep) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, dep)
	}
}
