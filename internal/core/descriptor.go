package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const descriptorFileSuffix = ".libvend.yaml"

// DescriptorInput carries everything the builder needs to assemble a
// Dependency: the selected asset paths and the download base URL whose
// embedded tag segment is the authoritative resolved version.
type DescriptorInput struct {
	Name        string
	BaseURL     string
	Scripts     []string
	Stylesheets []string
	Config      SelectionConfig
}

// BuildDependency assembles the final Dependency descriptor.
//
// The recorded version is derived from the download URL's "@{tag}/"
// segment, not the originally requested tag: a caller that asked for
// "latest" needs the concrete version it resolved to.
//
// Remote mode keeps registry-relative paths unmodified and records the CDN
// base. Local mode rewrites each path to live under its per-type subfolder
// (js/, css/), reconciling registries whose own paths already embed the
// type folder with those that do not.
//
// A configuration that selected neither scripts nor stylesheets is a hard
// failure: no descriptor is produced.
func BuildDependency(in DescriptorInput) (*Dependency, error) {
	if len(in.Scripts) == 0 && len(in.Stylesheets) == 0 {
		return nil, fmt.Errorf("%w for %q under this configuration", ErrNoAssetsMatched, in.Name)
	}

	version, err := versionFromDownloadURL(in.BaseURL)
	if err != nil {
		return nil, err
	}

	dep := &Dependency{
		Name:    in.Name,
		Version: version,
	}

	if !in.Config.Local {
		dep.Mode = SourceRemote
		dep.RemoteBase = in.BaseURL
		dep.Scripts = append([]string(nil), in.Scripts...)
		dep.Stylesheets = append([]string(nil), in.Stylesheets...)
		return dep, nil
	}

	dep.Mode = SourceLocal
	dep.Scripts = localPaths(in.Scripts, AssetScript)
	dep.Stylesheets = localPaths(in.Stylesheets, AssetStylesheet)
	return dep, nil
}

// localPaths rewrites asset paths relative to their per-type subfolder,
// leaving already-prefixed paths alone.
func localPaths(paths []string, typ AssetType) []string {
	if len(paths) == 0 {
		return nil
	}
	prefix := string(typ) + "/"
	out := make([]string, len(paths))
	for i, p := range paths {
		if strings.HasPrefix(p, prefix) {
			out[i] = p
		} else {
			out[i] = prefix + p
		}
	}
	return out
}

// versionFromDownloadURL extracts the version tag embedded in a download
// base URL as its "@{tag}/" segment. The last "@" is the version
// delimiter; an earlier one can only belong to a scope prefix.
func versionFromDownloadURL(baseURL string) (string, error) {
	idx := strings.LastIndex(baseURL, "@")
	if idx < 0 || idx == len(baseURL)-1 {
		return "", fmt.Errorf("download URL %q has no embedded version tag", baseURL)
	}
	tag := baseURL[idx+1:]
	if slash := strings.Index(tag, "/"); slash >= 0 {
		tag = tag[:slash]
	}
	if tag == "" {
		return "", fmt.Errorf("download URL %q has no embedded version tag", baseURL)
	}
	return tag, nil
}

// descriptorFileName returns the per-library descriptor file name, scope
// stripped: "@scope/lib" writes "lib.libvend.yaml".
func descriptorFileName(name string) string {
	return BareName(name) + descriptorFileSuffix
}

// DescriptorPath returns the full path of a library's descriptor file in a
// storage root.
func DescriptorPath(root, name string) string {
	return filepath.Join(root, descriptorFileName(name))
}

// WriteDescriptor emits the descriptor as YAML into the storage root for
// the downstream templating layer. The write is atomic.
func WriteDescriptor(root string, dep *Dependency) error {
	data, err := yaml.Marshal(dep)
	if err != nil {
		return fmt.Errorf("marshaling descriptor: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating storage root: %w", err)
	}
	return writeFileAtomic(DescriptorPath(root, dep.Name), data)
}

// ReadDescriptor reads a library's descriptor back from the storage root.
func ReadDescriptor(root, name string) (*Dependency, error) {
	data, err := os.ReadFile(DescriptorPath(root, name))
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	var dep Dependency
	if err := yaml.Unmarshal(data, &dep); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	return &dep, nil
}
