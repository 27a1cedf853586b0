// Package core provides the dependency resolution and lifecycle engine for
// libvend. It has zero UI dependencies and is independently testable.
package core

import (
	"strings"
	"time"
)

// AssetType is the kind of asset a library file represents.
type AssetType string

const (
	// AssetScript is a JavaScript asset ("js").
	AssetScript AssetType = "js"
	// AssetStylesheet is a CSS asset ("css").
	AssetStylesheet AssetType = "css"
)

// SourceMode indicates whether a dependency's assets are copied into the
// local storage root or referenced from the CDN at use time.
type SourceMode string

const (
	SourceLocal  SourceMode = "local"
	SourceRemote SourceMode = "remote"
)

// SelectionConfig narrows a library's file tree down to the assets the host
// project wants. Filtering is purely conjunctive: every enabled flag
// requires its marker, every disabled flag (except Local) forbids it.
type SelectionConfig struct {
	Local    bool // copy assets into the storage root vs. record a CDN reference
	Minified bool // ".min" builds
	Bundle   bool // "bundle" builds
	Lite     bool // "lite" variant
	RTL      bool // right-to-left builds
}

// AssetEntry is one file in a library version's published tree.
// Name is the leaf file name; Hash is the registry's opaque content hash.
type AssetEntry struct {
	Name string
	Hash string
}

// FileTree is the canonical decoded shape of a registry file listing.
// The registry publishes flat, type-segregated, and dist-nested trees; the
// client collapses all three into this one form so downstream code never
// branches on registry quirks.
type FileTree struct {
	// BaseURL is the absolute download base for the listed assets, always
	// ending in "/". For dist-nested trees it already includes the "dist/"
	// segment.
	BaseURL string
	// Assets in the registry's listing order.
	Assets []AssetEntry
	// Nested is true when the tree segregates assets into js/ and css/
	// subfolders; selected paths are then re-prefixed with the type.
	Nested bool
}

// VersionList is a registry's published version information for a library.
type VersionList struct {
	// Versions is the full ordered sequence of known versions, newest
	// first. The ordering is the registry's own; no semver parsing is
	// performed anywhere in libvend.
	Versions []string
	// Stable is the distinguished latest-stable tag. It need not be
	// Versions[0]: pre-releases may precede it.
	Stable string
}

// LibraryMetadata is descriptive registry metadata for a library.
type LibraryMetadata struct {
	Name        string
	Description string
	Homepage    string
	License     string
	Author      string
}

// Dependency is the binding-ready description of a resolved library that
// the downstream templating layer consumes. Created by a successful
// resolve+install cycle and only ever replaced whole, never mutated.
type Dependency struct {
	Name        string     `json:"name" yaml:"name"`
	Version     string     `json:"version" yaml:"version"`
	Mode        SourceMode `json:"mode" yaml:"mode"`
	Scripts     []string   `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Stylesheets []string   `json:"stylesheets,omitempty" yaml:"stylesheets,omitempty"`
	// RemoteBase is the CDN base URL for remote-mode dependencies.
	RemoteBase string `json:"remoteBase,omitempty" yaml:"remoteBase,omitempty"`
}

// InstalledLibrary is one entry in the installed-state index: the record of
// which version of a library is currently installed. At most one entry per
// library name exists at a time.
type InstalledLibrary struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Mode        SourceMode `json:"mode"`
	InstalledAt time.Time  `json:"installedAt,omitempty"`
}

// UpdateDirection classifies an update relative to the registry's ordering.
type UpdateDirection string

const (
	DirectionUpgrade   UpdateDirection = "upgrade"
	DirectionDowngrade UpdateDirection = "downgrade"
)

// UpdateResult summarizes a completed update.
type UpdateResult struct {
	Dependency *Dependency
	Previous   string
	Direction  UpdateDirection
}

// BareName strips the scope qualifier from a library name. Scoped names
// ("@scope/name") keep the scope for registry and CDN URLs but use the bare
// name for unit directories, descriptor files, and binding identifiers.
func BareName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
