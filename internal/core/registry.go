package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultRegistryURL = "https://data.jsdelivr.com/v1/package/npm"
	defaultCDNURL      = "https://cdn.jsdelivr.net/npm"

	registryRequestTimeout = 30 * time.Second
)

// Client talks to the package registry: version lists, metadata, and file
// trees for a named library. One registry call per method invocation; there
// is no caching layer, and no retries — callers that want both the version
// list and the stable tag call twice or compose, and retry by re-invoking.
type Client struct {
	registryURL string
	cdnURL      string
	httpClient  *http.Client
}

// NewClient creates a Client for the given registry and CDN base URLs.
// Empty values fall back to the public defaults.
func NewClient(registryURL, cdnURL string) *Client {
	if registryURL == "" {
		registryURL = defaultRegistryURL
	}
	if cdnURL == "" {
		cdnURL = defaultCDNURL
	}
	return &Client{
		registryURL: strings.TrimSuffix(registryURL, "/"),
		cdnURL:      strings.TrimSuffix(cdnURL, "/"),
		httpClient:  &http.Client{Timeout: registryRequestTimeout},
	}
}

// CDNBaseURL returns the CDN download base for a library version, ending
// in "/". The version tag is embedded as the "@{version}/" segment.
func (c *Client) CDNBaseURL(name, version string) string {
	return fmt.Sprintf("%s/%s@%s/", c.cdnURL, name, version)
}

// packageResponse is the registry's metadata document for a library.
type packageResponse struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Homepage    string            `json:"homepage"`
	License     string            `json:"license"`
	Author      string            `json:"author"`
	Tags        map[string]string `json:"tags"`
	Versions    []string          `json:"versions"`
}

// treeNode is one entry in the registry's published file tree. Directories
// carry child nodes; files carry a content hash.
type treeNode struct {
	Type  string     `json:"type"` // "file" or "directory"
	Name  string     `json:"name"`
	Hash  string     `json:"hash,omitempty"`
	Files []treeNode `json:"files,omitempty"`
}

// treeResponse is the registry's file listing for a library version.
type treeResponse struct {
	Default string     `json:"default,omitempty"`
	Files   []treeNode `json:"files"`
}

// ListVersions fetches the full ordered version sequence (newest first) and
// the latest-stable tag for a library.
func (c *Client) ListVersions(ctx context.Context, name string) (*VersionList, error) {
	var resp packageResponse
	if err := c.getJSON(ctx, c.packageURL(name), &resp); err != nil {
		return nil, err
	}
	if len(resp.Versions) == 0 {
		return nil, &RegistryError{
			Kind:  RegistryErrBadResponse,
			URL:   c.packageURL(name),
			Hints: hintsForRegistryError(RegistryErrBadResponse),
		}
	}
	return &VersionList{
		Versions: resp.Versions,
		Stable:   resp.Tags["latest"],
	}, nil
}

// LatestStable fetches the distinguished latest-stable tag for a library.
// This is not necessarily the newest entry in the version list: the
// registry may list pre-releases ahead of it.
func (c *Client) LatestStable(ctx context.Context, name string) (string, error) {
	vl, err := c.ListVersions(ctx, name)
	if err != nil {
		return "", err
	}
	if vl.Stable == "" {
		return "", &RegistryError{
			Kind: RegistryErrBadResponse,
			URL:  c.packageURL(name),
		}
	}
	return vl.Stable, nil
}

// Metadata fetches descriptive registry metadata for a library.
func (c *Client) Metadata(ctx context.Context, name string) (*LibraryMetadata, error) {
	var resp packageResponse
	if err := c.getJSON(ctx, c.packageURL(name), &resp); err != nil {
		return nil, err
	}
	meta := &LibraryMetadata{
		Name:        resp.Name,
		Description: resp.Description,
		Homepage:    resp.Homepage,
		License:     resp.License,
		Author:      resp.Author,
	}
	if meta.Name == "" {
		meta.Name = name
	}
	return meta, nil
}

// FetchFileTree fetches the published tree for name@version and collapses
// it into the canonical {assets, nested} form. The tree shape varies per
// library and is detected structurally at call time:
//
//   - a top-level "dist" directory whose js/css children are directories:
//     those children's files are the asset set (nested), and the download
//     base gains the "dist/" segment;
//   - a top-level "dist" directory holding only leaf files: those files
//     are a flat asset set under "dist/";
//   - top-level js/css directories: their files are the asset set (nested);
//   - anything else: every top-level leaf file, flat. Asset type is then
//     inferred later purely by file extension during selection.
func (c *Client) FetchFileTree(ctx context.Context, name, version string) (*FileTree, error) {
	var resp treeResponse
	if err := c.getJSON(ctx, c.treeURL(name, version), &resp); err != nil {
		return nil, err
	}

	base := c.CDNBaseURL(name, version)

	if dist := findDirectory(resp.Files, "dist"); dist != nil {
		if assets := typeSegregatedAssets(dist.Files); assets != nil {
			return &FileTree{BaseURL: base + "dist/", Assets: assets, Nested: true}, nil
		}
		return &FileTree{BaseURL: base + "dist/", Assets: leafAssets(dist.Files), Nested: false}, nil
	}

	if assets := typeSegregatedAssets(resp.Files); assets != nil {
		return &FileTree{BaseURL: base, Assets: assets, Nested: true}, nil
	}

	return &FileTree{BaseURL: base, Assets: leafAssets(resp.Files), Nested: false}, nil
}

// typeSegregatedAssets collects the leaf files of js/ and css/ child
// directories, preserving listing order. Returns nil when neither exists
// as a directory — the tree is not type-segregated.
func typeSegregatedAssets(nodes []treeNode) []AssetEntry {
	var assets []AssetEntry
	found := false
	for _, n := range nodes {
		if n.Type != "directory" {
			continue
		}
		if n.Name != string(AssetScript) && n.Name != string(AssetStylesheet) {
			continue
		}
		found = true
		assets = append(assets, leafAssets(n.Files)...)
	}
	if !found {
		return nil
	}
	if assets == nil {
		// Segregated but empty: distinguish from "not segregated".
		assets = []AssetEntry{}
	}
	return assets
}

// leafAssets converts the file nodes of a listing into asset entries,
// skipping subdirectories and preserving order.
func leafAssets(nodes []treeNode) []AssetEntry {
	var assets []AssetEntry
	for _, n := range nodes {
		if n.Type != "file" {
			continue
		}
		assets = append(assets, AssetEntry{Name: n.Name, Hash: n.Hash})
	}
	return assets
}

// findDirectory returns the first directory node with the given name.
func findDirectory(nodes []treeNode, name string) *treeNode {
	for i := range nodes {
		if nodes[i].Type == "directory" && nodes[i].Name == name {
			return &nodes[i]
		}
	}
	return nil
}

func (c *Client) packageURL(name string) string {
	return c.registryURL + "/" + name
}

func (c *Client) treeURL(name, version string) string {
	return c.registryURL + "/" + name + "@" + version
}

// getJSON performs one GET and decodes the JSON body into out. Failures
// are classified into a *RegistryError; no retries are attempted here.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return classifyRegistryError(url, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyRegistryError(url, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return classifyRegistryError(url, resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RegistryError{
			Kind:  RegistryErrBadResponse,
			URL:   url,
			Hints: hintsForRegistryError(RegistryErrBadResponse),
			cause: err,
		}
	}
	return nil
}
