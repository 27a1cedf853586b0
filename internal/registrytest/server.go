// Package registrytest provides an in-process fake package registry for
// tests: the metadata endpoint, the file-tree endpoint, and a CDN serving
// asset bytes, all backed by fixtures registered per library.
package registrytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// File is one node in a fixture file tree. Directories carry children.
type File struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Hash  string `json:"hash,omitempty"`
	Files []File `json:"files,omitempty"`
}

// FileNode builds a leaf file node.
func FileNode(name string) File {
	return File{Type: "file", Name: name, Hash: "sha256-" + name}
}

// DirNode builds a directory node.
func DirNode(name string, children ...File) File {
	return File{Type: "directory", Name: name, Files: children}
}

// Library is the fixture data for one registered library.
type Library struct {
	Description string
	Homepage    string
	License     string
	Author      string
	// Versions is the ordered version list, newest first.
	Versions []string
	// Stable is the distinguished latest-stable tag.
	Stable string
	// Trees maps version to the published top-level file nodes.
	Trees map[string][]File
	// Content maps version to path-relative asset bytes served by the
	// CDN endpoint. Paths are relative to the version root (for example
	// "dist/js/app.min.js").
	Content map[string]map[string]string
}

// Server is the fake registry. Registry and CDN endpoints share one
// underlying HTTP server under the /pkg and /cdn prefixes.
type Server struct {
	mu        sync.RWMutex
	libraries map[string]*Library
	raw       map[string]rawResponse

	httpServer *httptest.Server
}

type rawResponse struct {
	status int
	body   string
}

// New starts a fake registry server. Callers must Close it.
func New() *Server {
	s := &Server{
		libraries: make(map[string]*Library),
		raw:       make(map[string]rawResponse),
	}

	r := chi.NewRouter()
	r.Get("/pkg/*", s.handlePackage)
	r.Get("/cdn/*", s.handleCDN)
	s.httpServer = httptest.NewServer(r)
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// RegistryURL returns the metadata endpoint base URL.
func (s *Server) RegistryURL() string {
	return s.httpServer.URL + "/pkg"
}

// CDNURL returns the CDN base URL.
func (s *Server) CDNURL() string {
	return s.httpServer.URL + "/cdn"
}

// Add registers a library fixture.
func (s *Server) Add(name string, lib Library) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.libraries[name] = &lib
}

// SetRaw overrides the metadata endpoint for a name with a fixed status
// and body, for malformed-response tests.
func (s *Server) SetRaw(name string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[name] = rawResponse{status: status, body: body}
}

// handlePackage serves both the metadata document ({name}) and the file
// tree ({name}@{version}). The split point is the last "@": a leading "@"
// belongs to a scope, never a version.
func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if raw, ok := s.raw[rest]; ok {
		w.WriteHeader(raw.status)
		_, _ = w.Write([]byte(raw.body))
		return
	}

	name, version := splitSpec(rest)
	lib, ok := s.libraries[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if version == "" {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":        name,
			"description": lib.Description,
			"homepage":    lib.Homepage,
			"license":     lib.License,
			"author":      lib.Author,
			"tags":        map[string]string{"latest": lib.Stable},
			"versions":    lib.Versions,
		})
		return
	}

	tree, ok := lib.Trees[version]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"files": tree,
	})
}

// handleCDN serves registered asset bytes at {name}@{version}/{path}.
func (s *Server) handleCDN(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")

	at := strings.LastIndex(rest, "@")
	if at <= 0 {
		http.NotFound(w, r)
		return
	}
	slash := strings.Index(rest[at:], "/")
	if slash < 0 {
		http.NotFound(w, r)
		return
	}
	name := rest[:at]
	version := rest[at+1 : at+slash]
	assetPath := rest[at+slash+1:]

	s.mu.RLock()
	defer s.mu.RUnlock()

	lib, ok := s.libraries[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	content, ok := lib.Content[version][assetPath]
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(content))
}

// splitSpec splits "name" or "name@version", honoring scoped names whose
// leading "@" is not a version delimiter.
func splitSpec(spec string) (name, version string) {
	at := strings.LastIndex(spec, "@")
	if at <= 0 {
		return spec, ""
	}
	return spec[:at], spec[at+1:]
}
