package core

import (
	"path"
	"strings"
)

// Marker tokens tested against asset file names. The tests are plain
// substring checks: registries publish no structured variant metadata, so
// file naming conventions are all there is to go on.
const (
	sourcemapMarker = ".map"
	liteMarker      = "lite"
	bundleMarker    = "bundle"
	rtlMarker       = "rtl"
	minifiedMarker  = ".min"
)

// nameRule is one conjunct of the selection filter: the token must be
// present iff required, absent otherwise.
type nameRule struct {
	token    string
	required bool
}

// compileRules builds the variant-marker conjunction, in fixed order.
// Sourcemaps are excluded unconditionally; everything else follows its
// config flag. Type membership is not a marker rule: it is an extension
// check, so ".js" cannot match a ".json" file by substring accident.
func compileRules(cfg SelectionConfig) []nameRule {
	return []nameRule{
		{sourcemapMarker, false},
		{liteMarker, cfg.Lite},
		{bundleMarker, cfg.Bundle},
		{rtlMarker, cfg.RTL},
		{minifiedMarker, cfg.Minified},
	}
}

// Select filters a file tree down to the asset paths of one type matching
// the configuration, preserving the registry's listing order.
//
// The second return value is false when nothing matched. That is a
// distinct outcome from an empty slice: callers must skip directory
// creation and download steps entirely, not run them against nothing.
//
// Matching is computed against the bare leaf name: the file extension must
// equal the asset type, and every variant marker rule must hold. When the
// tree is nested, each surviving path is prefixed with "{type}/",
// reconstructing the registry's subfolder convention.
func Select(assets []AssetEntry, typ AssetType, nested bool, cfg SelectionConfig) ([]string, bool) {
	rules := compileRules(cfg)
	ext := "." + string(typ)

	var matched []string
	for _, a := range assets {
		leaf := path.Base(a.Name)
		if path.Ext(leaf) != ext {
			continue
		}
		if !matchesRules(leaf, rules) {
			continue
		}
		p := a.Name
		if nested {
			p = string(typ) + "/" + p
		}
		matched = append(matched, p)
	}

	if len(matched) == 0 {
		return nil, false
	}
	return matched, true
}

// matchesRules applies the conjunction: every rule must hold.
func matchesRules(name string, rules []nameRule) bool {
	for _, r := range rules {
		if strings.Contains(name, r.token) != r.required {
			return false
		}
	}
	return true
}
