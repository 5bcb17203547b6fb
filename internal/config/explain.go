package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths follow the file layout, for example:
//
//	log_level
//	window.min_width
//	snap.common_sizes
//	animation.minimize
//	viewport.source
//	audio.sounds.open
//	journal.max_files
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins, then the closest file-set parent (maps
	// such as audio.sounds are merged as a whole).
	for p := path; p != ""; p = parentPath(p) {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func parentPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return ""
	}
	return path[:i]
}

// lookupValue walks the YAML rendering of cfg so every key in the file
// layout is addressable without a hand-maintained switch.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	var cur any = tree
	parts := strings.Split(path, ".")
	for i, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown path %q: %s is not a section", path, strings.Join(parts[:i], "."))
		}
		next, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("unknown path %q (known keys here: %s)", path, strings.Join(sortedKeys(m), ", "))
		}
		cur = next
	}
	return cur, nil
}
