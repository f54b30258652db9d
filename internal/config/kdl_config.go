package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL loads a `.codegraf.kdl` file from projectRoot, if present,
// layering its values over Default(). Ported from the teacher's
// internal/config/kdl_config.go node-walking style.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".codegraf.kdl")
	content, err := os.ReadFile(kdlPath)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.Project.Root = projectRoot
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read .codegraf.kdl: %w", err)
	}

	cfg := Default()
	cfg.Project.Root = projectRoot

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse .codegraf.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignString(cn, "root", func(v string) {
					if filepath.IsAbs(v) {
						cfg.Project.Root = v
					} else {
						cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, v))
					}
				})
				assignString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "index":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFileSize = int64(v)
					}
				case "max_file_count":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFileCount = v
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.FollowSymlinks = b
					}
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.RespectGitignore = b
					}
				case "watch_mode":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.WatchMode = b
					}
				case "watch_debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.WatchDebounceMs = v
					}
				case "languages":
					cfg.Index.Languages = collectStringArgs(cn)
				}
			}
		case "store":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "dsn":
					assignString(cn, "dsn", func(v string) { cfg.Store.DSN = v })
				case "debug":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Store.Debug = b
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "parallel_file_workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.ParallelFileWorkers = v
					}
				case "semantic_timeout_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.SemanticTimeoutMs = v
					}
				case "detection_batch_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.DetectionBatchSize = v
					}
				case "pattern_cache_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.PatternCacheSize = v
					}
				case "pattern_cache_ttl_min":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.PatternCacheTTLMin = v
					}
				}
			}
		case "detection":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "god_class_method_threshold":
					if v, ok := firstIntArg(cn); ok {
						cfg.Detection.GodClassMethodThreshold = v
					}
				case "long_param_list_threshold":
					if v, ok := firstIntArg(cn); ok {
						cfg.Detection.LongParamListThreshold = v
					}
				case "long_method_name_threshold":
					if v, ok := firstIntArg(cn); ok {
						cfg.Detection.LongMethodNameThreshold = v
					}
				}
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	s, ok := n.Arguments[0].Value.(string)
	return s, ok
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	b, ok := n.Arguments[0].Value.(bool)
	return b, ok
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
