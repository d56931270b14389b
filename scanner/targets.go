package scanner

import (
	"sort"
	"strings"

	"github.com/devpurge/devpurge/purge"
)

// TargetKind splits targets into the two purge-record buckets: project
// build output versus global tool caches.
type TargetKind int

const (
	KindArtifact TargetKind = iota
	KindCache
)

func (k TargetKind) String() string {
	if k == KindCache {
		return "cache"
	}
	return "artifact"
}

type TargetDef struct {
	Name     string
	Category string
	Kind     TargetKind
}

var defaultTargets = []TargetDef{
	{Name: "node_modules", Category: "node", Kind: KindArtifact},
	{Name: "bower_components", Category: "node", Kind: KindArtifact},
	{Name: ".next", Category: "node", Kind: KindArtifact},
	{Name: ".nuxt", Category: "node", Kind: KindArtifact},
	{Name: ".expo", Category: "node", Kind: KindArtifact},
	{Name: ".angular", Category: "node", Kind: KindArtifact},
	{Name: ".turbo", Category: "node", Kind: KindCache},
	{Name: ".yarn", Category: "node", Kind: KindCache},
	{Name: ".pnpm", Category: "node", Kind: KindCache},
	{Name: ".pnpm-store", Category: "node", Kind: KindCache},
	{Name: "pnpm-store", Category: "node", Kind: KindCache},

	{Name: "target", Category: "rust", Kind: KindArtifact},
	{Name: ".cargo", Category: "rust", Kind: KindCache},

	{Name: ".venv", Category: "python", Kind: KindArtifact},
	{Name: "venv", Category: "python", Kind: KindArtifact},
	{Name: ".virtualenvs", Category: "python", Kind: KindArtifact},
	{Name: "__pycache__", Category: "python", Kind: KindCache},
	{Name: ".pytest_cache", Category: "python", Kind: KindCache},
	{Name: ".mypy_cache", Category: "python", Kind: KindCache},
	{Name: ".ruff_cache", Category: "python", Kind: KindCache},
	{Name: ".tox", Category: "python", Kind: KindCache},

	{Name: ".gradle", Category: "java", Kind: KindCache},
	{Name: ".m2", Category: "java", Kind: KindCache},
	{Name: ".ivy2", Category: "java", Kind: KindCache},
	{Name: ".nuget", Category: "dotnet", Kind: KindCache},

	{Name: ".pub-cache", Category: "dart", Kind: KindCache},
	{Name: ".dart_tool", Category: "dart", Kind: KindArtifact},

	{Name: ".gem", Category: "ruby", Kind: KindCache},

	{Name: "vendor", Category: "go", Kind: KindArtifact},
	{Name: ".cache", Category: "build", Kind: KindCache},
	{Name: "dist", Category: "build", Kind: KindArtifact},
	{Name: "build", Category: "build", Kind: KindArtifact},
	{Name: "out", Category: "build", Kind: KindArtifact},
	{Name: "coverage", Category: "build", Kind: KindArtifact},
	{Name: "DerivedData", Category: "xcode", Kind: KindArtifact},
	{Name: "Archives", Category: "xcode", Kind: KindArtifact},
}

// CategoryInfo describes a scannable category of targets.
type CategoryInfo struct {
	Key         string
	DisplayName string
	Blurb       string
	Info        purge.CategoryDetail
}

func (c CategoryInfo) ID() string                   { return c.Key }
func (c CategoryInfo) Name() string                 { return c.DisplayName }
func (c CategoryInfo) Summary() string              { return c.Blurb }
func (c CategoryInfo) Detail() purge.CategoryDetail { return c.Info }

var categories = map[string]CategoryInfo{
	"node": {
		Key:         "node",
		DisplayName: "Node",
		Blurb:       "node_modules trees, framework build output and package-manager stores",
		Info: purge.CategoryDetail{
			Title:       "Node",
			Description: "Installed dependencies and framework build output for JavaScript projects.",
			Details:     []string{"Regenerated by the package manager on the next install."},
			Guidance:    []string{"Safe to purge for projects you are not actively working on."},
			Tips:        []string{"Monorepos often hide several node_modules trees."},
		},
	},
	"rust": {
		Key:         "rust",
		DisplayName: "Rust",
		Blurb:       "cargo target directories and the registry cache",
		Info: purge.CategoryDetail{
			Title:       "Rust",
			Description: "Compiled crates and downloaded registry sources.",
			Details:     []string{"target/ directories grow with every profile you build."},
			Guidance:    []string{"Purging forces a full rebuild of the project."},
		},
	},
	"python": {
		Key:         "python",
		DisplayName: "Python",
		Blurb:       "virtualenvs and tool caches",
		Info: purge.CategoryDetail{
			Title:       "Python",
			Description: "Virtual environments and bytecode/tool caches.",
			Guidance:    []string{"Recreate environments from the lock file after purging."},
		},
	},
	"java": {
		Key:         "java",
		DisplayName: "JVM",
		Blurb:       "gradle and maven caches",
		Info: purge.CategoryDetail{
			Title:       "JVM",
			Description: "Dependency caches shared across JVM builds.",
			Guidance:    []string{"The next build re-downloads what it needs."},
		},
	},
	"dotnet": {
		Key:         "dotnet",
		DisplayName: ".NET",
		Blurb:       "nuget package cache",
	},
	"dart": {
		Key:         "dart",
		DisplayName: "Dart",
		Blurb:       "pub cache and build tool state",
	},
	"ruby": {
		Key:         "ruby",
		DisplayName: "Ruby",
		Blurb:       "installed gem cache",
	},
	"go": {
		Key:         "go",
		DisplayName: "Go",
		Blurb:       "vendored module trees",
	},
	"build": {
		Key:         "build",
		DisplayName: "Build Output",
		Blurb:       "generic dist/build/out directories and caches",
	},
	"xcode": {
		Key:         "xcode",
		DisplayName: "Xcode",
		Blurb:       "derived data and archives",
		Info: purge.CategoryDetail{
			Title:       "Xcode",
			Description: "Build intermediates and archived app builds.",
			Guidance:    []string{"Keep archives you still need to symbolicate crashes."},
		},
	},
	"custom": {
		Key:         "custom",
		DisplayName: "Custom",
		Blurb:       "user-supplied target directory names",
	},
}

// CategoryFor returns the category descriptor for a target's category key.
func CategoryFor(key string) (CategoryInfo, bool) {
	c, ok := categories[key]
	return c, ok
}

func BuildTargetMap(includes, excludes []string) map[string]TargetDef {
	targets := map[string]TargetDef{}
	for _, def := range defaultTargets {
		targets[def.Name] = def
	}

	for _, name := range includes {
		if name == "" {
			continue
		}
		targets[name] = TargetDef{Name: name, Category: "custom", Kind: KindArtifact}
	}

	for _, name := range excludes {
		delete(targets, name)
	}

	return targets
}

func ParseTargetList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func SortedTargetNames(targets map[string]TargetDef) []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
