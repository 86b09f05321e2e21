package route

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed routes/*.yaml
var routesFS embed.FS

// definition is the on-disk YAML shape for a route theme.
type definition struct {
	Theme       string `yaml:"theme"`
	StartNodeID string `yaml:"start_node_id"`
	Nodes       []Node `yaml:"nodes"`
	Edges       []Edge `yaml:"edges"`
}

// DefaultTheme is the route used when a session does not name one.
const DefaultTheme = "aotai"

// Themes lists the embedded route themes in sorted order.
func Themes() []string {
	entries, err := routesFS.ReadDir("routes")
	if err != nil {
		return nil
	}
	themes := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		themes = append(themes, name[:len(name)-len(".yaml")])
	}
	sort.Strings(themes)
	return themes
}

// Load decodes and validates the embedded route definition for a theme.
func Load(theme string) (*Graph, error) {
	if theme == "" {
		theme = DefaultTheme
	}

	raw, err := routesFS.ReadFile("routes/" + theme + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown route theme %q", theme)
	}

	var def definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode route %q: %w", theme, err)
	}

	g := &Graph{
		theme:    theme,
		start:    def.StartNodeID,
		nodes:    def.Nodes,
		edges:    def.Edges,
		byID:     make(map[string]Node, len(def.Nodes)),
		outgoing: make(map[string][]Edge, len(def.Nodes)),
	}
	for _, n := range def.Nodes {
		if _, dup := g.byID[n.ID]; dup {
			return nil, fmt.Errorf("route %q: duplicate node %q", theme, n.ID)
		}
		g.byID[n.ID] = n
	}
	for _, e := range def.Edges {
		g.outgoing[e.FromID] = append(g.outgoing[e.FromID], e)
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}
