// Package route models the static trek map: a read-only graph of nodes and
// directed edges loaded once at startup and never mutated afterwards.
package route

import (
	"fmt"
)

// NodeKind classifies a map node for presentation and resolver rules.
type NodeKind string

const (
	NodeKindStart    NodeKind = "start"
	NodeKindMain     NodeKind = "main"
	NodeKindCamp     NodeKind = "camp"
	NodeKindLake     NodeKind = "lake"
	NodeKindPeak     NodeKind = "peak"
	NodeKindJunction NodeKind = "junction"
	NodeKindExit     NodeKind = "exit"
	NodeKindEnd      NodeKind = "end"
)

// EdgeKind classifies a route segment.
type EdgeKind string

const (
	EdgeKindMain   EdgeKind = "main"
	EdgeKindBranch EdgeKind = "branch"
	EdgeKindExit   EdgeKind = "exit"
)

// Node is a waypoint on the trek map.
//
// X and Y are map coordinates in a 0-100 space, scaled by clients.
type Node struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Kind          NodeKind `yaml:"kind" json:"kind"`
	AltitudeM     int      `yaml:"altitude_m" json:"altitude_m"`
	SceneID       string   `yaml:"scene_id" json:"scene_id"`
	Hint          string   `yaml:"hint,omitempty" json:"hint,omitempty"`
	X             int      `yaml:"x" json:"x"`
	Y             int      `yaml:"y" json:"y"`
	AllowsRetreat bool     `yaml:"allows_retreat,omitempty" json:"allows_retreat,omitempty"`
}

// Edge is a directed route segment between two nodes.
type Edge struct {
	FromID     string   `yaml:"from" json:"from_node_id"`
	ToID       string   `yaml:"to" json:"to_node_id"`
	Kind       EdgeKind `yaml:"kind" json:"kind"`
	Label      string   `yaml:"label,omitempty" json:"label,omitempty"`
	DistanceKM float64  `yaml:"distance_km" json:"distance_km"`
}

// Graph is an immutable trek map. Construct with Load; the zero value is not
// usable.
type Graph struct {
	theme    string
	start    string
	nodes    []Node
	edges    []Edge
	byID     map[string]Node
	outgoing map[string][]Edge
}

// Theme returns the theme key the graph was loaded from.
func (g *Graph) Theme() string { return g.theme }

// StartNodeID returns the node the party begins at.
func (g *Graph) StartNodeID() string { return g.start }

// Nodes returns all nodes in definition order.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns all edges in definition order.
func (g *Graph) Edges() []Edge { return g.edges }

// Node looks up a node by ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// NodeName returns the display name for a node, falling back to the raw ID
// for unknown nodes so callers can always render something.
func (g *Graph) NodeName(id string) string {
	if n, ok := g.byID[id]; ok {
		return n.Name
	}
	return id
}

// Outgoing returns all edges leaving the given node, in definition order.
func (g *Graph) Outgoing(id string) []Edge {
	return g.outgoing[id]
}

// NextNodeIDs returns the IDs reachable one edge away from the given node.
func (g *Graph) NextNodeIDs(id string) []string {
	edges := g.outgoing[id]
	if len(edges) == 0 {
		return nil
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ToID)
	}
	return ids
}

// EdgeBetween returns the edge from one node to another, if any.
func (g *Graph) EdgeBetween(fromID, toID string) (Edge, bool) {
	for _, e := range g.outgoing[fromID] {
		if e.ToID == toID {
			return e, true
		}
	}
	return Edge{}, false
}

// IsTerminal reports whether reaching the node ends the trek. Both the
// descent finish and the evacuation exits are terminal.
func (g *Graph) IsTerminal(id string) bool {
	n, ok := g.byID[id]
	if !ok {
		return false
	}
	return n.Kind == NodeKindEnd || n.Kind == NodeKindExit
}

// validate checks referential integrity of a decoded definition.
func (g *Graph) validate() error {
	if g.start == "" {
		return fmt.Errorf("route %q: start node is required", g.theme)
	}
	if _, ok := g.byID[g.start]; !ok {
		return fmt.Errorf("route %q: start node %q is not defined", g.theme, g.start)
	}
	for _, e := range g.edges {
		if _, ok := g.byID[e.FromID]; !ok {
			return fmt.Errorf("route %q: edge references unknown node %q", g.theme, e.FromID)
		}
		if _, ok := g.byID[e.ToID]; !ok {
			return fmt.Errorf("route %q: edge references unknown node %q", g.theme, e.ToID)
		}
		if e.DistanceKM <= 0 {
			return fmt.Errorf("route %q: edge %s->%s must have positive distance", g.theme, e.FromID, e.ToID)
		}
	}
	for _, n := range g.nodes {
		if n.AllowsRetreat {
			var hasExit bool
			for _, e := range g.outgoing[n.ID] {
				if e.Kind == EdgeKindExit {
					hasExit = true
					break
				}
			}
			if !hasExit {
				return fmt.Errorf("route %q: node %q allows retreat but has no exit edge", g.theme, n.ID)
			}
		}
	}
	return nil
}
