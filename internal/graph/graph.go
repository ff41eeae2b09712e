// Package graph builds the undirected relationship multigraph over node
// aliases. Direction and the optional flag never affect connectivity:
// they matter to chaining and rendering, not to which aliases belong
// together.
package graph

import (
	"fmt"
	"sort"

	"github.com/graphspec/cyphergen/internal/spec"
)

// Model is the analyzed relationship graph of one query spec.
type Model struct {
	Nodes []spec.NodeSpec
	Rels  []spec.RelationshipSpec

	// Labels maps alias to its declared label.
	Labels map[string]string

	// Adjacency maps alias to incident edge indices in declaration order.
	// Self-loops appear once.
	Adjacency map[string][]int

	// Components groups all edge indices into connected components,
	// ordered by the earliest declared edge of each component.
	Components [][]int

	// Isolated lists aliases with no incident relationship at all, in
	// declaration order.
	Isolated []string

	// Warnings are non-fatal diagnostics, such as declared but unused
	// aliases.
	Warnings []string
}

// Build analyzes the declarations and returns the graph model, or every
// structural error found. Errors do not fail-fast: a spec with two bad
// relationships reports both.
func Build(nodes []spec.NodeSpec, rels []spec.RelationshipSpec) (*Model, []GraphError) {
	var errs []GraphError

	if len(nodes) == 0 {
		errs = append(errs, GraphError{
			Field:   "nodes",
			Message: "no nodes declared",
			Code:    ErrNoNodes,
		})
		return nil, errs
	}

	labels := make(map[string]string, len(nodes))
	for i, n := range nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		if n.Alias == "" {
			errs = append(errs, GraphError{
				Field:   field + ".alias",
				Message: "node alias is empty",
				Code:    ErrBlankName,
			})
			continue
		}
		if n.Label == "" {
			errs = append(errs, GraphError{
				Field:   field + ".label",
				Message: fmt.Sprintf("node %q has an empty label", n.Alias),
				Code:    ErrBlankName,
			})
		}
		if _, dup := labels[n.Alias]; dup {
			errs = append(errs, GraphError{
				Field:   field + ".alias",
				Message: fmt.Sprintf("alias %q is declared more than once", n.Alias),
				Code:    ErrDuplicateAlias,
			})
			continue
		}
		labels[n.Alias] = n.Label
	}

	if len(rels) == 0 && len(nodes) > 1 {
		errs = append(errs, GraphError{
			Field:   "relationships",
			Message: fmt.Sprintf("%d nodes declared but no relationships connect them", len(nodes)),
			Code:    ErrNoRelationships,
		})
	}

	adjacency := make(map[string][]int, len(nodes))
	for i, r := range rels {
		field := fmt.Sprintf("relationships[%d]", i)
		ok := true
		if r.Type == "" {
			errs = append(errs, GraphError{
				Field:   field + ".type",
				Message: "relationship type is empty",
				Code:    ErrBlankName,
			})
			ok = false
		}
		for _, end := range []struct{ key, alias string }{
			{"node1", r.Node1},
			{"node2", r.Node2},
		} {
			if end.alias == "" {
				errs = append(errs, GraphError{
					Field:   field + "." + end.key,
					Message: "relationship endpoint is empty",
					Code:    ErrBlankName,
				})
				ok = false
				continue
			}
			if _, declared := labels[end.alias]; !declared {
				errs = append(errs, GraphError{
					Field:   field + "." + end.key,
					Message: fmt.Sprintf("alias %q is not declared by any node", end.alias),
					Code:    ErrUnknownAlias,
				})
				ok = false
			}
		}
		if !ok {
			continue
		}
		adjacency[r.Node1] = append(adjacency[r.Node1], i)
		if r.Node2 != r.Node1 {
			adjacency[r.Node2] = append(adjacency[r.Node2], i)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	m := &Model{
		Nodes:     nodes,
		Rels:      rels,
		Labels:    labels,
		Adjacency: adjacency,
	}

	all := make([]int, len(rels))
	for i := range rels {
		all[i] = i
	}
	m.Components = m.ComponentsOf(all)

	for _, n := range nodes {
		if len(adjacency[n.Alias]) == 0 {
			m.Isolated = append(m.Isolated, n.Alias)
			if len(rels) > 0 {
				m.Warnings = append(m.Warnings,
					fmt.Sprintf("alias %q is declared but not referenced by any relationship", n.Alias))
			}
		}
	}

	return m, nil
}

// ComponentsOf groups the given edge indices into connected components.
// Two edges share a component when they can reach each other through
// shared aliases. Edge order within a component follows declaration
// order; components are ordered by their earliest declared edge.
func (m *Model) ComponentsOf(edges []int) [][]int {
	if len(edges) == 0 {
		return nil
	}

	include := make(map[int]bool, len(edges))
	for _, e := range edges {
		include[e] = true
	}

	visited := make(map[int]bool, len(edges))
	var components [][]int

	for _, start := range edges {
		if visited[start] {
			continue
		}
		component := []int{}
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			e := queue[0]
			queue = queue[1:]
			component = append(component, e)
			for _, alias := range []string{m.Rels[e].Node1, m.Rels[e].Node2} {
				for _, next := range m.Adjacency[alias] {
					if include[next] && !visited[next] {
						visited[next] = true
						queue = append(queue, next)
					}
				}
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// Degree returns how many of the given edges touch the alias. Self-loops
// count twice, matching the usual graph-theoretic definition.
func (m *Model) Degree(alias string, edges []int) int {
	include := make(map[int]bool, len(edges))
	for _, e := range edges {
		include[e] = true
	}
	degree := 0
	for _, e := range m.Adjacency[alias] {
		if !include[e] {
			continue
		}
		degree++
		if m.Rels[e].Node1 == alias && m.Rels[e].Node2 == alias {
			degree++
		}
	}
	return degree
}
