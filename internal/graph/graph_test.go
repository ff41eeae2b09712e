package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphspec/cyphergen/internal/spec"
)

// =============================================================================
// Build: well-formed graphs
// =============================================================================

func TestBuildLinearChain(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
		{Alias: "c", Label: "C"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "b", Type: "X"},
		{Node1: "b", Node2: "c", Type: "Y"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)
	require.NotNil(t, m)

	assert.Equal(t, map[string]string{"a": "A", "b": "B", "c": "C"}, m.Labels)
	assert.Equal(t, []int{0}, m.Adjacency["a"])
	assert.Equal(t, []int{0, 1}, m.Adjacency["b"])
	assert.Equal(t, []int{1}, m.Adjacency["c"])
	assert.Equal(t, [][]int{{0, 1}}, m.Components)
	assert.Empty(t, m.Isolated)
	assert.Empty(t, m.Warnings)
}

func TestBuildMultipleComponents(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
		{Alias: "c", Label: "C"},
		{Alias: "d", Label: "D"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "b", Type: "X"},
		{Node1: "c", Node2: "d", Type: "Y"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)

	assert.Equal(t, [][]int{{0}, {1}}, m.Components)
}

func TestBuildConnectivityIgnoresDirectionAndOptional(t *testing.T) {
	// Edges point away from each other and one is optional; the three
	// aliases still form a single component.
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
		{Alias: "c", Label: "C"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "b", Node2: "a", Type: "X", Optional: true},
		{Node1: "b", Node2: "c", Type: "Y"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)

	assert.Equal(t, [][]int{{0, 1}}, m.Components)
}

func TestBuildIsolatedAliasWarns(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
		{Alias: "z", Label: "Zombie"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "b", Type: "X"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)

	assert.Equal(t, []string{"z"}, m.Isolated)
	require.Len(t, m.Warnings, 1)
	assert.Contains(t, m.Warnings[0], `"z"`)
	assert.Contains(t, m.Warnings[0], "declared but not referenced")
}

func TestBuildSingleNodeNoWarning(t *testing.T) {
	// A one-node spec has nothing to connect; the lone alias is
	// isolated but not worth warning about.
	m, errs := Build([]spec.NodeSpec{{Alias: "c", Label: "Candidate"}}, nil)
	require.Empty(t, errs)

	assert.Equal(t, []string{"c"}, m.Isolated)
	assert.Empty(t, m.Warnings)
	assert.Empty(t, m.Components)
}

func TestBuildSelfLoop(t *testing.T) {
	nodes := []spec.NodeSpec{{Alias: "p", Label: "Person"}}
	rels := []spec.RelationshipSpec{
		{Node1: "p", Node2: "p", Type: "KNOWS"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)

	// The loop edge appears once in the adjacency list but counts
	// twice toward degree.
	assert.Equal(t, []int{0}, m.Adjacency["p"])
	assert.Equal(t, 2, m.Degree("p", []int{0}))
	assert.Equal(t, [][]int{{0}}, m.Components)
	assert.Empty(t, m.Isolated)
}

func TestBuildDuplicateRelationshipsKeepBothEdges(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "b", Type: "X"},
		{Node1: "a", Node2: "b", Type: "X"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)

	assert.Equal(t, []int{0, 1}, m.Adjacency["a"])
	assert.Equal(t, []int{0, 1}, m.Adjacency["b"])
	assert.Equal(t, [][]int{{0, 1}}, m.Components)
	assert.Equal(t, 2, m.Degree("a", []int{0, 1}))
}

// =============================================================================
// Build: structural errors
// =============================================================================

func TestBuildNoNodes(t *testing.T) {
	m, errs := Build(nil, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNoNodes, errs[0].Code)
	assert.Equal(t, "nodes", errs[0].Field)
	assert.Nil(t, m)
}

func TestBuildMultipleNodesWithoutRelationships(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
	}

	m, errs := Build(nodes, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNoRelationships, errs[0].Code)
	assert.Contains(t, errs[0].Message, "2 nodes")
	assert.Nil(t, m)
}

func TestBuildUnknownAlias(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "ghost", Type: "X"},
	}

	m, errs := Build(nodes, rels)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownAlias, errs[0].Code)
	assert.Equal(t, "relationships[0].node2", errs[0].Field)
	assert.Contains(t, errs[0].Message, `"ghost"`)
	assert.Nil(t, m, "a spec with structural errors yields no model")
}

func TestBuildDuplicateAlias(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "c", Label: "Candidate"},
		{Alias: "c", Label: "Company"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "c", Node2: "c", Type: "X"},
	}

	_, errs := Build(nodes, rels)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateAlias, errs[0].Code)
	assert.Equal(t, "nodes[1].alias", errs[0].Field)
}

func TestBuildBlankNames(t *testing.T) {
	tests := []struct {
		name  string
		nodes []spec.NodeSpec
		rels  []spec.RelationshipSpec
		field string
	}{
		{
			name: "empty node alias",
			nodes: []spec.NodeSpec{
				{Alias: "", Label: "A"},
			},
			field: "nodes[0].alias",
		},
		{
			name: "empty node label",
			nodes: []spec.NodeSpec{
				{Alias: "a", Label: ""},
			},
			field: "nodes[0].label",
		},
		{
			name: "empty relationship type",
			nodes: []spec.NodeSpec{
				{Alias: "a", Label: "A"},
				{Alias: "b", Label: "B"},
			},
			rels: []spec.RelationshipSpec{
				{Node1: "a", Node2: "b", Type: ""},
			},
			field: "relationships[0].type",
		},
		{
			name: "empty relationship endpoint",
			nodes: []spec.NodeSpec{
				{Alias: "a", Label: "A"},
				{Alias: "b", Label: "B"},
			},
			rels: []spec.RelationshipSpec{
				{Node1: "", Node2: "b", Type: "X"},
			},
			field: "relationships[0].node1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Build(tt.nodes, tt.rels)
			require.NotEmpty(t, errs)
			assert.Equal(t, ErrBlankName, errs[0].Code)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestBuildCollectsAllErrors(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "b", Type: ""},
		{Node1: "a", Node2: "ghost", Type: "X"},
	}

	_, errs := Build(nodes, rels)
	require.Len(t, errs, 2)

	codes := []string{errs[0].Code, errs[1].Code}
	assert.Contains(t, codes, ErrBlankName)
	assert.Contains(t, codes, ErrUnknownAlias)
}

func TestGraphErrorFormat(t *testing.T) {
	err := GraphError{
		Field:   "relationships[0].node2",
		Message: `alias "ghost" is not declared by any node`,
		Code:    ErrUnknownAlias,
	}
	assert.Equal(t, `[E110] relationships[0].node2: alias "ghost" is not declared by any node`, err.Error())
}

// =============================================================================
// ComponentsOf and Degree over edge subsets
// =============================================================================

func TestComponentsOfSubset(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
		{Alias: "c", Label: "C"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "b", Type: "X"},
		{Node1: "b", Node2: "c", Type: "Y"},
		{Node1: "a", Node2: "c", Type: "Z"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)

	// All three edges form one component.
	assert.Equal(t, [][]int{{0, 1, 2}}, m.ComponentsOf([]int{0, 1, 2}))

	// Dropping the middle edge leaves 0 and 2 joined through alias a.
	assert.Equal(t, [][]int{{0, 2}}, m.ComponentsOf([]int{0, 2}))

	// Restricting to one edge is a component of one.
	assert.Equal(t, [][]int{{1}}, m.ComponentsOf([]int{1}))

	assert.Nil(t, m.ComponentsOf(nil))
}

func TestDegreeOverSubset(t *testing.T) {
	nodes := []spec.NodeSpec{
		{Alias: "a", Label: "A"},
		{Alias: "b", Label: "B"},
		{Alias: "c", Label: "C"},
	}
	rels := []spec.RelationshipSpec{
		{Node1: "a", Node2: "b", Type: "X"},
		{Node1: "b", Node2: "c", Type: "Y"},
	}

	m, errs := Build(nodes, rels)
	require.Empty(t, errs)

	all := []int{0, 1}
	assert.Equal(t, 1, m.Degree("a", all))
	assert.Equal(t, 2, m.Degree("b", all))
	assert.Equal(t, 1, m.Degree("c", all))

	// Degree respects the subset: without edge 1, b is degree 1.
	assert.Equal(t, 1, m.Degree("b", []int{0}))
	assert.Equal(t, 0, m.Degree("c", []int{0}))
}
