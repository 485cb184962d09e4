package order

import "github.com/riverline/dataflow/errs"

// Planner computes a topological ordering of component ids from a Graph,
// using a recursive depth-first search with temp/perm marker bits per
// node (Tarjan-style), matching the teacher's DependencyGraph.visit.
//
// A Graph edge is recorded as (owner -> consumer): the owner must run
// before the consumer. The planner walks this the way the teacher's
// DependencyGraph walks string dependency lists, so it tracks, per node,
// the set of upstream owners that must be visited (and appended) first —
// the mirror image of the owner->consumer edge.
type Planner struct {
	dependsOn map[int][]int
	order     []int // insertion order of component ids, for tie-breaking
}

// NewPlanner builds a Planner over the given component ids (in insertion
// order) and graph edges. Ids not present as a node are simply never
// visited on their own, but may still be visited as a dependency of
// another node reachable through an edge.
func NewPlanner(componentIDs []int, g *Graph) *Planner {
	dependsOn := make(map[int][]int, len(componentIDs))
	for _, id := range componentIDs {
		dependsOn[id] = nil
	}
	for _, e := range g.Edges() {
		dependsOn[e.Consumer] = append(dependsOn[e.Consumer], e.Owner)
	}

	order := make([]int, len(componentIDs))
	copy(order, componentIDs)

	return &Planner{dependsOn: dependsOn, order: order}
}

// Order runs the topological sort and returns a permutation of the
// component ids that respects every edge, or ErrCycleSentinel if the
// graph contains a directed cycle.
func (p *Planner) Order() ([]int, error) {
	visited := make(map[int]bool, len(p.order))
	visiting := make(map[int]bool, len(p.order))
	result := make([]int, 0, len(p.order))

	for _, id := range p.order {
		if err := p.visit(id, visited, visiting, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *Planner) visit(id int, visited, visiting map[int]bool, result *[]int) error {
	if visited[id] {
		return nil
	}
	if visiting[id] {
		return errs.Cycle(id)
	}

	visiting[id] = true
	for _, owner := range p.dependsOn[id] {
		if err := p.visit(owner, visited, visiting, result); err != nil {
			return err
		}
	}
	visiting[id] = false

	visited[id] = true
	*result = append(*result, id)

	return nil
}
