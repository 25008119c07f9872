// Package layout assigns each commit a chronological row and an integer
// lane (its "height") so concurrent branches never share a column while
// their row ranges overlap.
package layout

// Layout is the immutable result of one lane computation. Row is the
// 0-based position in chronological order, Height the 1-based lane.
type Layout struct {
	Order    []string
	Row      map[string]int
	Height   map[string]int
	Children map[string][]string
}

// MaxHeight returns the widest lane in use, 0 for an empty layout.
func (l *Layout) MaxHeight() int {
	max := 0
	for _, h := range l.Height {
		if h > max {
			max = h
		}
	}
	return max
}

// run is one maximal simple path of commits visited without crossing a
// branch or merge boundary. Each DFS branch owns its run; a shared buffer
// would let one branch's flush corrupt a sibling's pending run.
type run struct {
	members []string
}

type engine struct {
	order    []string
	row      map[string]int
	children map[string][]string

	// heights is indexed by row; 0 means unassigned. Each row holds
	// exactly one commit, so this doubles as the lane occupancy table.
	heights []int
}

// Compute runs the run-flush traversal over the commits in order (ascending
// chronological, ties already broken) and the supplied child relation.
// It is deterministic: the same input always yields the same heights.
func Compute(order []string, children map[string][]string) *Layout {
	e := &engine{
		order:    order,
		row:      make(map[string]int, len(order)),
		children: children,
		heights:  make([]int, len(order)),
	}
	for i, hash := range order {
		e.row[hash] = i
	}

	// Start a traversal at every parentless commit, oldest first, so
	// disconnected histories still receive lanes.
	hasParent := make(map[string]bool, len(order))
	for _, childs := range children {
		for _, c := range childs {
			hasParent[c] = true
		}
	}
	for _, hash := range order {
		if !hasParent[hash] {
			e.traverse(hash)
		}
	}
	// Anything still unassigned is reachable only through parents outside
	// the snapshot; it anchors its own traversal.
	for i, hash := range order {
		if e.heights[i] == 0 {
			e.traverse(hash)
		}
	}

	result := &Layout{
		Order:    order,
		Row:      e.row,
		Height:   make(map[string]int, len(order)),
		Children: children,
	}
	for i, hash := range order {
		result.Height[hash] = e.heights[i]
	}
	// The chronologically first commit is always lane 1.
	if len(order) > 0 {
		result.Height[order[0]] = 1
	}
	return result
}

type frame struct {
	hash string
	run  *run
}

// traverse is the run-flush DFS with an explicit stack of per-branch run
// contexts: the current run follows the first child, every further child
// starts a fresh run seeded with the branch point.
func (e *engine) traverse(start string) {
	stack := []frame{{hash: start, run: &run{}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		row, ok := e.row[f.hash]
		if !ok {
			continue
		}
		f.run.members = append(f.run.members, f.hash)

		childs := e.children[f.hash]
		// A childless commit is a tip; an already-assigned commit is a
		// merge reached before. Both end the run.
		if len(childs) == 0 || e.heights[row] != 0 {
			e.flush(f.run)
			continue
		}
		for i := len(childs) - 1; i >= 1; i-- {
			stack = append(stack, frame{hash: childs[i], run: &run{members: []string{f.hash}}})
		}
		stack = append(stack, frame{hash: childs[0], run: f.run})
	}
}

// flush assigns 1 + the maximum height occupied across the rows the run
// spans to every still-unassigned member. Assigned members (the branch
// point the run was seeded with, or a merge commit reached before) keep
// their height.
func (e *engine) flush(r *run) {
	if len(r.members) == 0 {
		return
	}
	lo := e.row[r.members[0]]
	hi := lo
	for _, m := range r.members[1:] {
		row := e.row[m]
		if row < lo {
			lo = row
		}
		if row > hi {
			hi = row
		}
	}
	newHeight := 1
	for row := lo; row <= hi; row++ {
		if e.heights[row] >= newHeight {
			newHeight = e.heights[row] + 1
		}
	}
	for _, m := range r.members {
		row := e.row[m]
		if e.heights[row] == 0 {
			e.heights[row] = newHeight
		}
	}
	r.members = r.members[:0]
}
