package layout

import (
	"maps"
	"testing"
)

func TestCompute_LinearHistorySingleLane(t *testing.T) {
	order := []string{"a", "b", "c"}
	children := map[string][]string{
		"a": {"b"},
		"b": {"c"},
	}
	l := Compute(order, children)
	for _, hash := range order {
		if l.Height[hash] != 1 {
			t.Fatalf("height[%s] = %d, want 1", hash, l.Height[hash])
		}
	}
}

func TestCompute_ForkGetsParallelLanes(t *testing.T) {
	order := []string{"a", "b", "c"}
	children := map[string][]string{
		"a": {"b", "c"},
	}
	l := Compute(order, children)
	if l.Height["a"] != 1 {
		t.Fatalf("height[a] = %d, want 1", l.Height["a"])
	}
	if l.Height["b"] == l.Height["c"] {
		t.Fatalf("fork tips share lane %d", l.Height["b"])
	}
}

func TestCompute_MergeKeepsFirstAssignedHeight(t *testing.T) {
	// a -> b -> d and a -> c -> d.
	order := []string{"a", "b", "c", "d"}
	children := map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
	}
	l := Compute(order, children)
	// The run through b reaches d first and flushes it at lane 1; the run
	// through c must not overwrite it.
	if l.Height["d"] != 1 {
		t.Fatalf("height[d] = %d, want 1 (first flush wins)", l.Height["d"])
	}
	if l.Height["c"] == l.Height["b"] {
		t.Fatalf("parallel branches b and c share lane %d", l.Height["b"])
	}
}

func TestCompute_ThreeBranchesAllDistinct(t *testing.T) {
	// One fork point, three concurrent branches, merged at the end.
	order := []string{"root", "x1", "y1", "z1", "x2", "y2", "z2", "merge"}
	children := map[string][]string{
		"root": {"x1", "y1", "z1"},
		"x1":   {"x2"},
		"y1":   {"y2"},
		"z1":   {"z2"},
		"x2":   {"merge"},
		"y2":   {"merge"},
		"z2":   {"merge"},
	}
	l := Compute(order, children)
	lanes := map[int]string{}
	for _, branch := range [][2]string{{"x1", "x2"}, {"y1", "y2"}, {"z1", "z2"}} {
		first, second := branch[0], branch[1]
		if l.Height[first] != l.Height[second] {
			t.Fatalf("branch %s/%s split across lanes %d and %d",
				first, second, l.Height[first], l.Height[second])
		}
		if prev, taken := lanes[l.Height[first]]; taken {
			t.Fatalf("branches %s and %s collide on lane %d", prev, first, l.Height[first])
		}
		lanes[l.Height[first]] = first
	}
}

func TestCompute_AllHeightsPositiveAndRootIsOne(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e", "f"}
	children := map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
		"d": {"e", "f"},
	}
	l := Compute(order, children)
	if l.Height[order[0]] != 1 {
		t.Fatalf("height[root] = %d, want 1", l.Height[order[0]])
	}
	for _, hash := range order {
		if l.Height[hash] < 1 {
			t.Fatalf("height[%s] = %d, want >= 1", hash, l.Height[hash])
		}
	}
}

func TestCompute_IsolatedCommitGetsOwnLane(t *testing.T) {
	order := []string{"a", "orphan", "b"}
	children := map[string][]string{
		"a": {"b"},
	}
	l := Compute(order, children)
	// An isolated commit is its own run of length one: the occupancy max
	// over its single row is empty, so it lands on lane 1.
	if l.Height["orphan"] != 1 {
		t.Fatalf("height[orphan] = %d, want 1", l.Height["orphan"])
	}
	if l.Height["a"] != 1 || l.Height["b"] != 1 {
		t.Fatalf("main run moved: a=%d b=%d", l.Height["a"], l.Height["b"])
	}
}

func TestCompute_Idempotent(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e"}
	children := map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"d"},
		"d": {"e"},
	}
	first := Compute(order, children)
	second := Compute(order, children)
	if !maps.Equal(first.Height, second.Height) {
		t.Fatalf("heights differ between runs:\n%v\n%v", first.Height, second.Height)
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	l := Compute(nil, nil)
	if len(l.Height) != 0 || l.MaxHeight() != 0 {
		t.Fatalf("expected empty layout, got %+v", l)
	}
}

func TestMaxHeight(t *testing.T) {
	order := []string{"a", "b", "c"}
	children := map[string][]string{"a": {"b", "c"}}
	l := Compute(order, children)
	if got := l.MaxHeight(); got != 2 {
		t.Fatalf("MaxHeight() = %d, want 2", got)
	}
}
