package gui

import (
	"testing"

	"github.com/thiagokokada/gitdag-go/internal/layout"
)

func forkLayout() *layout.Layout {
	// a is the root, b and c branch off it.
	return &layout.Layout{
		Order:  []string{"a", "b", "c"},
		Row:    map[string]int{"a": 0, "b": 1, "c": 2},
		Height: map[string]int{"a": 1, "b": 1, "c": 2},
		Children: map[string][]string{
			"a": {"b", "c"},
		},
	}
}

func TestBuildScenePositions(t *testing.T) {
	geom := defaultGeometry()
	scene := buildScene(forkLayout(), "b", geom)
	if len(scene.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(scene.Nodes))
	}
	a := scene.node("a")
	c := scene.node("c")
	if a.X != geom.BaseX || a.Y != geom.BaseY {
		t.Fatalf("root misplaced: (%d,%d)", a.X, a.Y)
	}
	if c.X != geom.BaseX+geom.LaneWidth {
		t.Fatalf("lane 2 X: want %d, got %d", geom.BaseX+geom.LaneWidth, c.X)
	}
	if c.Y != geom.BaseY+2*geom.RowHeight {
		t.Fatalf("row 2 Y: want %d, got %d", geom.BaseY+2*geom.RowHeight, c.Y)
	}
	if !scene.node("b").Head || a.Head || c.Head {
		t.Fatalf("head flag not on b")
	}
}

func TestBuildSceneEdgePalette(t *testing.T) {
	scene := buildScene(forkLayout(), "b", defaultGeometry())
	if len(scene.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(scene.Edges))
	}
	for _, e := range scene.Edges {
		switch e.To {
		case "b":
			if e.Palette != 0 {
				t.Fatalf("a->b palette: want 0, got %d", e.Palette)
			}
		case "c":
			if e.Palette != 1 {
				t.Fatalf("a->c palette: want 1, got %d", e.Palette)
			}
		default:
			t.Fatalf("unexpected edge target %q", e.To)
		}
	}
}

func TestApplyHeadFlipsExactlyTwoNodes(t *testing.T) {
	scene := buildScene(forkLayout(), "b", defaultGeometry())
	old, updated := scene.applyHead("c")
	if old != "b" || updated != "c" {
		t.Fatalf("patch: want (b,c), got (%q,%q)", old, updated)
	}
	heads := 0
	for _, n := range scene.Nodes {
		if n.Head {
			heads++
			if n.Hash != "c" {
				t.Fatalf("head on wrong node %q", n.Hash)
			}
		}
	}
	if heads != 1 {
		t.Fatalf("expected exactly one head, got %d", heads)
	}
}

func TestApplyHeadUnknownHashClearsOldOnly(t *testing.T) {
	scene := buildScene(forkLayout(), "b", defaultGeometry())
	old, updated := scene.applyHead("nope")
	if old != "b" || updated != "" {
		t.Fatalf("patch: want (b,\"\"), got (%q,%q)", old, updated)
	}
}

func TestHitTest(t *testing.T) {
	geom := defaultGeometry()
	scene := buildScene(forkLayout(), "b", geom)
	b := scene.node("b")
	if got := scene.hitTest(b.X+3, b.Y-2); got == nil || got.Hash != "b" {
		t.Fatalf("expected hit on b, got %v", got)
	}
	if got := scene.hitTest(b.X+geom.LaneWidth*4, b.Y); got != nil {
		t.Fatalf("expected miss far right, hit %q", got.Hash)
	}
	if got := scene.hitTest(b.X, b.Y+geom.RowHeight*10); got != nil {
		t.Fatalf("expected miss below graph, hit %q", got.Hash)
	}
}

func TestSceneSize(t *testing.T) {
	geom := defaultGeometry()
	scene := buildScene(forkLayout(), "b", geom)
	w, h := scene.size(2)
	if h != geom.BaseY*2+3*geom.RowHeight {
		t.Fatalf("unexpected height %d", h)
	}
	if w <= geom.BaseX+2*geom.LaneWidth {
		t.Fatalf("width %d does not cover lanes and labels", w)
	}
}
