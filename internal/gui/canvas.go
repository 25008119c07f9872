package gui

import (
	"log/slog"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitdag-go/internal/checkout"
	"github.com/thiagokokada/gitdag-go/internal/gui/tkutil"
)

const (
	graphLineWidth  = 2
	graphLabelPadX  = 4
	graphLabelPadY  = 2
	graphLabelGap   = 6
	graphConnectorW = 1

	graphLabelFont = "TkDefaultFont 9"
)

// canvasState maps scene nodes to canvas item IDs so the HEAD patch can
// touch the two affected nodes instead of redrawing the whole graph.
type canvasState struct {
	ovalByHash   map[string]any
	labelsByHash map[string][]any
	geom         sceneGeometry
}

func (a *Controller) drawScene() {
	canvas := a.ui.graphCanvas
	scene := a.data.scene
	if canvas == nil || scene == nil {
		return
	}
	canvas.Delete("all")
	a.state.canvas.ovalByHash = make(map[string]any, len(scene.Nodes))
	a.state.canvas.labelsByHash = make(map[string][]any)
	a.state.canvas.geom = scene.geom

	dark := a.theme.palette.isDark()
	maxLane := a.data.layout.MaxHeight()
	// Commit summaries line up in a column right of the widest lane.
	summaryX := scene.geom.BaseX + maxLane*scene.geom.LaneWidth + graphLabelGap
	a.drawEdges(canvas, scene, dark)
	for _, n := range scene.Nodes {
		a.drawNode(canvas, scene, n, dark, summaryX)
	}
	w, h := scene.size(maxLane)
	tkutil.EvalOrEmpty("%s configure -scrollregion {0 0 %d %d}", canvas, w, h)
}

// Edges are painted before nodes so every oval sits on top of its lines.
func (a *Controller) drawEdges(canvas *CanvasWidget, scene *Scene, dark bool) {
	for _, e := range scene.Edges {
		from := scene.node(e.From)
		to := scene.node(e.To)
		if from == nil || to == nil {
			continue
		}
		color := colorFor(e.Palette, dark)
		if from.X == to.X {
			canvas.CreateLine(from.X, from.Y, to.X, to.Y, Width(graphLineWidth), Fill(color))
			continue
		}
		// Fork or merge: run vertically in the parent's lane, then cut
		// over to the child within its row band.
		elbowY := to.Y - scene.geom.RowHeight/2
		if elbowY > from.Y {
			canvas.CreateLine(from.X, from.Y, from.X, elbowY, Width(graphLineWidth), Fill(color))
		} else {
			elbowY = from.Y
		}
		canvas.CreateLine(from.X, elbowY, to.X, to.Y, Width(graphLineWidth), Fill(color))
	}
}

func (a *Controller) drawNode(canvas *CanvasWidget, scene *Scene, n *Node, dark bool, summaryX int) {
	r := scene.geom.NodeRadius
	outline := colorFor((n.Lane-1)%paletteSize, dark)
	fill := a.theme.palette.NodeFill
	if n.Head {
		fill = a.theme.palette.HeadFill
	}
	oval := canvas.CreateOval(
		n.X-r, n.Y-r,
		n.X+r, n.Y+r,
		Fill(fill),
		Outline(outline),
		Width(1),
	)
	a.state.canvas.ovalByHash[n.Hash] = oval
	items, endX := a.drawNodeLabels(canvas, n, a.nodeLabels(n), outline, dark)
	a.state.canvas.labelsByHash[n.Hash] = items
	if commit := a.commitByHash(n.Hash); commit != nil {
		x := max(summaryX, endX+graphLabelGap)
		canvas.CreateText(
			x, n.Y,
			Anchor(W),
			Txt(commit.Summary()),
			Font(graphLabelFont),
			Fill(a.theme.palette.CanvasFG),
		)
	}
}

type graphLabelStyle struct {
	fill string
	out  string
	text string
}

// nodeLabels assembles the label row for a node: the HEAD marker, when
// the node carries it, followed by the ref names pointing at the commit.
func (a *Controller) nodeLabels(n *Node) []string {
	labels := a.data.labels[n.Hash]
	if n.Head && !containsPrefix(labels, "HEAD") {
		labels = append([]string{"HEAD"}, labels...)
	}
	return labels
}

// drawNodeLabels paints ref labels to the right of a node. It returns the
// created item IDs and the x coordinate where the labels end.
func (a *Controller) drawNodeLabels(canvas *CanvasWidget, n *Node, labels []string, nodeColor string, dark bool) ([]any, int) {
	r := a.state.canvas.geom.NodeRadius
	endX := n.X + r
	if len(labels) == 0 {
		return nil, endX
	}
	canvasPath := canvas.String()
	if canvasPath == "" {
		return nil, endX
	}
	var items []any
	x := endX + graphLabelGap
	connected := false
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		style := graphLabelStyleFor(dark, label, nodeColor)
		textID := canvas.CreateText(
			x+graphLabelPadX, n.Y,
			Anchor(W),
			Txt(label),
			Font(graphLabelFont),
			Fill(style.text),
		)
		bbox := canvas.Bbox(textID)
		if len(bbox) < 4 {
			continue
		}
		x1 := tkutil.Atoi(bbox[0]) - graphLabelPadX
		y1 := tkutil.Atoi(bbox[1]) - graphLabelPadY
		x2 := tkutil.Atoi(bbox[2]) + graphLabelPadX
		y2 := tkutil.Atoi(bbox[3]) + graphLabelPadY
		rectID := canvas.CreateRectangle(
			x1, y1,
			x2, y2,
			Fill(style.fill),
			Outline(style.out),
			Width(1),
		)
		tkutil.EvalOrEmpty("%s lower %v %v", canvasPath, rectID, textID)
		if !connected && x1 > n.X+r {
			connected = true
			connID := canvas.CreateLine(n.X+r, n.Y, x1, n.Y, Width(graphConnectorW), Fill(style.out))
			items = append(items, connID)
		}
		items = append(items, rectID, textID)
		x = x2 + graphLabelGap
	}
	return items, x - graphLabelGap
}

func graphLabelStyleFor(dark bool, label string, nodeColor string) graphLabelStyle {
	labelLower := strings.ToLower(label)
	if strings.HasPrefix(label, "HEAD") {
		if dark {
			return graphLabelStyle{fill: "#b58900", out: "#8a6a00", text: "#111111"}
		}
		return graphLabelStyle{fill: "#ffd75e", out: "#c9a300", text: "#111111"}
	}
	if strings.HasPrefix(labelLower, "tag:") {
		if dark {
			return graphLabelStyle{fill: "#3a3a3a", out: "#6b6b6b", text: "#eaeaea"}
		}
		return graphLabelStyle{fill: "#e6e6e6", out: "#8a8a8a", text: "#111111"}
	}
	if strings.Contains(label, "/") {
		if dark {
			return graphLabelStyle{fill: "#253446", out: "#4fa3ff", text: "#eaeaea"}
		}
		return graphLabelStyle{fill: "#dbeafe", out: "#2563eb", text: "#111111"}
	}
	text := "#111111"
	fill := "#dff5de"
	if dark {
		text = "#eaeaea"
		fill = "#1f3b2a"
	}
	return graphLabelStyle{fill: fill, out: nodeColor, text: text}
}

func containsPrefix(values []string, prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}

// applyHeadPatch moves the HEAD decoration from patch.Old to patch.New by
// redecorating exactly those two nodes. Positions are fixed at initial
// paint; nothing else on the canvas is touched.
func (a *Controller) applyHeadPatch(patch checkout.HeadPatch) {
	canvas := a.ui.graphCanvas
	scene := a.data.scene
	if canvas == nil || scene == nil {
		return
	}
	old, updated := scene.applyHead(patch.New)
	if updated == "" {
		slog.Warn("head patch target missing from scene", slog.String("hash", patch.New))
	}
	a.redecorateNode(canvas, scene, old)
	a.redecorateNode(canvas, scene, updated)
}

func (a *Controller) redecorateNode(canvas *CanvasWidget, scene *Scene, hash string) {
	n := scene.node(hash)
	if n == nil {
		return
	}
	canvasPath := canvas.String()
	fill := a.theme.palette.NodeFill
	if n.Head {
		fill = a.theme.palette.HeadFill
	}
	if oval, ok := a.state.canvas.ovalByHash[n.Hash]; ok {
		tkutil.EvalOrEmpty("%s itemconfigure %v -fill {%s}", canvasPath, oval, fill)
	}
	for _, id := range a.state.canvas.labelsByHash[n.Hash] {
		tkutil.EvalOrEmpty("%s delete %v", canvasPath, id)
	}
	dark := a.theme.palette.isDark()
	outline := colorFor((n.Lane-1)%paletteSize, dark)
	items, _ := a.drawNodeLabels(canvas, n, a.nodeLabels(n), outline, dark)
	a.state.canvas.labelsByHash[n.Hash] = items
}

func (a *Controller) onCanvasClick(e *Event) {
	n := a.nodeAtEvent(e)
	if n == nil {
		return
	}
	if !a.state.selection.Set(n.Hash, n.Row) {
		return
	}
	a.showCommitDetails(n.Hash)
}

func (a *Controller) onCanvasActivate(e *Event) {
	n := a.nodeAtEvent(e)
	if n == nil {
		return
	}
	if a.state.machine == nil {
		return
	}
	if !a.state.machine.Request(n.Hash) {
		slog.Debug("checkout request refused",
			slog.String("hash", n.Hash),
			slog.String("state", a.state.machine.State().String()),
		)
		return
	}
	a.setStatus("Checking out " + shortLabel(n.Hash) + "...")
}

// nodeAtEvent translates window coordinates to canvas coordinates so
// hits stay correct after scrolling.
func (a *Controller) nodeAtEvent(e *Event) *Node {
	if a.ui.graphCanvas == nil || a.data.scene == nil || e == nil {
		return nil
	}
	canvasPath := a.ui.graphCanvas.String()
	x := tkutil.Atoi(tkutil.EvalOrEmpty("expr {int([%s canvasx %d])}", canvasPath, e.X))
	y := tkutil.Atoi(tkutil.EvalOrEmpty("expr {int([%s canvasy %d])}", canvasPath, e.Y))
	return a.data.scene.hitTest(x, y)
}

func shortLabel(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
