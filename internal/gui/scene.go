package gui

import (
	"github.com/thiagokokada/gitdag-go/internal/layout"
)

// sceneGeometry fixes the canvas coordinate system. Lanes grow to the
// right, rows grow downward in chronological order.
type sceneGeometry struct {
	BaseX      int
	BaseY      int
	LaneWidth  int
	RowHeight  int
	NodeRadius int
}

func defaultGeometry() sceneGeometry {
	return sceneGeometry{
		BaseX:      24,
		BaseY:      20,
		LaneWidth:  18,
		RowHeight:  26,
		NodeRadius: 5,
	}
}

// Node is one commit placed on the canvas. Exactly one node in a scene
// has Head set.
type Node struct {
	Hash string
	Row  int
	Lane int
	X    int
	Y    int
	Head bool
}

// Edge connects a parent node to one of its children. Palette is the
// stable color index derived from the wider of the two lanes.
type Edge struct {
	From    string
	To      string
	Palette int
}

// Scene is the immutable drawing plan for one layout. After the initial
// paint the only mutation is moving the Head flag between two nodes.
type Scene struct {
	Nodes  []*Node
	Edges  []Edge
	byHash map[string]*Node
	geom   sceneGeometry
}

func buildScene(lay *layout.Layout, headHash string, geom sceneGeometry) *Scene {
	s := &Scene{
		Nodes:  make([]*Node, 0, len(lay.Order)),
		byHash: make(map[string]*Node, len(lay.Order)),
		geom:   geom,
	}
	for _, hash := range lay.Order {
		row := lay.Row[hash]
		lane := lay.Height[hash]
		n := &Node{
			Hash: hash,
			Row:  row,
			Lane: lane,
			X:    geom.BaseX + (lane-1)*geom.LaneWidth,
			Y:    geom.BaseY + row*geom.RowHeight,
			Head: hash == headHash,
		}
		s.Nodes = append(s.Nodes, n)
		s.byHash[hash] = n
	}
	for _, parent := range lay.Order {
		for _, child := range lay.Children[parent] {
			hFrom := lay.Height[parent]
			hTo := lay.Height[child]
			s.Edges = append(s.Edges, Edge{
				From:    parent,
				To:      child,
				Palette: (max(hFrom, hTo) - 1) % paletteSize,
			})
		}
	}
	return s
}

func (s *Scene) node(hash string) *Node {
	return s.byHash[hash]
}

// applyHead moves the Head flag to newHead and reports the hashes of the
// nodes whose decoration changed. Positions never change.
func (s *Scene) applyHead(newHead string) (old, updated string) {
	for _, n := range s.Nodes {
		if n.Head {
			old = n.Hash
			n.Head = false
		}
	}
	if n := s.byHash[newHead]; n != nil {
		n.Head = true
		updated = newHead
	}
	return old, updated
}

// hitTest maps a canvas coordinate back to the node whose row band
// contains it, or nil. The whole row height is clickable, horizontally
// limited to a band around the node so label clicks do not select.
func (s *Scene) hitTest(x, y int) *Node {
	half := s.geom.RowHeight / 2
	for _, n := range s.Nodes {
		if y < n.Y-half || y > n.Y+half {
			continue
		}
		if x < n.X-s.geom.LaneWidth || x > n.X+s.geom.LaneWidth*2 {
			continue
		}
		return n
	}
	return nil
}

// size reports the scrollregion extent covering every node plus margins.
func (s *Scene) size(maxLane int) (w, h int) {
	if maxLane < 1 {
		maxLane = 1
	}
	w = s.geom.BaseX*2 + maxLane*s.geom.LaneWidth + sceneLabelReserve
	h = s.geom.BaseY*2 + len(s.Nodes)*s.geom.RowHeight
	return w, h
}

// sceneLabelReserve leaves room for ref labels to the right of the
// widest lane.
const sceneLabelReserve = 260
