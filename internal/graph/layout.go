package graph

import (
	"math"

	"github.com/wsqstar/ppage/internal/models"
)

// LayoutOptions controls ring geometry.
type LayoutOptions struct {
	BaseRadius  float64
	RingSpacing float64
}

// DefaultLayout places depth-1 nodes 100 units from the center.
var DefaultLayout = LayoutOptions{BaseRadius: 0, RingSpacing: 100}

// Layout positions nodes with DefaultLayout.
func Layout(nodes []models.GraphNode, edges []models.GraphEdge, width, height float64) []models.PositionedNode {
	return LayoutWith(DefaultLayout, nodes, edges, width, height)
}

// LayoutWith pins the center node to the middle of the canvas and puts every
// other node on the ring of its depth. The angle of node i is 2πi/n over the
// whole node list, so rings with few members are spread unevenly.
func LayoutWith(opts LayoutOptions, nodes []models.GraphNode, _ []models.GraphEdge, width, height float64) []models.PositionedNode {
	cx, cy := width/2, height/2
	out := make([]models.PositionedNode, len(nodes))
	n := float64(len(nodes))
	for i, node := range nodes {
		if node.IsCenter {
			out[i] = models.PositionedNode{GraphNode: node, X: cx, Y: cy}
			continue
		}
		radius := opts.BaseRadius + float64(node.Depth)*opts.RingSpacing
		angle := 2 * math.Pi * float64(i) / n
		out[i] = models.PositionedNode{
			GraphNode: node,
			X:         cx + radius*math.Cos(angle),
			Y:         cy + radius*math.Sin(angle),
		}
	}
	return out
}
