package orbit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Root marks a node without a parent (orbits the origin).
const Root = -1

// Node is one body in an orbit hierarchy. Parent indexes an earlier node, or is Root.
type Node struct {
	Params Params
	Parent int
}

// ValidateChain checks every node's parameters and that parents precede their children,
// which also rules out cycles.
func ValidateChain(nodes []Node) error {
	for i, n := range nodes {
		if err := n.Params.Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if n.Parent != Root && (n.Parent < 0 || n.Parent >= i) {
			return fmt.Errorf("%w: node %d has parent %d, parents must precede children", ErrParams, i, n.Parent)
		}
	}
	return nil
}

// Resolve computes every node's pose at time t, parent pose first. out is reused when it
// has enough capacity. Nodes must satisfy ValidateChain; a parent index that does not
// precede its child is treated as Root.
func Resolve(nodes []Node, t float64, out []Pose) []Pose {
	if cap(out) < len(nodes) {
		out = make([]Pose, len(nodes))
	}
	out = out[:len(nodes)]
	for i, n := range nodes {
		var origin mgl32.Vec3
		if n.Parent >= 0 && n.Parent < i {
			origin = out[n.Parent].Position
		}
		out[i] = n.Params.At(t, origin)
	}
	return out
}
