package core

// ConfigurationKind tags the concrete representation behind a Configuration,
// matching the configuration kinds external planners may report: SE(2) and
// SE(3) states, grid cells, and graph nodes (spec.md §6).
type ConfigurationKind int

const (
	KindSE2 ConfigurationKind = iota
	KindSE3
	KindGrid
	KindGraphNode
)

// Configuration is an opaque robot/task pose. The core never inspects it
// beyond Kind(), Point() and Equal(): motion queries are delegated to a
// Planner. Point() is only used by the Euclidean lower-bound helper, which
// requires a coordinate projection into a metric space.
type Configuration interface {
	Kind() ConfigurationKind
	// Point projects the configuration onto ℝ^n for the Euclidean lower bound.
	Point() []float64
	Equal(Configuration) bool
}

// SE2Configuration is a planar pose (x, y, yaw).
type SE2Configuration struct {
	X, Y, Yaw float64
}

func (c SE2Configuration) Kind() ConfigurationKind { return KindSE2 }
func (c SE2Configuration) Point() []float64        { return []float64{c.X, c.Y} }
func (c SE2Configuration) Equal(other Configuration) bool {
	o, ok := other.(SE2Configuration)
	return ok && o.X == c.X && o.Y == c.Y && o.Yaw == c.Yaw
}

// SE3Configuration is a spatial pose (x, y, z, quaternion).
type SE3Configuration struct {
	X, Y, Z             float64
	Qx, Qy, Qz, Qw      float64
}

func (c SE3Configuration) Kind() ConfigurationKind { return KindSE3 }
func (c SE3Configuration) Point() []float64        { return []float64{c.X, c.Y, c.Z} }
func (c SE3Configuration) Equal(other Configuration) bool {
	o, ok := other.(SE3Configuration)
	return ok && o.X == c.X && o.Y == c.Y && o.Z == c.Z &&
		o.Qx == c.Qx && o.Qy == c.Qy && o.Qz == c.Qz && o.Qw == c.Qw
}

// GridConfiguration is a discrete grid cell.
type GridConfiguration struct {
	Row, Col int
}

func (c GridConfiguration) Kind() ConfigurationKind { return KindGrid }
func (c GridConfiguration) Point() []float64        { return []float64{float64(c.Row), float64(c.Col)} }
func (c GridConfiguration) Equal(other Configuration) bool {
	o, ok := other.(GridConfiguration)
	return ok && o.Row == c.Row && o.Col == c.Col
}

// GraphNodeConfiguration is a node in an externally defined roadmap graph.
// Point() has no natural Euclidean metric, so it reports the origin; callers
// relying on the lower bound for graph-node configurations should treat it
// as uninformative (zero) rather than as a real geometric estimate.
type GraphNodeConfiguration struct {
	NodeID string
}

func (c GraphNodeConfiguration) Kind() ConfigurationKind { return KindGraphNode }
func (c GraphNodeConfiguration) Point() []float64        { return []float64{0, 0} }
func (c GraphNodeConfiguration) Equal(other Configuration) bool {
	o, ok := other.(GraphNodeConfiguration)
	return ok && o.NodeID == c.NodeID
}
