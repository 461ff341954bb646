package topology

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/attatrol/mixedsom/metric"
	"github.com/attatrol/mixedsom/resource"
)

// ErrNilMetric is returned when a grid is built without a metric.
var ErrNilMetric = errors.New("topology: metric is nil")

// ErrInvalidDimension indicates a non-positive grid width or height.
type ErrInvalidDimension struct {
	Width  int
	Height int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("topology: invalid grid dimension %dx%d", e.Width, e.Height)
}

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Topology maps pairs of grid positions to distances.
type Topology interface {
	// Positions returns all grid positions in canonical slot order.
	Positions() []Point
	// Distance returns the distance between two positions.
	Distance(a, b Point) float64
	// DistanceAt returns the distance between two slots.
	DistanceAt(i, j int) float64
	// Index returns the slot of p.
	Index(p Point) (int, bool)
	// Len returns the number of positions.
	Len() int
	// Classes returns the distinct distances in ascending order.
	Classes() []float64
	// ClassAt returns the index into Classes of DistanceAt(i, j).
	ClassAt(i, j int) int
	// Neighbors returns every slot other than i within radius of i, ascending.
	Neighbors(i int, radius float64) []int
}

// Kind selects the grid layout.
type Kind int

const (
	Rectangle Kind = iota
	Toroidal
)

func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Toroidal:
		return "toroidal"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Options configures grid construction.
type Options struct {
	// Resources, if set, is charged for the distance tables.
	Resources *resource.Controller
}

// Option configures grid construction.
type Option func(*Options)

// WithResourceController charges the distance tables to rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *Options) {
		o.Resources = rc
	}
}

// Grid is a rectangular or toroidal topology with eagerly computed distances.
// It is immutable after construction and safe for concurrent reads.
type Grid struct {
	kind      Kind
	width     int
	height    int
	metric    metric.Func
	positions []Point

	dist    []float64 // n*n, row = first slot
	classes []float64 // distinct distances, ascending
	classOf []uint32  // n*n, index into classes

	rc       *resource.Controller
	reserved int64
}

var _ Topology = (*Grid)(nil)

// NewRectangle builds a flat grid.
func NewRectangle(width, height int, m metric.Func, optFns ...Option) (*Grid, error) {
	return New(Rectangle, width, height, m, optFns...)
}

// NewToroidal builds a borderless grid.
func NewToroidal(width, height int, m metric.Func, optFns ...Option) (*Grid, error) {
	return New(Toroidal, width, height, m, optFns...)
}

// New builds a grid of the given kind.
func New(kind Kind, width, height int, m metric.Func, optFns ...Option) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, &ErrInvalidDimension{Width: width, Height: height}
	}
	if m == nil {
		return nil, ErrNilMetric
	}
	if kind != Rectangle && kind != Toroidal {
		return nil, fmt.Errorf("topology: unsupported kind %v", kind)
	}

	var opts Options
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	n := width * height
	reserved := TableBytes(n)
	if err := opts.Resources.ReserveMemory(reserved); err != nil {
		return nil, fmt.Errorf("topology: %dx%d grid: %w", width, height, err)
	}

	g := &Grid{
		kind:      kind,
		width:     width,
		height:    height,
		metric:    m,
		positions: make([]Point, 0, n),
		dist:      make([]float64, n*n),
		classOf:   make([]uint32, n*n),
		rc:        opts.Resources,
		reserved:  reserved,
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			g.positions = append(g.positions, Point{X: x, Y: y})
		}
	}
	g.fill()
	return g, nil
}

// TableBytes returns the memory held by the distance tables of an n-neuron grid.
func TableBytes(n int) int64 {
	return int64(n) * int64(n) * (8 + 4)
}

func (g *Grid) fill() {
	n := len(g.positions)
	diff := make([]float64, 2)
	for i, a := range g.positions {
		for j, b := range g.positions {
			diff[0] = g.axisDiff(a.X, b.X, g.width)
			diff[1] = g.axisDiff(a.Y, b.Y, g.height)
			g.dist[i*n+j] = g.metric(diff)
		}
	}

	g.classes = slices.Clone(g.dist)
	slices.Sort(g.classes)
	g.classes = slices.Compact(g.classes)
	for k, d := range g.dist {
		c, _ := slices.BinarySearch(g.classes, d)
		g.classOf[k] = uint32(c)
	}
}

func (g *Grid) axisDiff(a, b, span int) float64 {
	d := math.Abs(float64(a - b))
	if g.kind == Toroidal {
		return math.Min(d, float64(span)-d)
	}
	return d
}

// Kind returns the grid layout.
func (g *Grid) Kind() Kind { return g.kind }

// Width returns the grid width.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height.
func (g *Grid) Height() int { return g.height }

// Metric returns the metric the tables were built with.
func (g *Grid) Metric() metric.Func { return g.metric }

// Len implements Topology.
func (g *Grid) Len() int { return len(g.positions) }

// Positions implements Topology. The returned slice is a copy.
func (g *Grid) Positions() []Point {
	return slices.Clone(g.positions)
}

// Index implements Topology.
func (g *Grid) Index(p Point) (int, bool) {
	if p.X < 0 || p.X >= g.width || p.Y < 0 || p.Y >= g.height {
		return 0, false
	}
	return p.X*g.height + p.Y, true
}

// Distance implements Topology. It panics if a position is off the grid.
func (g *Grid) Distance(a, b Point) float64 {
	i, ok := g.Index(a)
	if !ok {
		panic(fmt.Sprintf("topology: point %v is off the %dx%d grid", a, g.width, g.height))
	}
	j, ok := g.Index(b)
	if !ok {
		panic(fmt.Sprintf("topology: point %v is off the %dx%d grid", b, g.width, g.height))
	}
	return g.DistanceAt(i, j)
}

// DistanceAt implements Topology.
func (g *Grid) DistanceAt(i, j int) float64 {
	return g.dist[i*len(g.positions)+j]
}

// Classes implements Topology. The returned slice is a copy.
func (g *Grid) Classes() []float64 {
	return slices.Clone(g.classes)
}

// ClassAt implements Topology.
func (g *Grid) ClassAt(i, j int) int {
	return int(g.classOf[i*len(g.positions)+j])
}

// Neighbors implements Topology.
func (g *Grid) Neighbors(i int, radius float64) []int {
	n := len(g.positions)
	var out []int
	for j := 0; j < n; j++ {
		if j != i && g.dist[i*n+j] <= radius {
			out = append(out, j)
		}
	}
	return out
}

// Close returns the table memory to the resource controller.
// The grid must not be used afterwards.
func (g *Grid) Close() error {
	if g.reserved > 0 {
		g.rc.ReleaseMemory(g.reserved)
		g.reserved = 0
	}
	g.dist = nil
	g.classOf = nil
	return nil
}
