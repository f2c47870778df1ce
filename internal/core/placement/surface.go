package placement

import (
	"github.com/go-gl/mathgl/mgl64"
)

// SurfaceKind classifies what a hit-test intersection landed on.
type SurfaceKind uint8

const (
	SurfaceUnknown SurfaceKind = iota
	SurfaceHorizontalUpward
	SurfaceOther
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfaceHorizontalUpward:
		return "horizontal_upward"
	case SurfaceOther:
		return "other"
	default:
		return "unknown"
	}
}

// SurfaceSample is a single hit-test intersection. Samples are produced every
// tick and never persisted.
type SurfaceSample struct {
	Point     mgl64.Vec3
	Kind      SurfaceKind
	Timestamp float64
}

// SurfaceFilter restricts which trackables a hit-test considers.
type SurfaceFilter uint8

const (
	// FilterPlanesWithinBounds limits hits to the polygon of detected planes.
	FilterPlanesWithinBounds SurfaceFilter = iota
	FilterAll
)

// HitTester is the scene's hit-test service. Query returns every intersection
// under the screen point, already ordered by the service (nearest first).
// The resolver only reads from it and never configures tracking.
type HitTester interface {
	Query(screen mgl64.Vec2, filter SurfaceFilter) []SurfaceSample
}

// HitTesterFunc adapts a plain function to HitTester.
type HitTesterFunc func(screen mgl64.Vec2, filter SurfaceFilter) []SurfaceSample

func (f HitTesterFunc) Query(screen mgl64.Vec2, filter SurfaceFilter) []SurfaceSample {
	return f(screen, filter)
}
