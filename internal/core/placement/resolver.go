// Package placement turns screen points into validated floor points.
package placement

import (
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSurfaceOffset lifts resolved points off the plane so markers placed
// there do not z-fight with it.
const DefaultSurfaceOffset = 0.02

// Resolver validates hit-test results against the accepted surface kind.
type Resolver struct {
	hits     HitTester
	offset   float64
	viewport mgl64.Vec2
}

// NewResolver builds a resolver. viewport is the screen size in pixels; its
// center is where Probe samples.
func NewResolver(hits HitTester, offset float64, viewport mgl64.Vec2) *Resolver {
	return &Resolver{hits: hits, offset: offset, viewport: viewport}
}

// Resolve returns the first horizontal upward-facing hit under screen, raised
// by the surface offset. The service's ordering is kept: the first qualifying
// hit wins even if a later one is closer. No hit is not an error.
func (r *Resolver) Resolve(screen mgl64.Vec2) (SurfaceSample, bool) {
	if r == nil || r.hits == nil {
		return SurfaceSample{}, false
	}
	for _, hit := range r.hits.Query(screen, FilterPlanesWithinBounds) {
		if hit.Kind != SurfaceHorizontalUpward {
			continue
		}
		hit.Point = hit.Point.Add(mgl64.Vec3{0, r.offset, 0})
		return hit, true
	}
	return SurfaceSample{}, false
}

// Probe resolves the viewport center.
func (r *Resolver) Probe() (SurfaceSample, bool) {
	return r.Resolve(r.Center())
}

// Center is the middle of the viewport in screen coordinates.
func (r *Resolver) Center() mgl64.Vec2 {
	return r.viewport.Mul(0.5)
}
