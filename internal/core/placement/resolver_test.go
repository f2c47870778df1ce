package placement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedHits struct {
	samples []SurfaceSample
	queries []mgl64.Vec2
}

func (s *scriptedHits) Query(screen mgl64.Vec2, _ SurfaceFilter) []SurfaceSample {
	s.queries = append(s.queries, screen)
	return s.samples
}

func TestResolveAddsOffsetToFloorHit(t *testing.T) {
	hits := &scriptedHits{samples: []SurfaceSample{
		{Point: mgl64.Vec3{2, 0, 3}, Kind: SurfaceHorizontalUpward, Timestamp: 4},
	}}
	r := NewResolver(hits, DefaultSurfaceOffset, mgl64.Vec2{1080, 1920})

	got, ok := r.Resolve(mgl64.Vec2{10, 20})
	require.True(t, ok)
	assert.InDelta(t, 2.0, got.Point.X(), 1e-12)
	assert.InDelta(t, 0.02, got.Point.Y(), 1e-12)
	assert.InDelta(t, 3.0, got.Point.Z(), 1e-12)
	assert.Equal(t, 4.0, got.Timestamp)
}

func TestResolveSkipsNonFloorHitsAndKeepsServiceOrder(t *testing.T) {
	hits := &scriptedHits{samples: []SurfaceSample{
		{Point: mgl64.Vec3{0, 1, 1}, Kind: SurfaceOther},
		{Point: mgl64.Vec3{0, 0, 5}, Kind: SurfaceUnknown},
		{Point: mgl64.Vec3{0, 0, 9}, Kind: SurfaceHorizontalUpward},
		// closer, but later in the service order
		{Point: mgl64.Vec3{0, 0, 2}, Kind: SurfaceHorizontalUpward},
	}}
	r := NewResolver(hits, 0, mgl64.Vec2{100, 100})

	got, ok := r.Resolve(mgl64.Vec2{})
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 0, 9}, got.Point)
}

func TestResolveWithoutQualifyingHit(t *testing.T) {
	hits := &scriptedHits{samples: []SurfaceSample{{Kind: SurfaceOther}}}
	r := NewResolver(hits, DefaultSurfaceOffset, mgl64.Vec2{100, 100})

	_, ok := r.Resolve(mgl64.Vec2{})
	assert.False(t, ok)

	hits.samples = nil
	_, ok = r.Resolve(mgl64.Vec2{})
	assert.False(t, ok)
}

func TestProbeSamplesViewportCenter(t *testing.T) {
	hits := &scriptedHits{}
	r := NewResolver(hits, 0, mgl64.Vec2{1080, 1920})

	_, _ = r.Probe()
	require.Len(t, hits.queries, 1)
	assert.Equal(t, mgl64.Vec2{540, 960}, hits.queries[0])
}

func TestNilResolverIsSafe(t *testing.T) {
	var r *Resolver
	_, ok := r.Resolve(mgl64.Vec2{})
	assert.False(t, ok)
}
