// Package sandbox provides stand-in scene services so the controller can run
// headless: a floor hit-tester, a camera, an avatar source and a notifier.
package sandbox

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/mesim/internal/core/placement"
)

type FloorConfig struct {
	Viewport mgl64.Vec2
	// Height is the camera height above the y=0 plane.
	Height float64
	// PitchDeg tilts the camera down from the horizon.
	PitchDeg float64
	// FovDeg is the vertical field of view.
	FovDeg float64
	// WallBand is the fraction of the screen, from the top, where a wall
	// stands in front of the floor. Zero disables the wall.
	WallBand     float64
	WallDistance float64
}

func DefaultFloorConfig() FloorConfig {
	return FloorConfig{
		Viewport:     mgl64.Vec2{1080, 1920},
		Height:       1.5,
		PitchDeg:     45,
		FovDeg:       60,
		WallBand:     0.1,
		WallDistance: 6,
	}
}

// Floor hit-tests an infinite plane at y=0 seen through a pinhole camera
// placed above the origin looking along +Z.
type Floor struct {
	cfg    FloorConfig
	camera FixedCamera

	mu      sync.RWMutex
	visible bool
	clock   func() float64
}

func NewFloor(cfg FloorConfig) *Floor {
	return &Floor{cfg: cfg, camera: NewFixedCamera(cfg.PitchDeg), visible: true}
}

// SetClock sets the source of sample timestamps.
func (f *Floor) SetClock(clock func() float64) {
	f.mu.Lock()
	f.clock = clock
	f.mu.Unlock()
}

// SetVisible simulates tracking gaining or losing the plane.
func (f *Floor) SetVisible(visible bool) {
	f.mu.Lock()
	f.visible = visible
	f.mu.Unlock()
}

func (f *Floor) Visible() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.visible
}

// Camera returns the axes of the viewing camera.
func (f *Floor) Camera() FixedCamera { return f.camera }

// Origin is the camera position.
func (f *Floor) Origin() mgl64.Vec3 { return mgl64.Vec3{0, f.cfg.Height, 0} }

func (f *Floor) Query(screen mgl64.Vec2, _ placement.SurfaceFilter) []placement.SurfaceSample {
	f.mu.RLock()
	visible, clock := f.visible, f.clock
	f.mu.RUnlock()
	if !visible {
		return nil
	}
	var now float64
	if clock != nil {
		now = clock()
	}

	origin := f.Origin()
	dir := f.Ray(screen)
	var hits []placement.SurfaceSample

	if f.cfg.WallBand > 0 && screen.Y() < f.cfg.WallBand*f.cfg.Viewport.Y() {
		hits = append(hits, placement.SurfaceSample{
			Point:     origin.Add(dir.Mul(f.cfg.WallDistance)),
			Kind:      placement.SurfaceOther,
			Timestamp: now,
		})
	}
	// rays at or above the horizon never meet the floor
	if dir.Y() < -1e-9 {
		t := -origin.Y() / dir.Y()
		hits = append(hits, placement.SurfaceSample{
			Point:     origin.Add(dir.Mul(t)),
			Kind:      placement.SurfaceHorizontalUpward,
			Timestamp: now,
		})
	}
	return hits
}

// Ray returns the unnormalized world direction through a screen pixel.
func (f *Floor) Ray(screen mgl64.Vec2) mgl64.Vec3 {
	w, h := f.cfg.Viewport.X(), f.cfg.Viewport.Y()
	if w <= 0 || h <= 0 {
		return f.camera.Forward()
	}
	tanHalf := math.Tan(mgl64.DegToRad(f.cfg.FovDeg) / 2)
	x := (2*screen.X()/w - 1) * tanHalf * (w / h)
	y := (1 - 2*screen.Y()/h) * tanHalf
	return f.camera.Right().Mul(x).Add(f.camera.Up().Mul(y)).Add(f.camera.Forward())
}

// ScreenPoint projects a floor point back onto the screen. ok is false for
// points behind the camera.
func (f *Floor) ScreenPoint(p mgl64.Vec3) (screen mgl64.Vec2, ok bool) {
	w, h := f.cfg.Viewport.X(), f.cfg.Viewport.Y()
	rel := p.Sub(f.Origin())
	depth := rel.Dot(f.camera.Forward())
	if depth <= 0 || w <= 0 || h <= 0 {
		return mgl64.Vec2{}, false
	}
	tanHalf := math.Tan(mgl64.DegToRad(f.cfg.FovDeg) / 2)
	x := rel.Dot(f.camera.Right()) / depth / (tanHalf * (w / h))
	y := rel.Dot(f.camera.Up()) / depth / tanHalf
	return mgl64.Vec2{(x + 1) * w / 2, (1 - y) * h / 2}, true
}
