// Package controller drives one simulation tick: floor presence, tap
// placement, locomotion, animation and avatar substitution, in that order.
package controller

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/mesim/internal/core/animation"
	"github.com/zeusync/mesim/internal/core/avatar"
	"github.com/zeusync/mesim/internal/core/entity"
	"github.com/zeusync/mesim/internal/core/events/bus"
	"github.com/zeusync/mesim/internal/core/locomotion"
	"github.com/zeusync/mesim/internal/core/observability/log"
	"github.com/zeusync/mesim/internal/core/placement"
	"github.com/zeusync/mesim/internal/core/presence"
)

var (
	ErrDisabled         = errors.New("controller: disabled")
	ErrMissingHitTester = errors.New("controller: hit tester not configured")
	ErrMissingSource    = errors.New("controller: avatar source not configured")
	ErrMissingCamera    = errors.New("controller: camera-relative steering needs a camera")
	ErrTargetLocked     = errors.New("controller: targets are locked while an emote plays")
	ErrNoEntity         = errors.New("controller: no controlled entity")
)

type Config struct {
	Locomotion locomotion.Config
	Presence   presence.Config
	Animation  animation.Config
	Avatar     avatar.Config
	Mode       ModeConfig

	SurfaceOffset float64
	// Viewport is the screen size in pixels; presence probes its center.
	Viewport mgl64.Vec2
	// Anchor is where the first entity appears.
	Anchor mgl64.Vec3
	// Placeholder names the entity installed before any avatar loads. Empty
	// starts with no entity.
	Placeholder string
}

func DefaultConfig() Config {
	return Config{
		Locomotion:    locomotion.DefaultConfig(),
		Presence:      presence.DefaultConfig(),
		Animation:     animation.DefaultConfig(),
		Avatar:        avatar.DefaultConfig(),
		Mode:          DefaultModeConfig(),
		SurfaceOffset: placement.DefaultSurfaceOffset,
		Viewport:      mgl64.Vec2{1080, 1920},
		Placeholder:   "placeholder",
	}
}

// Deps are the external collaborators. HitTester and Source are required;
// Camera is required for camera-relative steering.
type Deps struct {
	HitTester placement.HitTester
	Source    avatar.Source
	Camera    locomotion.Camera
	Notifier  presence.Notifier
	Store     avatar.Store
	Bus       bus.EventBus
	Logger    log.Log
}

// Controller is not safe for concurrent use. Every method runs on the tick
// goroutine; avatar completions reach it through the loader mailbox.
type Controller struct {
	cfg    Config
	logger log.Log
	err    error

	bus      bus.EventBus
	resolver *placement.Resolver
	tracker  *presence.Tracker
	engine   *locomotion.Engine
	anim     *animation.Synchronizer
	entities *entity.Manager
	loader   *avatar.Loader
	mode     *ModeToggle

	clock  float64
	speed  float64
	taps   []mgl64.Vec2
	outbox []bus.Event
	subs   []bus.Subscription
}

// New wires a controller. Missing collaborators leave it disabled: the
// problem is logged once at error level and reported by Err, and every
// operation becomes a no-op.
func New(cfg Config, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.With(log.String("component", "controller"))

	c := &Controller{cfg: cfg, logger: logger}
	if err := validateDeps(cfg, deps); err != nil {
		c.err = err
		logger.Error("controller disabled", log.Error(err))
		return c
	}

	c.bus = deps.Bus
	if c.bus == nil {
		c.bus = bus.New()
	}
	c.resolver = placement.NewResolver(deps.HitTester, cfg.SurfaceOffset, cfg.Viewport)
	c.tracker = presence.NewTracker(cfg.Presence, deps.Notifier, logger.With(log.String("component", "presence")))
	c.engine = locomotion.NewEngine(cfg.Locomotion, deps.Camera)
	c.anim = animation.NewSynchronizer(cfg.Animation, logger.With(log.String("component", "animation")))
	c.entities = entity.NewManager(cfg.Anchor, logger.With(log.String("component", "entity")))
	c.loader = avatar.NewLoader(cfg.Avatar, deps.Source, deps.Store, deps.Notifier, logger.With(log.String("component", "avatar")))
	c.mode = NewModeToggle(cfg.Mode)
	c.engine.SetRunning(c.mode.Maximized())

	if cfg.Placeholder != "" {
		e := entity.New(cfg.Placeholder)
		e.Transform.Position = cfg.Anchor
		_ = c.entities.Install(e)
	}
	return c
}

func validateDeps(cfg Config, deps Deps) error {
	var errs []error
	if deps.HitTester == nil {
		errs = append(errs, ErrMissingHitTester)
	}
	if deps.Source == nil {
		errs = append(errs, ErrMissingSource)
	}
	if deps.Camera == nil && cfg.Locomotion.Steering == locomotion.SteerCameraRelative {
		errs = append(errs, ErrMissingCamera)
	}
	return errors.Join(errs...)
}

// Err returns the configuration error that disabled the controller.
func (c *Controller) Err() error { return c.err }

func (c *Controller) disabled() error {
	if c.err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDisabled, c.err)
}

// Now is the simulation clock in seconds.
func (c *Controller) Now() float64 { return c.clock }

// Bus returns the bus events are published on.
func (c *Controller) Bus() bus.EventBus { return c.bus }

// Controlled returns the controlled entity, or nil.
func (c *Controller) Controlled() *entity.Entity {
	if c.err != nil {
		return nil
	}
	return c.entities.Controlled()
}

// On subscribes handler to eventType. Close cancels every subscription made
// here.
func (c *Controller) On(eventType string, handler bus.EventHandler) error {
	if err := c.disabled(); err != nil {
		return err
	}
	sub, err := c.bus.Subscribe(eventType, handler)
	if err != nil {
		return err
	}
	c.subs = append(c.subs, sub)
	return nil
}

// Close cancels the subscriptions made through On.
func (c *Controller) Close() error {
	var errs []error
	for _, sub := range c.subs {
		if err := c.bus.Unsubscribe(sub); err != nil {
			errs = append(errs, err)
		}
	}
	c.subs = nil
	return errors.Join(errs...)
}

// Startup loads the persisted avatar, if any.
func (c *Controller) Startup(ctx context.Context) error {
	if err := c.disabled(); err != nil {
		return err
	}
	return c.loader.Startup(ctx)
}

// LoadAvatar requests a replacement entity from the avatar source.
func (c *Controller) LoadAvatar(ctx context.Context, id string) error {
	if err := c.disabled(); err != nil {
		return err
	}
	return c.loader.Load(ctx, id)
}

// Tap queues a screen tap for the next tick.
func (c *Controller) Tap(screen mgl64.Vec2) error {
	if err := c.disabled(); err != nil {
		return err
	}
	c.taps = append(c.taps, screen)
	return nil
}

// RequestEmote starts a named emote on the controlled entity. The
// emote.started event goes out with the next tick.
func (c *Controller) RequestEmote(name string) error {
	if err := c.disabled(); err != nil {
		return err
	}
	e := c.entities.Controlled()
	if e == nil {
		return ErrNoEntity
	}
	if err := c.anim.RequestEmote(c.clock, name); err != nil {
		c.logger.Debug("emote rejected", log.String("emote", name), log.Error(err))
		return err
	}
	e.Animation = c.anim.State()
	c.emit(EventEmoteStarted, EmoteEvent{EntityID: e.ID.String(), Emote: name})
	return nil
}

// ToggleMode flips the size mode, rescales the controlled entity and switches
// the run band for the toggle run policy.
func (c *Controller) ToggleMode() error {
	if err := c.disabled(); err != nil {
		return err
	}
	scale := c.mode.Toggle()
	c.entities.SetScale(scale)
	c.engine.SetRunning(c.mode.Maximized())
	c.emit(EventModeChanged, ModeEvent{Maximized: c.mode.Maximized(), Scale: scale})
	return nil
}

// Tick advances the simulation by dt seconds and publishes what happened.
// Negative or NaN dt advances nothing.
func (c *Controller) Tick(dt float64) error {
	if c.err != nil {
		return nil
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	c.clock += dt
	now := c.clock

	if n := c.loader.Drain(c.onAvatar); n > 0 {
		c.logger.Debug("avatar results handled", log.Int("count", n))
	}
	c.samplePresence()
	c.handleTaps(now)
	arrived := c.advance(dt)
	c.animate(now, arrived)

	return c.flush()
}

func (c *Controller) onAvatar(r avatar.Result) error {
	if !r.OK() {
		c.emit(EventAvatarFailed, AvatarEvent{Source: r.ID, Error: r.Err.Error()})
		return r.Err
	}

	prev := c.entities.Controlled()
	if err := c.entities.OnEntityReady(r.Entity); err != nil {
		c.emit(EventAvatarFailed, AvatarEvent{Source: r.ID, Error: err.Error()})
		return err
	}

	next := c.entities.Controlled()
	_, resumed := next.Target()
	ev := SubstitutionEvent{EntityID: next.ID.String(), Name: next.Name, Resumed: resumed}
	if prev != nil && prev != next {
		ev.Replaced = prev.ID.String()
	}
	c.emit(EventAvatarReady, AvatarEvent{Source: r.ID, EntityID: next.ID.String()})
	c.emit(EventEntitySubstituted, ev)
	return nil
}

func (c *Controller) samplePresence() {
	_, detected := c.resolver.Probe()
	switch c.tracker.Sample(detected) {
	case presence.TransitionFound:
		c.emit(EventFloorFound, FloorEvent{State: c.tracker.State()})
	case presence.TransitionRefound:
		c.emit(EventFloorFound, FloorEvent{State: c.tracker.State(), Refound: true})
	case presence.TransitionLost:
		c.emit(EventFloorLost, FloorEvent{State: c.tracker.State()})
	}
}

func (c *Controller) handleTaps(now float64) {
	taps := c.taps
	c.taps = c.taps[:0]
	for _, screen := range taps {
		c.handleTap(now, screen)
	}
}

func (c *Controller) handleTap(now float64, screen mgl64.Vec2) {
	e := c.entities.Controlled()
	if e == nil {
		c.logger.Debug("controller.tap.rejected", log.Error(ErrNoEntity))
		return
	}
	if c.anim.Locked(now) {
		c.logger.Debug("controller.tap.rejected", log.Error(ErrTargetLocked))
		return
	}
	hit, ok := c.resolver.Resolve(screen)
	if !ok {
		return
	}
	target := locomotion.Target{
		Point:         hit.Point,
		ArrivalRadius: c.cfg.Locomotion.ArrivalRadius,
		IssuedAt:      now,
	}
	e.SetTarget(target)
	c.emit(EventTargetIssued, TargetEvent{EntityID: e.ID.String(), Target: target, Position: e.Transform.Position})
}

func (c *Controller) advance(dt float64) (arrived bool) {
	c.speed = 0
	e := c.entities.Controlled()
	if e == nil {
		return false
	}
	target, ok := e.Target()
	if !ok {
		return false
	}

	step := c.engine.Advance(e.Transform, target, dt)
	e.Transform = step.Transform
	c.speed = step.Speed
	if !step.Arrived {
		e.SetMoving(true)
		return false
	}

	e.ClearTarget()
	c.emit(EventTargetArrived, TargetEvent{EntityID: e.ID.String(), Target: target, Position: e.Transform.Position})
	return true
}

func (c *Controller) animate(now float64, arrived bool) {
	state, expired := c.anim.Update(now, c.speed, arrived)
	e := c.entities.Controlled()
	if e == nil {
		return
	}
	e.Animation = state
	if expired {
		c.emit(EventEmoteEnded, EmoteEvent{EntityID: e.ID.String(), Emote: c.anim.LastEmote()})
	}
}

func (c *Controller) emit(typ string, data any) {
	c.outbox = append(c.outbox, bus.NewEvent(typ, eventSource, c.clock, data))
}

func (c *Controller) flush() error {
	if len(c.outbox) == 0 {
		return nil
	}
	events := c.outbox
	c.outbox = nil
	return c.bus.PublishBatch(events...)
}
