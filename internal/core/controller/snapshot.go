package controller

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/mesim/internal/core/animation"
	"github.com/zeusync/mesim/internal/core/locomotion"
	"github.com/zeusync/mesim/internal/core/presence"
	"github.com/zeusync/mesim/internal/core/systems/physics"
)

// Snapshot is a JSON view of the controller after a tick.
type Snapshot struct {
	Time          float64             `json:"time"`
	Enabled       bool                `json:"enabled"`
	Error         string              `json:"error,omitempty"`
	Entity        *EntitySnapshot     `json:"entity,omitempty"`
	Floor         presence.State      `json:"floor"`
	Maximized     bool                `json:"maximized"`
	Emote         animation.EmoteLock `json:"emote"`
	AvatarLoading bool                `json:"avatar_loading"`
}

type EntitySnapshot struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Position    mgl64.Vec3         `json:"position"`
	Yaw         float64            `json:"yaw"`
	Scale       float64            `json:"scale"`
	Animation   animation.State    `json:"animation"`
	Speed       float64            `json:"speed"`
	Moving      bool               `json:"moving"`
	Substituted bool               `json:"substituted"`
	Target      *locomotion.Target `json:"target,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	if c.err != nil {
		return Snapshot{Time: c.clock, Error: c.err.Error()}
	}
	s := Snapshot{
		Time:          c.clock,
		Enabled:       true,
		Floor:         c.tracker.State(),
		Maximized:     c.mode.Maximized(),
		Emote:         c.anim.Lock(),
		AvatarLoading: c.loader.InFlight(),
	}
	e := c.entities.Controlled()
	if e == nil {
		return s
	}
	es := &EntitySnapshot{
		ID:          e.ID.String(),
		Name:        e.Name,
		Position:    e.Transform.Position,
		Yaw:         physics.YawDegrees(e.Transform.Rotation),
		Scale:       e.Transform.Scale.X(),
		Animation:   e.Animation,
		Speed:       c.speed,
		Moving:      e.Moving(),
		Substituted: e.Substituted,
	}
	if t, ok := e.Target(); ok {
		es.Target = &t
	}
	s.Entity = es
	return s
}
