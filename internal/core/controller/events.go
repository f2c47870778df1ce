package controller

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/mesim/internal/core/locomotion"
	"github.com/zeusync/mesim/internal/core/presence"
)

// Event types published on the bus. Payloads are the structs below.
const (
	EventFloorFound        = "floor.found"
	EventFloorLost         = "floor.lost"
	EventTargetIssued      = "target.issued"
	EventTargetArrived     = "target.arrived"
	EventEntitySubstituted = "entity.substituted"
	EventAvatarReady       = "avatar.ready"
	EventAvatarFailed      = "avatar.failed"
	EventEmoteStarted      = "emote.started"
	EventEmoteEnded        = "emote.ended"
	EventModeChanged       = "mode.changed"
	eventSource            = "controller"
)

// AllEvents lists every event type the controller publishes.
var AllEvents = []string{
	EventFloorFound, EventFloorLost,
	EventTargetIssued, EventTargetArrived,
	EventEntitySubstituted, EventAvatarReady, EventAvatarFailed,
	EventEmoteStarted, EventEmoteEnded,
	EventModeChanged,
}

type FloorEvent struct {
	State presence.State `json:"state"`
	// Refound is set when the floor came back after a loss.
	Refound bool `json:"refound,omitempty"`
}

type TargetEvent struct {
	EntityID string            `json:"entity_id"`
	Target   locomotion.Target `json:"target"`
	Position mgl64.Vec3        `json:"position"`
}

type SubstitutionEvent struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	Replaced string `json:"replaced,omitempty"`
	Resumed  bool   `json:"resumed"`
}

type AvatarEvent struct {
	Source   string `json:"source"`
	EntityID string `json:"entity_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type EmoteEvent struct {
	EntityID string `json:"entity_id"`
	Emote    string `json:"emote"`
}

type ModeEvent struct {
	Maximized bool    `json:"maximized"`
	Scale     float64 `json:"scale"`
}
