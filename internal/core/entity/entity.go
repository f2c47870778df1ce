// Package entity owns the controlled entity and swaps it for a freshly loaded
// one without losing navigation state.
package entity

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/mesim/internal/core/animation"
	"github.com/zeusync/mesim/internal/core/locomotion"
	"github.com/zeusync/mesim/internal/core/systems/physics"
)

var (
	ErrNilEntity     = errors.New("entity: nil entity")
	ErrRetiredEntity = errors.New("entity: entity already retired")
)

// Entity is a placeable, movable thing in the scene.
type Entity struct {
	ID          uuid.UUID
	Name        string
	Transform   physics.Transform
	Animation   animation.State
	Substituted bool

	active  bool
	retired bool
	nav     navigation
}

type navigation struct {
	target    locomotion.Target
	hasTarget bool
	moving    bool
}

// New creates an inactive entity at the origin.
func New(name string) *Entity {
	return &Entity{
		ID:        uuid.New(),
		Name:      name,
		Transform: physics.NewTransform(mgl64.Vec3{}),
	}
}

// IsActive reports whether the entity is the one currently controlled.
func (e *Entity) IsActive() bool { return e.active }

// IsRetired reports whether the entity was replaced. Retired entities never
// come back.
func (e *Entity) IsRetired() bool { return e.retired }

// Target returns the active navigation target, if any.
func (e *Entity) Target() (locomotion.Target, bool) {
	return e.nav.target, e.nav.hasTarget
}

// SetTarget replaces the navigation target wholesale.
func (e *Entity) SetTarget(t locomotion.Target) {
	e.nav.target = t
	e.nav.hasTarget = true
}

func (e *Entity) ClearTarget() {
	e.nav = navigation{}
}

func (e *Entity) Moving() bool { return e.nav.moving }

func (e *Entity) SetMoving(moving bool) { e.nav.moving = moving }

func (e *Entity) retire() {
	e.active = false
	e.retired = true
	e.nav = navigation{}
}
