package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/mesim/internal/core/observability/log"
)

// Manager holds the single controlled entity. All calls happen on the tick
// thread; there is exactly one active entity before and after each call once
// the first one is installed.
type Manager struct {
	logger log.Log
	anchor mgl64.Vec3
	scale  float64

	current *Entity
}

// NewManager builds a manager that places the first entity at anchor.
func NewManager(anchor mgl64.Vec3, logger log.Log) *Manager {
	if logger == nil {
		logger = log.Nop()
	}
	return &Manager{logger: logger, anchor: anchor}
}

// Controlled returns the controlled entity, or nil before the first install.
func (m *Manager) Controlled() *Entity { return m.current }

// SetAnchor moves the placement point used while no entity exists yet.
func (m *Manager) SetAnchor(p mgl64.Vec3) { m.anchor = p }

func (m *Manager) Anchor() mgl64.Vec3 { return m.anchor }

// SetScale sets the uniform scale applied to the controlled entity and to
// every entity installed after it. Non-positive values leave scale untouched.
func (m *Manager) SetScale(s float64) {
	if s <= 0 {
		return
	}
	m.scale = s
	if m.current != nil {
		m.applyScale(m.current)
	}
}

// Install makes e the controlled entity as-is, keeping its own transform.
// It is meant for the initial placeholder; a previously controlled entity is
// retired without handing anything over.
func (m *Manager) Install(e *Entity) error {
	if e == nil {
		m.logger.Warn("install rejected", log.Error(ErrNilEntity))
		return ErrNilEntity
	}
	if e.retired {
		return ErrRetiredEntity
	}
	if e == m.current {
		return nil
	}
	if m.current != nil {
		m.current.retire()
	}
	e.active = true
	m.applyScale(e)
	m.current = e
	m.logger.Debug("entity installed", log.Stringer("id", e.ID), log.String("name", e.Name))
	return nil
}

// OnEntityReady swaps the controlled entity for next. The outgoing entity's
// position, rotation, target and moving flag move over; the target is
// re-issued unchanged, without placement validation. A nil next keeps the
// prior entity controlled.
func (m *Manager) OnEntityReady(next *Entity) error {
	if next == nil {
		m.logger.Warn("substitution rejected, keeping current entity", log.Error(ErrNilEntity))
		return ErrNilEntity
	}
	if next.retired {
		m.logger.Warn("substitution rejected", log.Stringer("id", next.ID), log.Error(ErrRetiredEntity))
		return ErrRetiredEntity
	}
	if next == m.current {
		return nil
	}

	prev := m.current
	if prev == nil {
		next.Transform.Position = m.anchor
	} else {
		nav := prev.nav
		next.Transform.Position = prev.Transform.Position
		next.Transform.Rotation = prev.Transform.Rotation
		next.Animation = prev.Animation
		prev.retire()
		next.nav = nav
	}

	next.active = true
	next.Substituted = true
	m.applyScale(next)
	m.current = next

	fields := []log.Field{log.Stringer("id", next.ID), log.String("name", next.Name)}
	if prev != nil {
		fields = append(fields, log.Stringer("replaced", prev.ID))
	}
	if _, ok := next.Target(); ok {
		fields = append(fields, log.Bool("target_resumed", true))
	}
	m.logger.Info("entity substituted", fields...)
	return nil
}

func (m *Manager) applyScale(e *Entity) {
	if m.scale > 0 {
		e.Transform.Scale = mgl64.Vec3{m.scale, m.scale, m.scale}
	}
}
