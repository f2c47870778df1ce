package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/mesim/internal/core/animation"
	"github.com/zeusync/mesim/internal/core/locomotion"
	"github.com/zeusync/mesim/internal/core/observability/log"
)

func TestSubstitutionPreservesTarget(t *testing.T) {
	m := NewManager(mgl64.Vec3{}, nil)
	old := New("placeholder")
	require.NoError(t, m.Install(old))

	target := locomotion.Target{Point: mgl64.Vec3{4, 0.02, 0}, ArrivalRadius: 0.1, IssuedAt: 1.5}
	old.SetTarget(target)
	old.SetMoving(true)
	old.Animation = animation.Walk
	old.Transform.Position = mgl64.Vec3{2, 0, 0}
	old.Transform.Rotation = mgl64.QuatRotate(1.2, mgl64.Vec3{0, 1, 0})

	next := New("avatar")
	require.NoError(t, m.OnEntityReady(next))

	assert.Same(t, next, m.Controlled())
	assert.True(t, next.IsActive())
	assert.True(t, next.Substituted)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, next.Transform.Position)
	assert.Equal(t, old.Transform.Rotation, next.Transform.Rotation)
	assert.True(t, next.Moving())
	assert.Equal(t, animation.Walk, next.Animation)

	got, ok := next.Target()
	require.True(t, ok)
	assert.Equal(t, target, got, "target is re-issued unchanged")

	assert.False(t, old.IsActive())
	assert.True(t, old.IsRetired())
	_, ok = old.Target()
	assert.False(t, ok)
}

func TestSubstitutionWithoutPriorUsesAnchor(t *testing.T) {
	anchor := mgl64.Vec3{0.5, 0.02, -1}
	m := NewManager(anchor, nil)
	next := New("avatar")
	next.Transform.Position = mgl64.Vec3{9, 9, 9}

	require.NoError(t, m.OnEntityReady(next))

	assert.Equal(t, anchor, next.Transform.Position)
	assert.True(t, next.IsActive())
	_, ok := next.Target()
	assert.False(t, ok)
	assert.False(t, next.Moving())
}

func TestSubstitutionOfIdleEntityStaysIdle(t *testing.T) {
	m := NewManager(mgl64.Vec3{}, nil)
	require.NoError(t, m.Install(New("placeholder")))

	next := New("avatar")
	require.NoError(t, m.OnEntityReady(next))

	assert.Equal(t, mgl64.Vec3{}, next.Transform.Position)
	assert.Equal(t, animation.Idle, next.Animation)
	_, ok := next.Target()
	assert.False(t, ok)
}

func TestNilEntityKeepsPrior(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewManager(mgl64.Vec3{}, log.NewFromZap(zap.New(core)))
	prior := New("placeholder")
	require.NoError(t, m.Install(prior))
	logs.TakeAll()

	err := m.OnEntityReady(nil)

	assert.ErrorIs(t, err, ErrNilEntity)
	assert.Same(t, prior, m.Controlled())
	assert.True(t, prior.IsActive())
	warns := logs.FilterLevelExact(zapcore.WarnLevel)
	assert.Equal(t, 1, warns.Len())
}

func TestRetiredEntityIsRejected(t *testing.T) {
	m := NewManager(mgl64.Vec3{}, nil)
	first := New("a")
	require.NoError(t, m.Install(first))
	second := New("b")
	require.NoError(t, m.OnEntityReady(second))

	assert.ErrorIs(t, m.OnEntityReady(first), ErrRetiredEntity)
	assert.ErrorIs(t, m.Install(first), ErrRetiredEntity)
	assert.Same(t, second, m.Controlled())
}

func TestReadyForControlledEntityIsNoop(t *testing.T) {
	m := NewManager(mgl64.Vec3{}, nil)
	e := New("a")
	require.NoError(t, m.Install(e))

	require.NoError(t, m.OnEntityReady(e))
	assert.True(t, e.IsActive())
	assert.False(t, e.Substituted)
}

func TestExactlyOneActiveEntity(t *testing.T) {
	m := NewManager(mgl64.Vec3{}, nil)
	all := []*Entity{New("a"), New("b"), New("c"), New("d")}
	require.NoError(t, m.Install(all[0]))

	for _, e := range all[1:] {
		require.NoError(t, m.OnEntityReady(e))
		active := 0
		for _, x := range all {
			if x.IsActive() {
				active++
			}
		}
		assert.Equal(t, 1, active)
	}
}

func TestScaleFollowsMode(t *testing.T) {
	m := NewManager(mgl64.Vec3{}, nil)
	e := New("a")
	require.NoError(t, m.Install(e))
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, e.Transform.Scale)

	m.SetScale(0.3)
	assert.Equal(t, mgl64.Vec3{0.3, 0.3, 0.3}, e.Transform.Scale)

	next := New("b")
	require.NoError(t, m.OnEntityReady(next))
	assert.Equal(t, mgl64.Vec3{0.3, 0.3, 0.3}, next.Transform.Scale)

	m.SetScale(0)
	assert.Equal(t, mgl64.Vec3{0.3, 0.3, 0.3}, next.Transform.Scale)
}

func TestEntitiesGetDistinctIDs(t *testing.T) {
	assert.NotEqual(t, New("a").ID, New("a").ID)
}
