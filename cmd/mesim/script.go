package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/mesim/internal/config"
	"github.com/zeusync/mesim/internal/core/observability/log"
)

// target is the part of the controller a script drives.
type target interface {
	Tap(screen mgl64.Vec2) error
	RequestEmote(name string) error
	ToggleMode() error
	LoadAvatar(ctx context.Context, id string) error
}

type floorSwitch interface {
	SetVisible(bool)
}

// script replays configured inputs in time order, each exactly once.
type script struct {
	steps  []config.Step
	next   int
	logger log.Log
}

func newScript(steps []config.Step, logger log.Log) *script {
	sorted := append([]config.Step(nil), steps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &script{steps: sorted, logger: logger}
}

// Done reports whether every step has fired.
func (s *script) Done() bool { return s.next >= len(s.steps) }

// fire applies every step due at now.
func (s *script) fire(ctx context.Context, now float64, c target, floor floorSwitch) int {
	n := 0
	for !s.Done() && s.steps[s.next].At <= now {
		step := s.steps[s.next]
		s.next++
		n++
		if err := apply(ctx, step, c, floor); err != nil {
			s.logger.Info("scripted input rejected",
				log.String("action", string(step.Action)),
				log.Float64("at", step.At),
				log.Error(err))
		}
	}
	return n
}

func apply(ctx context.Context, step config.Step, c target, floor floorSwitch) error {
	switch step.Action {
	case config.ActionTap:
		return c.Tap(mgl64.Vec2{step.X, step.Y})
	case config.ActionEmote:
		return c.RequestEmote(step.Name)
	case config.ActionToggle:
		return c.ToggleMode()
	case config.ActionAvatar:
		return c.LoadAvatar(ctx, step.Source)
	case config.ActionFloor:
		floor.SetVisible(step.Visible)
		return nil
	}
	return fmt.Errorf("unknown action %q", step.Action)
}
