// Package config loads the mesim YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/mesim/internal/core/animation"
	"github.com/zeusync/mesim/internal/core/avatar"
	"github.com/zeusync/mesim/internal/core/controller"
	"github.com/zeusync/mesim/internal/core/locomotion"
	"github.com/zeusync/mesim/internal/core/observability/log"
	"github.com/zeusync/mesim/internal/core/placement"
	"github.com/zeusync/mesim/internal/core/presence"
	"github.com/zeusync/mesim/internal/sandbox"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
	Presence   PresenceConfig   `yaml:"presence"`
	Placement  PlacementConfig  `yaml:"placement"`
	Animation  AnimationConfig  `yaml:"animation"`
	Avatar     AvatarConfig     `yaml:"avatar"`
	Mode       ModeConfig       `yaml:"mode"`
	Sandbox    SandboxConfig    `yaml:"sandbox"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type LocomotionConfig struct {
	Steering       string  `yaml:"steering"`
	RunPolicy      string  `yaml:"run_policy"`
	WalkSpeed      float64 `yaml:"walk_speed"`
	RunSpeed       float64 `yaml:"run_speed"`
	RunDistance    float64 `yaml:"run_distance"`
	ArrivalRadius  float64 `yaml:"arrival_radius"`
	TurnGain       float64 `yaml:"turn_gain"`
	InputSmoothing float64 `yaml:"input_smoothing"`
}

type PresenceConfig struct {
	DebounceSamples int           `yaml:"debounce_samples"`
	SearchingText   string        `yaml:"searching_text"`
	FoundText       string        `yaml:"found_text"`
	SuccessDuration time.Duration `yaml:"success_duration"`
}

type PlacementConfig struct {
	SurfaceOffset  float64    `yaml:"surface_offset"`
	ViewportWidth  float64    `yaml:"viewport_width"`
	ViewportHeight float64    `yaml:"viewport_height"`
	Anchor         [3]float64 `yaml:"anchor"`
	Placeholder    string     `yaml:"placeholder"`
}

type AnimationConfig struct {
	// WalkThreshold of zero means the walk speed.
	WalkThreshold float64  `yaml:"walk_threshold"`
	EmoteDuration float64  `yaml:"emote_duration"`
	Emotes        []string `yaml:"emotes"`
}

type AvatarConfig struct {
	DefaultSource string `yaml:"default_source"`
	// StoreApp names the gdata application directory. Empty keeps the
	// persisted avatar in memory only.
	StoreApp       string        `yaml:"store_app"`
	PersistKey     string        `yaml:"persist_key"`
	LoadingText    string        `yaml:"loading_text"`
	ReadyText      string        `yaml:"ready_text"`
	FailedText     string        `yaml:"failed_text"`
	ResultDuration time.Duration `yaml:"result_duration"`
}

type ModeConfig struct {
	MinScale       float64 `yaml:"min_scale"`
	MaxScale       float64 `yaml:"max_scale"`
	StartMaximized bool    `yaml:"start_maximized"`
}

type SandboxConfig struct {
	TickHz int `yaml:"tick_hz"`
	// Duration stops the run after that much wall time. Zero runs until
	// interrupted.
	Duration      time.Duration `yaml:"duration"`
	TelemetryAddr string        `yaml:"telemetry_addr"`
	LoadDelay     time.Duration `yaml:"load_delay"`
	Camera        CameraConfig  `yaml:"camera"`
	Script        []Step        `yaml:"script"`
}

type CameraConfig struct {
	Height       float64 `yaml:"height"`
	PitchDeg     float64 `yaml:"pitch_deg"`
	FovDeg       float64 `yaml:"fov_deg"`
	WallBand     float64 `yaml:"wall_band"`
	WallDistance float64 `yaml:"wall_distance"`
}

// Step is one scripted input, fired once the simulation clock reaches At.
type Step struct {
	At     float64 `yaml:"at"`
	Action Action  `yaml:"action"`
	// X and Y are screen coordinates for taps.
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	// Name is the emote for emote steps.
	Name string `yaml:"name"`
	// Source is the avatar URL for avatar steps.
	Source  string `yaml:"source"`
	Visible bool   `yaml:"visible"`
}

type Action string

const (
	ActionTap    Action = "tap"
	ActionEmote  Action = "emote"
	ActionToggle Action = "toggle"
	ActionAvatar Action = "avatar"
	ActionFloor  Action = "floor"
)

func (a Action) valid() bool {
	switch a {
	case ActionTap, ActionEmote, ActionToggle, ActionAvatar, ActionFloor:
		return true
	}
	return false
}

// Default returns the complete built-in configuration.
func Default() Config {
	loco := locomotion.DefaultConfig()
	pres := presence.DefaultConfig()
	anim := animation.DefaultConfig()
	av := avatar.DefaultConfig()
	mode := controller.DefaultModeConfig()
	floor := sandbox.DefaultFloorConfig()

	return Config{
		Log: LogConfig{Level: "info"},
		Locomotion: LocomotionConfig{
			Steering:       loco.Steering.String(),
			RunPolicy:      loco.RunPolicy.String(),
			WalkSpeed:      loco.WalkSpeed,
			RunSpeed:       loco.RunSpeed,
			RunDistance:    loco.RunDistance,
			ArrivalRadius:  loco.ArrivalRadius,
			TurnGain:       loco.TurnGain,
			InputSmoothing: loco.InputSmoothing,
		},
		Presence: PresenceConfig{
			DebounceSamples: pres.DebounceSamples,
			SearchingText:   pres.SearchingText,
			FoundText:       pres.FoundText,
			SuccessDuration: pres.SuccessDuration,
		},
		Placement: PlacementConfig{
			SurfaceOffset:  placement.DefaultSurfaceOffset,
			ViewportWidth:  floor.Viewport.X(),
			ViewportHeight: floor.Viewport.Y(),
			Placeholder:    "placeholder",
		},
		Animation: AnimationConfig{
			EmoteDuration: anim.EmoteDuration,
			Emotes:        anim.Emotes,
		},
		Avatar: AvatarConfig{
			PersistKey:     av.PersistKey,
			LoadingText:    av.LoadingText,
			ReadyText:      av.ReadyText,
			FailedText:     av.FailedText,
			ResultDuration: av.ResultDuration,
		},
		Mode: ModeConfig{
			MinScale:       mode.MinScale,
			MaxScale:       mode.MaxScale,
			StartMaximized: mode.StartMaximized,
		},
		Sandbox: SandboxConfig{
			TickHz:        60,
			TelemetryAddr: "127.0.0.1:8089",
			LoadDelay:     500 * time.Millisecond,
			Camera: CameraConfig{
				Height:       floor.Height,
				PitchDeg:     floor.PitchDeg,
				FovDeg:       floor.FovDeg,
				WallBand:     floor.WallBand,
				WallDistance: floor.WallDistance,
			},
		},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// LoadYAML decodes r over the defaults and validates the result. An empty
// document yields the defaults.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field, format string, args ...any) {
		if !ok {
			errs = append(errs, invalid(field, format, args...))
		}
	}

	_, err := locomotion.ParseSteeringMode(c.Locomotion.Steering)
	check(err == nil, "locomotion.steering", "%v", err)
	_, err = locomotion.ParseRunPolicy(c.Locomotion.RunPolicy)
	check(err == nil, "locomotion.run_policy", "%v", err)

	l := c.Locomotion
	check(l.WalkSpeed > 0, "locomotion.walk_speed", "must be positive, got %v", l.WalkSpeed)
	check(l.RunSpeed >= l.WalkSpeed, "locomotion.run_speed", "must be at least walk_speed, got %v", l.RunSpeed)
	check(l.RunDistance >= 0, "locomotion.run_distance", "must not be negative, got %v", l.RunDistance)
	check(l.ArrivalRadius >= 0, "locomotion.arrival_radius", "must not be negative, got %v", l.ArrivalRadius)
	check(l.TurnGain > 0, "locomotion.turn_gain", "must be positive, got %v", l.TurnGain)
	check(l.InputSmoothing > 0 && l.InputSmoothing <= 1, "locomotion.input_smoothing", "must be in (0, 1], got %v", l.InputSmoothing)

	check(c.Presence.DebounceSamples >= 1, "presence.debounce_samples", "must be at least 1, got %d", c.Presence.DebounceSamples)
	check(c.Presence.SuccessDuration >= 0, "presence.success_duration", "must not be negative")

	p := c.Placement
	check(p.SurfaceOffset >= 0, "placement.surface_offset", "must not be negative, got %v", p.SurfaceOffset)
	check(p.ViewportWidth > 0 && p.ViewportHeight > 0, "placement.viewport", "must be positive, got %vx%v", p.ViewportWidth, p.ViewportHeight)

	check(c.Animation.WalkThreshold >= 0, "animation.walk_threshold", "must not be negative, got %v", c.Animation.WalkThreshold)
	check(c.Animation.EmoteDuration > 0, "animation.emote_duration", "must be positive, got %v", c.Animation.EmoteDuration)

	if c.Avatar.DefaultSource != "" {
		_, err := avatar.ValidateSource(c.Avatar.DefaultSource)
		check(err == nil, "avatar.default_source", "%v", err)
	}

	check(c.Mode.MinScale > 0 && c.Mode.MaxScale > 0, "mode", "scales must be positive")

	s := c.Sandbox
	check(s.TickHz > 0, "sandbox.tick_hz", "must be positive, got %d", s.TickHz)
	check(s.Duration >= 0, "sandbox.duration", "must not be negative")
	check(s.LoadDelay >= 0, "sandbox.load_delay", "must not be negative")
	check(s.Camera.Height > 0, "sandbox.camera.height", "must be positive, got %v", s.Camera.Height)
	check(s.Camera.FovDeg > 0 && s.Camera.FovDeg < 180, "sandbox.camera.fov_deg", "must be in (0, 180), got %v", s.Camera.FovDeg)
	check(s.Camera.WallBand >= 0 && s.Camera.WallBand <= 1, "sandbox.camera.wall_band", "must be in [0, 1], got %v", s.Camera.WallBand)
	for i, step := range s.Script {
		field := fmt.Sprintf("sandbox.script[%d]", i)
		check(step.Action.valid(), field, "unknown action %q", step.Action)
		check(step.At >= 0, field, "at must not be negative")
	}

	return errors.Join(errs...)
}

// LogLevel is the configured log level.
func (c Config) LogLevel() log.Level { return log.ParseLevel(c.Log.Level) }

// Controller converts the configuration for controller.New. It assumes
// Validate passed.
func (c Config) Controller() controller.Config {
	steering, _ := locomotion.ParseSteeringMode(c.Locomotion.Steering)
	policy, _ := locomotion.ParseRunPolicy(c.Locomotion.RunPolicy)

	walkThreshold := c.Animation.WalkThreshold
	if walkThreshold == 0 {
		walkThreshold = c.Locomotion.WalkSpeed
	}

	return controller.Config{
		Locomotion: locomotion.Config{
			Steering:       steering,
			RunPolicy:      policy,
			WalkSpeed:      c.Locomotion.WalkSpeed,
			RunSpeed:       c.Locomotion.RunSpeed,
			RunDistance:    c.Locomotion.RunDistance,
			ArrivalRadius:  c.Locomotion.ArrivalRadius,
			TurnGain:       c.Locomotion.TurnGain,
			InputSmoothing: c.Locomotion.InputSmoothing,
		},
		Presence: presence.Config{
			DebounceSamples: c.Presence.DebounceSamples,
			SearchingText:   c.Presence.SearchingText,
			FoundText:       c.Presence.FoundText,
			SuccessDuration: c.Presence.SuccessDuration,
		},
		Animation: animation.Config{
			WalkThreshold: walkThreshold,
			EmoteDuration: c.Animation.EmoteDuration,
			Emotes:        c.Animation.Emotes,
		},
		Avatar: avatar.Config{
			DefaultSource:  c.Avatar.DefaultSource,
			PersistKey:     c.Avatar.PersistKey,
			LoadingText:    c.Avatar.LoadingText,
			ReadyText:      c.Avatar.ReadyText,
			FailedText:     c.Avatar.FailedText,
			ResultDuration: c.Avatar.ResultDuration,
		},
		Mode: controller.ModeConfig{
			MinScale:       c.Mode.MinScale,
			MaxScale:       c.Mode.MaxScale,
			StartMaximized: c.Mode.StartMaximized,
		},
		SurfaceOffset: c.Placement.SurfaceOffset,
		Viewport:      c.viewport(),
		Anchor:        mgl64.Vec3(c.Placement.Anchor),
		Placeholder:   c.Placement.Placeholder,
	}
}

// Floor converts the sandbox camera settings.
func (c Config) Floor() sandbox.FloorConfig {
	return sandbox.FloorConfig{
		Viewport:     c.viewport(),
		Height:       c.Sandbox.Camera.Height,
		PitchDeg:     c.Sandbox.Camera.PitchDeg,
		FovDeg:       c.Sandbox.Camera.FovDeg,
		WallBand:     c.Sandbox.Camera.WallBand,
		WallDistance: c.Sandbox.Camera.WallDistance,
	}
}

func (c Config) viewport() mgl64.Vec2 {
	return mgl64.Vec2{c.Placement.ViewportWidth, c.Placement.ViewportHeight}
}

// TickInterval is the wall time between ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Sandbox.TickHz)
}
