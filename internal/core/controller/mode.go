package controller

type ModeConfig struct {
	MinScale       float64
	MaxScale       float64
	StartMaximized bool
}

func DefaultModeConfig() ModeConfig {
	return ModeConfig{MinScale: 0.5, MaxScale: 1.5, StartMaximized: true}
}

// ModeToggle is the two-state size mode of the controlled entity. It is owned
// by one controller; nothing reaches it globally. The entity keeps its own
// scale until the first toggle.
type ModeToggle struct {
	cfg       ModeConfig
	maximized bool
	toggled   bool
}

func NewModeToggle(cfg ModeConfig) *ModeToggle {
	return &ModeToggle{cfg: cfg, maximized: cfg.StartMaximized}
}

func (m *ModeToggle) Maximized() bool { return m.maximized }

// Toggle flips the mode and returns the scale that goes with the new one.
func (m *ModeToggle) Toggle() float64 {
	m.maximized = !m.maximized
	m.toggled = true
	s, _ := m.Scale()
	return s
}

// Scale returns the scale of the current mode, and false while the mode was
// never toggled.
func (m *ModeToggle) Scale() (float64, bool) {
	if m.maximized {
		return m.cfg.MaxScale, m.toggled
	}
	return m.cfg.MinScale, m.toggled
}
