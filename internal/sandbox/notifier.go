package sandbox

import (
	"sync"
	"time"

	"github.com/zeusync/mesim/internal/core/observability/log"
)

// ConsoleNotifier shows user-facing status text as log lines and remembers
// the message on screen.
type ConsoleNotifier struct {
	logger log.Log

	mu      sync.Mutex
	current string
}

func NewConsoleNotifier(logger log.Log) *ConsoleNotifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &ConsoleNotifier{logger: logger}
}

func (n *ConsoleNotifier) ShowPersistent(text string) {
	n.set(text)
	n.logger.Info("notice", log.String("text", text), log.Bool("persistent", true))
}

func (n *ConsoleNotifier) ShowTemporary(text string, d time.Duration) {
	if text == "" {
		n.Clear()
		return
	}
	n.set(text)
	n.logger.Info("notice", log.String("text", text), log.Duration("for", d))
}

func (n *ConsoleNotifier) Clear() {
	n.set("")
	n.logger.Debug("notice cleared")
}

// Current returns the last message shown, or "" after a clear.
func (n *ConsoleNotifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *ConsoleNotifier) set(text string) {
	n.mu.Lock()
	n.current = text
	n.mu.Unlock()
}
