package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	text       string
	persistent bool
	d          time.Duration
}

type recordingNotifier struct {
	messages []message
	clears   int
}

func (r *recordingNotifier) ShowPersistent(text string) {
	r.messages = append(r.messages, message{text: text, persistent: true})
}

func (r *recordingNotifier) ShowTemporary(text string, d time.Duration) {
	r.messages = append(r.messages, message{text: text, d: d})
}

type clearingNotifier struct {
	recordingNotifier
}

func (c *clearingNotifier) Clear() { c.clears++ }

func TestFirstDetectionAnnouncesOnce(t *testing.T) {
	n := &clearingNotifier{}
	tr := NewTracker(DefaultConfig(), n, nil)

	assert.Equal(t, TransitionFound, tr.Sample(true))
	assert.Equal(t, TransitionNone, tr.Sample(true))
	assert.Equal(t, TransitionLost, tr.Sample(false))
	assert.Equal(t, TransitionRefound, tr.Sample(true))
	assert.Equal(t, TransitionLost, tr.Sample(false))
	assert.Equal(t, TransitionRefound, tr.Sample(true))

	success := 0
	for _, m := range n.messages {
		if m.text == DefaultConfig().FoundText {
			success++
			assert.False(t, m.persistent)
			assert.Equal(t, 2*time.Second, m.d)
		}
	}
	assert.Equal(t, 1, success, "success notification must fire once per session")
	assert.Equal(t, 2, n.clears)
	assert.True(t, tr.State().EverDetected)
}

func TestLostRequiresPriorFound(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(DefaultConfig(), n, nil)

	for i := 0; i < 5; i++ {
		assert.Equal(t, TransitionNone, tr.Sample(false))
	}
	assert.Empty(t, n.messages)
	assert.False(t, tr.State().EverDetected)
}

func TestLostShowsPersistentSearching(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(DefaultConfig(), n, nil)
	tr.Sample(true)
	tr.Sample(false)

	require.Len(t, n.messages, 2)
	assert.Equal(t, message{text: DefaultConfig().SearchingText, persistent: true}, n.messages[1])
	assert.False(t, tr.State().CurrentlyDetected)
	assert.True(t, tr.State().EverDetected)
}

func TestRefoundWithoutClearerFallsBackToEmptyTemporary(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(DefaultConfig(), n, nil)
	tr.Sample(true)
	tr.Sample(false)
	tr.Sample(true)

	require.Len(t, n.messages, 3)
	assert.Equal(t, message{}, n.messages[2])
}

func TestDebounceNeedsConsecutiveSamples(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebounceSamples = 3
	tr := NewTracker(cfg, nil, nil)

	assert.Equal(t, TransitionNone, tr.Sample(true))
	assert.Equal(t, TransitionNone, tr.Sample(true))
	// a disagreeing sample resets the streak
	assert.Equal(t, TransitionNone, tr.Sample(false))
	assert.Equal(t, TransitionNone, tr.Sample(true))
	assert.Equal(t, TransitionNone, tr.Sample(true))
	assert.Equal(t, TransitionFound, tr.Sample(true))
	assert.True(t, tr.State().CurrentlyDetected)
}

func TestResetStartsNewSession(t *testing.T) {
	n := &recordingNotifier{}
	tr := NewTracker(DefaultConfig(), n, nil)
	tr.Sample(true)
	tr.Reset()

	assert.Equal(t, State{}, tr.State())
	assert.Equal(t, TransitionFound, tr.Sample(true))
}
