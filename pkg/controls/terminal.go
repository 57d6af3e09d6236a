package controls

import (
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/nwgfx/pkg/frame"
)

// Binding maps terminal key names, as understood by uv key events'
// MatchString, to a key.
type Binding struct {
	Key   Keys
	Names []string
}

// DefaultBindings is the terminal layout: arrows or WASD move, IJKL turn.
var DefaultBindings = []Binding{
	{CameraUp, []string{"i"}},
	{CameraDown, []string{"k"}},
	{CameraLeft, []string{"j"}},
	{CameraRight, []string{"l"}},
	{Forward, []string{"w", "up"}},
	{Back, []string{"s", "down"}},
	{Left, []string{"a", "left"}},
	{Right, []string{"d", "right"}},
	{FOVMore, []string{"+", "="}},
	{FOVLess, []string{"-", "_"}},
	{Wireframe, []string{"x"}},
	{Exit, []string{"escape", "q", "ctrl+c", "home"}},
}

// DefaultHold is how long a key counts as held after its last press event.
// Terminals report auto-repeat presses but rarely releases.
const DefaultHold = 120 * time.Millisecond

// TerminalSource accumulates key events from a terminal and reports the
// held set once per frame. HandleEvent runs on the event goroutine and Scan
// on the render goroutine.
type TerminalSource struct {
	Bindings []Binding
	Hold     time.Duration

	clock frame.Clock

	mu   sync.Mutex
	last map[Keys]time.Time
}

// NewTerminalSource creates a source with DefaultBindings. A nil clock uses
// frame.SystemClock.
func NewTerminalSource(clock frame.Clock) *TerminalSource {
	if clock == nil {
		clock = frame.SystemClock{}
	}
	return &TerminalSource{
		Bindings: DefaultBindings,
		Hold:     DefaultHold,
		clock:    clock,
		last:     make(map[Keys]time.Time),
	}
}

// HandleEvent records key presses and releases. It reports whether the
// event matched a binding.
func (s *TerminalSource) HandleEvent(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		return s.update(ev.MatchString, true)
	case uv.KeyReleaseEvent:
		return s.update(ev.MatchString, false)
	}
	return false
}

func (s *TerminalSource) update(match func(...string) bool, press bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	handled := false
	now := s.clock.Now()
	for _, b := range s.Bindings {
		if !match(b.Names...) {
			continue
		}
		handled = true
		if press {
			s.last[b.Key] = now
		} else {
			delete(s.last, b.Key)
		}
	}
	return handled
}

// Scan implements Source.
func (s *TerminalSource) Scan() Keys {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys Keys
	now := s.clock.Now()
	for k, t := range s.last {
		if now.Sub(t) > s.Hold {
			delete(s.last, k)
			continue
		}
		keys |= k
	}
	return keys
}
