// Package controls turns key state into camera, field of view and render
// mode changes, one frame at a time.
package controls

import "strings"

// Keys is the set of keys held during a frame.
type Keys uint32

const (
	CameraUp Keys = 1 << iota
	CameraDown
	CameraLeft
	CameraRight
	Forward
	Back
	Left
	Right
	FOVMore
	FOVLess
	Wireframe
	Exit
)

var keyNames = [...]string{
	"camera-up", "camera-down", "camera-left", "camera-right",
	"forward", "back", "left", "right",
	"fov+", "fov-", "wireframe", "exit",
}

// Has reports whether all keys in k are held.
func (ks Keys) Has(k Keys) bool {
	return ks&k == k
}

func (ks Keys) String() string {
	if ks == 0 {
		return "none"
	}
	var names []string
	for i, name := range keyNames {
		if ks&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// Source reports the keys currently held. It is polled once per frame.
type Source interface {
	Scan() Keys
}

// SourceFunc adapts a function to Source.
type SourceFunc func() Keys

func (f SourceFunc) Scan() Keys { return f() }

// None is a Source with no keys held, for headless runs.
var None = SourceFunc(func() Keys { return 0 })
