// Package presence assigns a stable color to every display name active in
// the process, so concurrent participants stay visually distinguishable.
package presence

import (
	"math/rand"
	"sync"
)

// palette is the fixed ordered set of colors handed out to participants.
// Colors are scoped to the display name, not to the room.
var palette = []string{
	"#f94144", "#f3722c", "#f9c74f", "#90be6d",
	"#43aa8b", "#577590", "#277da1", "#f9844a",
}

// entry tracks one active display name. refs counts the connections
// currently sharing the name; the color is freed when it drops to zero.
type entry struct {
	color string
	refs  int
}

// Registry is the process-wide display-name → color mapping.
// Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	names map[string]*entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]*entry)}
}

// ColorFor returns the color assigned to name, assigning one if the name
// is not yet active. Calling it again for the same name returns the same
// color and adds a reference that must be dropped with Release.
func (reg *Registry) ColorFor(name string) string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if e, ok := reg.names[name]; ok {
		e.refs++
		return e.color
	}
	e := &entry{color: reg.pickLocked(), refs: 1}
	reg.names[name] = e
	return e.color
}

// Release drops one reference to name, removing the color assignment when
// the last holder disconnects. Releasing an absent name is a no-op.
func (reg *Registry) Release(name string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	e, ok := reg.names[name]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(reg.names, name)
	}
}

// Active returns the number of display names currently holding a color.
func (reg *Registry) Active() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.names)
}

// pickLocked selects the first palette color not currently assigned.
// When every color is taken it falls back to a random palette color, so
// collisions become possible only beyond len(palette) distinct names.
func (reg *Registry) pickLocked() string {
	assigned := make(map[string]bool, len(reg.names))
	for _, e := range reg.names {
		assigned[e.color] = true
	}
	for _, c := range palette {
		if !assigned[c] {
			return c
		}
	}
	return palette[rand.Intn(len(palette))]
}

// Palette returns a copy of the color palette.
func Palette() []string {
	out := make([]string, len(palette))
	copy(out, palette)
	return out
}
