// Package launcher switches the foreground between watch faces. A double tap or a
// rightward swipe shows the next face; a leftward swipe shows the previous one.
package launcher

import (
	"fancywatch/hal"
	"fancywatch/watchos/event"
	"fancywatch/watchos/kernel"
)

// SwipeDistance is the minimum horizontal travel of a touch that counts as a swipe.
const SwipeDistance = 60

// Face is a running app the launcher can bring to the foreground.
type Face interface {
	kernel.App
	ID() int
}

type Launcher struct {
	kernel.Base

	faces   []Face
	current int

	tracking bool
	startX   int16
}

// New returns a launcher cycling through faces. The first face is shown on start.
func New(faces ...Face) *Launcher {
	return &Launcher{faces: faces}
}

func (l *Launcher) OnStart(args []string) {
	l.show(0)
}

func (l *Launcher) HandleEvent(e event.Event) {
	switch e.Kind {
	case event.SensorDoubleTap:
		l.Next()
	case event.TouchBegin:
		if t, ok := e.TouchData(); ok && t.ID == 0 {
			l.tracking, l.startX = true, t.X
		}
	case event.TouchEnd:
		t, ok := e.TouchData()
		if !ok || t.ID != 0 || !l.tracking {
			return
		}
		l.tracking = false
		switch dx := int(t.X) - int(l.startX); {
		case dx >= SwipeDistance:
			l.Next()
		case dx <= -SwipeDistance:
			l.Prev()
		}
	}
}

// Next shows the following face, wrapping around.
func (l *Launcher) Next() { l.step(1) }

// Prev shows the preceding face, wrapping around.
func (l *Launcher) Prev() { l.step(-1) }

// step moves d faces along, skipping faces that are no longer running.
func (l *Launcher) step(d int) {
	n := len(l.faces)
	for i, j := 1, l.current; i < n; i++ {
		j = ((j+d)%n + n) % n
		if l.faces[j].ID() >= 0 {
			l.show(j)
			return
		}
	}
}

// show moves face i to the foreground and every other running face to the background.
func (l *Launcher) show(i int) {
	k := l.Kernel()
	if k == nil || i >= len(l.faces) || l.faces[i].ID() < 0 {
		return
	}
	l.current = i
	for j, f := range l.faces {
		if j != i && f.ID() >= 0 {
			k.SetForeground(f.ID(), false)
		}
	}
	id := l.faces[i].ID()
	k.SetForeground(id, true)
	hal.Logf(k.Logger(), hal.LevelDebug, "launcher: showing application[%d]", id)
}

// Current returns the face in the foreground, or nil when there are none.
func (l *Launcher) Current() Face {
	if len(l.faces) == 0 {
		return nil
	}
	return l.faces[l.current]
}
