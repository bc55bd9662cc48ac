package app

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const (
	hpFPS       = 30
	hpFrequency = 6.0
	hpDamping   = 0.9
	hpEpsilon   = 0.05
)

type hpFrameMsg struct{}

// hpAnim eases the displayed player HP towards the snapshot value on a
// damped spring.
type hpAnim struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	active bool
}

func newHPAnim() hpAnim {
	return hpAnim{spring: harmonica.NewSpring(harmonica.FPS(hpFPS), hpFrequency, hpDamping)}
}

// retarget eases towards to. An idle animation restarts at from. It returns
// a frame command only when a new animation starts.
func (a *hpAnim) retarget(from, to float64) tea.Cmd {
	if !a.active {
		a.pos, a.vel = from, 0
	}
	a.target = to
	if a.active || from == to {
		return nil
	}
	a.active = true
	return hpFrame()
}

// step advances one frame and reports whether the animation is still
// running.
func (a *hpAnim) step() bool {
	if !a.active {
		return false
	}
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
	if math.Abs(a.pos-a.target) < hpEpsilon && math.Abs(a.vel) < hpEpsilon {
		a.pos, a.vel, a.active = a.target, 0, false
	}
	return a.active
}

func (a *hpAnim) stop() {
	a.active, a.vel = false, 0
}

func hpFrame() tea.Cmd {
	return tea.Tick(time.Second/hpFPS, func(time.Time) tea.Msg { return hpFrameMsg{} })
}
