// Package component binds node subtrees to props and observable state.
//
// A concrete component implements Renderer and, optionally, the lifecycle
// hooks Mounter, Updater and Unmounter. It embeds a *Component created with
// New, which drives the lifecycle:
//
//	Mount:   Render, append under parent, mark mounted, OnMount
//	Update:  patch props, Render, replace root in place, OnUpdate(prev)
//	Unmount: OnUnmount, run teardowns in registration order, detach root
//
// Every subscription taken through Subscribe, SubscribeImmediate or Track
// is torn down exactly once when the component unmounts.
//
// Panics from Render or a hook are not recovered; the component is left in
// whatever state it reached.
package component

import (
	"log"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/dom"
	"github.com/mmerah/ai-dnd-demo-sub000/internal/observable"
)

// Renderer builds the subtree for the given props.
type Renderer[P any] interface {
	Render(props P) *dom.Node
}

// Mounter is implemented by components that set up after their root is
// attached.
type Mounter interface {
	OnMount()
}

// Updater is implemented by components that react to a re-render.
type Updater[P any] interface {
	OnUpdate(prev P)
}

// Unmounter is implemented by components that clean up before teardown.
type Unmounter interface {
	OnUnmount()
}

// Tracker accepts teardown handles.
type Tracker interface {
	Track(fn func())
}

// Component holds the lifecycle state shared by every concrete component.
type Component[P any] struct {
	name      string
	impl      Renderer[P]
	props     P
	root      *dom.Node
	teardowns []func()
	mounted   bool
}

// New creates an unmounted component. name is used in log messages.
func New[P any](name string, impl Renderer[P], props P) *Component[P] {
	return &Component[P]{name: name, impl: impl, props: props}
}

// Mount renders the component under parent. Mounting twice logs a warning
// and does nothing.
func (c *Component[P]) Mount(parent *dom.Node) {
	if c.mounted {
		log.Printf("component %s: already mounted", c.name)
		return
	}
	root := c.impl.Render(c.props)
	parent.AppendChild(root)
	c.root = root
	c.mounted = true
	if m, ok := c.impl.(Mounter); ok {
		m.OnMount()
	}
}

// Update applies patch to a copy of the props and re-renders, replacing the
// old root at the same position. It is a no-op with a warning when the
// component is not mounted.
func (c *Component[P]) Update(patch func(*P)) {
	if !c.mounted {
		log.Printf("component %s: update while not mounted", c.name)
		return
	}
	prev := c.props
	next := c.props
	if patch != nil {
		patch(&next)
	}
	root := c.impl.Render(next)
	c.props = next
	if parent := c.root.Parent(); parent != nil {
		parent.ReplaceChild(c.root, root)
	}
	c.root = root
	if u, ok := c.impl.(Updater[P]); ok {
		u.OnUpdate(prev)
	}
}

// Rerender renders again with unchanged props.
func (c *Component[P]) Rerender() {
	c.Update(nil)
}

// Unmount runs OnUnmount, tears down tracked subscriptions in registration
// order, then detaches the root. It is a no-op when not mounted.
func (c *Component[P]) Unmount() {
	if !c.mounted {
		return
	}
	if u, ok := c.impl.(Unmounter); ok {
		u.OnUnmount()
	}
	teardowns := c.teardowns
	c.teardowns = nil
	for _, fn := range teardowns {
		fn()
	}
	if c.root != nil {
		c.root.Remove()
	}
	c.root = nil
	c.mounted = false
}

// Track registers fn to run on unmount.
func (c *Component[P]) Track(fn func()) {
	if fn == nil {
		return
	}
	c.teardowns = append(c.teardowns, fn)
}

// IsMounted reports whether the component is mounted.
func (c *Component[P]) IsMounted() bool { return c.mounted }

// Element returns the current root node, or nil when unmounted.
func (c *Component[P]) Element() *dom.Node { return c.root }

// Props returns the current props.
func (c *Component[P]) Props() P { return c.props }

// Subscribe subscribes fn to src and ties the subscription to t's lifetime.
func Subscribe[T any](t Tracker, src observable.Source[T], fn func(T)) {
	unsub := src.Subscribe(fn)
	t.Track(func() { unsub() })
}

// SubscribeImmediate is Subscribe that also calls fn with the current value.
func SubscribeImmediate[T any](t Tracker, src observable.Source[T], fn func(T)) {
	unsub := src.SubscribeImmediate(fn)
	t.Track(func() { unsub() })
}
