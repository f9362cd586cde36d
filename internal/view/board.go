// Package view holds the display model of the todo list: one node per rendered
// task, the task-name input field and the filter control.
//
// A Board is safe for concurrent use. Exchanges complete on their own
// goroutines and mutate the board directly; renderers read snapshots.
package view

import (
	"sync"
	"time"

	"todoclient/internal/service"
)

// Node classes a click target can carry.
const (
	ClassDelete   = "delete_btn"
	ClassComplete = "complete_btn"
)

// Node is the display projection of one task.
type Node struct {
	ID        string
	Name      string
	Completed bool // "completed" class
	Falling   bool // fall transition in progress
}

// Target is the element a click landed on: a node and the class of the
// button inside it.
type Target struct {
	NodeID string
	Class  string
}

// Alerter surfaces a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(message string)

func (f AlerterFunc) Alert(message string) { f(message) }

// Board is the ordered set of rendered task nodes plus the input and filter
// controls.
type Board struct {
	mu       sync.Mutex
	nodes    []*Node
	input    string
	filter   service.Filter
	onChange func()
}

// NewBoard returns an empty board showing all tasks.
func NewBoard() *Board {
	return &Board{filter: service.FilterAll}
}

// OnChange registers a function called after every mutation.
// It is called without the board lock held.
func (b *Board) OnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

func (b *Board) changed() {
	b.mu.Lock()
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Append creates a node for a task and adds it at the end of the list.
func (b *Board) Append(id, name string, completed bool) {
	b.mu.Lock()
	b.nodes = append(b.nodes, &Node{ID: id, Name: name, Completed: completed})
	b.mu.Unlock()
	b.changed()
}

// ToggleCompleted flips the completed class of a node.
// Returns false if no node has the id.
func (b *Board) ToggleCompleted(id string) bool {
	b.mu.Lock()
	n := b.find(id)
	if n != nil {
		n.Completed = !n.Completed
	}
	b.mu.Unlock()
	if n == nil {
		return false
	}
	b.changed()
	return true
}

// Fall starts the fall transition of a node and removes it once the
// transition has run for d. A non-positive d removes it immediately.
// Only the node that started falling is removed, so a node re-rendered
// under the same id in the meantime survives.
// Returns false if no node has the id.
func (b *Board) Fall(id string, d time.Duration) bool {
	b.mu.Lock()
	n := b.find(id)
	if n != nil {
		n.Falling = true
	}
	b.mu.Unlock()
	if n == nil {
		return false
	}
	if d <= 0 {
		b.removeNode(n)
		return true
	}
	b.changed()
	time.AfterFunc(d, func() { b.removeNode(n) })
	return true
}

func (b *Board) removeNode(target *Node) {
	b.mu.Lock()
	removed := false
	for i, n := range b.nodes {
		if n == target {
			b.nodes = append(b.nodes[:i], b.nodes[i+1:]...)
			removed = true
			break
		}
	}
	b.mu.Unlock()
	if removed {
		b.changed()
	}
}

// Clear removes every node, including falling ones.
func (b *Board) Clear() {
	b.mu.Lock()
	b.nodes = nil
	b.mu.Unlock()
	b.changed()
}

// Node returns a copy of the node with the id.
func (b *Board) Node(id string) (Node, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := b.find(id); n != nil {
		return *n, true
	}
	return Node{}, false
}

// Nodes returns a snapshot of the rendered nodes in display order.
func (b *Board) Nodes() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Node, len(b.nodes))
	for i, n := range b.nodes {
		out[i] = *n
	}
	return out
}

// Len returns the number of rendered nodes.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes)
}

// Input returns the current value of the task-name field.
func (b *Board) Input() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input
}

// SetInput replaces the value of the task-name field.
func (b *Board) SetInput(s string) {
	b.mu.Lock()
	b.input = s
	b.mu.Unlock()
	b.changed()
}

// Filter returns the value of the filter control.
func (b *Board) Filter() service.Filter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// SetFilter sets the value of the filter control.
func (b *Board) SetFilter(f service.Filter) {
	b.mu.Lock()
	b.filter = f
	b.mu.Unlock()
	b.changed()
}

func (b *Board) find(id string) *Node {
	for _, n := range b.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
