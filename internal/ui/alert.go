package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

type alertMsg struct {
	text string
	ack  chan struct{}
}

// Alerter shows server-reported errors as a modal over the board.
// Alert blocks the calling exchange until the modal is dismissed or ctx ends.
type Alerter struct {
	ctx context.Context
	ch  chan alertMsg
}

// NewAlerter returns an alerter whose pending alerts are released when ctx ends.
func NewAlerter(ctx context.Context) *Alerter {
	return &Alerter{ctx: ctx, ch: make(chan alertMsg)}
}

// Alert implements view.Alerter.
func (a *Alerter) Alert(message string) {
	ack := make(chan struct{})
	select {
	case a.ch <- alertMsg{text: message, ack: ack}:
	case <-a.ctx.Done():
		return
	}
	select {
	case <-ack:
	case <-a.ctx.Done():
	}
}

func (a *Alerter) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-a.ch:
			return msg
		case <-a.ctx.Done():
			return nil
		}
	}
}
