// Package ui renders the todo board in the terminal and turns key presses into
// client operations.
//
// Every operation runs as its own tea.Cmd. Operations started in quick
// succession are not ordered: their exchanges may complete, and update the
// board, in any order.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoclient/internal/client"
	"todoclient/internal/service"
	"todoclient/internal/view"
)

type boardChangedMsg struct{}

type opDoneMsg struct {
	op  string
	err error
}

var filterCycle = map[service.Filter]service.Filter{
	service.FilterAll:         service.FilterCompleted,
	service.FilterCompleted:   service.FilterUncompleted,
	service.FilterUncompleted: service.FilterAll,
}

// Model is the bubbletea model of the board screen.
type Model struct {
	ctx     context.Context
	client  *client.Client
	board   *view.Board
	session *client.Session
	alerter *Alerter
	changes chan struct{}

	input   textinput.Model
	typing  bool
	cursor  int
	loading bool
	alerts  []alertMsg
	status  string
}

// New returns a model driving c. The alerter must be the one c was created with.
func New(ctx context.Context, c *client.Client, alerter *Alerter) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Width = 40

	m := &Model{
		ctx:     ctx,
		client:  c,
		board:   c.Board(),
		session: client.NewSession(),
		alerter: alerter,
		changes: make(chan struct{}, 1),
		input:   ti,
		loading: true,
	}
	m.board.OnChange(m.notify)
	return m
}

// notify coalesces board changes; it never blocks so it is safe to call from
// Update itself.
func (m *Model) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return boardChangedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// run wraps a client operation into a command reporting its outcome.
func (m *Model) run(op string, fn func(ctx context.Context, s *client.Session) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(m.ctx, m.session)}
	}
}

func (m *Model) restore() tea.Cmd {
	return m.run("restore", m.client.RestoreList)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.restore(), m.waitForChange(), m.alerter.wait())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if len(m.alerts) > 0 {
			return m, m.updateAlert(msg)
		}
		if m.typing {
			return m, m.updateTyping(msg)
		}
		return m, m.updateBrowsing(msg)
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
	case boardChangedMsg:
		m.syncFromBoard()
		return m, m.waitForChange()
	case alertMsg:
		m.alerts = append(m.alerts, msg)
		return m, m.alerter.wait()
	case opDoneMsg:
		if msg.op == "restore" {
			m.loading = false
		}
		m.status = statusFor(msg.err)
	}
	return m, nil
}

func (m *Model) updateAlert(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc", " ":
		close(m.alerts[0].ack)
		m.alerts = m.alerts[1:]
	}
	return nil
}

func (m *Model) updateTyping(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.typing = false
		m.input.Blur()
		return nil
	case "enter":
		return m.run("add", m.client.AddTask)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.board.Input() {
		m.board.SetInput(m.input.Value())
	}
	return cmd
}

func (m *Model) updateBrowsing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.board.Len()-1 {
			m.cursor++
		}
	case "a", "i":
		m.typing = true
		return m.input.Focus()
	case "d", "delete":
		return m.click(view.ClassDelete)
	case " ", "c", "x":
		return m.click(view.ClassComplete)
	case "tab", "f":
		next := filterCycle[m.board.Filter()]
		return m.filter(next)
	case "r":
		return m.filter(m.board.Filter())
	}
	return nil
}

// click sends the selected node's button of the given class to the client.
func (m *Model) click(class string) tea.Cmd {
	nodes := m.board.Nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return nil
	}
	target := view.Target{NodeID: nodes[m.cursor].ID, Class: class}
	return m.run(class, func(ctx context.Context, s *client.Session) error {
		return m.client.DeleteOrCompleteTask(ctx, s, target)
	})
}

func (m *Model) filter(f service.Filter) tea.Cmd {
	return m.run("filter", func(ctx context.Context, s *client.Session) error {
		return m.client.FilterTasks(ctx, s, string(f))
	})
}

func (m *Model) syncFromBoard() {
	if v := m.board.Input(); v != m.input.Value() {
		m.input.SetValue(v)
	}
	if n := m.board.Len(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// statusFor returns the status line for an operation outcome. Server errors
// were already shown as an alert.
func statusFor(err error) string {
	if err == nil {
		return ""
	}
	var appErr *service.AppError
	if errors.As(err, &appErr) {
		return ""
	}
	if errors.Is(err, client.ErrNoList) {
		return "todo list not loaded yet"
	}
	return err.Error()
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	m.writeFilter(&b)

	if m.loading {
		b.WriteString("Loading...\n")
	} else {
		m.writeNodes(&b)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("error: " + m.status))
		b.WriteString("\n")
	}
	if len(m.alerts) > 0 {
		b.WriteString("\n")
		b.WriteString(alertStyle.Render(m.alerts[0].text + "\n\n" + faintStyle.Render("enter to dismiss")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeFilter(b *strings.Builder) {
	current := m.board.Filter()
	for i, f := range []service.Filter{service.FilterAll, service.FilterCompleted, service.FilterUncompleted} {
		if i > 0 {
			b.WriteString("  ")
		}
		label := string(f)
		if f == current {
			b.WriteString(filterActiveStyle.Render(label))
		} else {
			b.WriteString(faintStyle.Render(label))
		}
	}
	b.WriteString("\n\n")
}

func (m *Model) writeNodes(b *strings.Builder) {
	nodes := m.board.Nodes()
	if len(nodes) == 0 {
		b.WriteString(faintStyle.Render("No tasks."))
		b.WriteString("\n")
		return
	}
	for i, n := range nodes {
		b.WriteString(m.renderNode(i, n))
		b.WriteString("\n")
	}
}

func (m *Model) renderNode(i int, n view.Node) string {
	pointer := "  "
	if i == m.cursor && !m.typing {
		pointer = selectedStyle.Render("> ")
	}
	box := "[ ]"
	if n.Completed {
		box = "[x]"
	}
	name := n.Name
	switch {
	case n.Falling:
		name = fallingStyle.Render(name + " ↓")
	case n.Completed:
		name = completedStyle.Render(name)
	}
	return fmt.Sprintf("%s%s %s", pointer, box, name)
}

func (m *Model) help() string {
	if m.typing {
		return "enter add • esc done typing"
	}
	return "a add • space complete • d delete • tab filter • r reload • q quit"
}
