// Package tui is a terminal rendition of the portfolio contact form. It
// drives the same contact.Controller the web form uses.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zachkp/portfolio/internal/contact"
)

// StatusMsg carries a controller status transition into the program.
type StatusMsg contact.Status

// submitDoneMsg is returned by the submit command when the controller has
// settled.
type submitDoneMsg struct {
	status contact.Status
}

// Model is the Bubble Tea model for the contact form.
type Model struct {
	ctrl    *contact.Controller
	inputs  []textinput.Model
	focus   int
	pending bool // submit issued, controller not yet settled
	spinner spinner.Model
	keys    formKeys
	help    help.Model
	width   int
	done    bool
}

var placeholders = map[contact.Field]string{
	contact.FieldName:    "Your name",
	contact.FieldEmail:   "you@example.com",
	contact.FieldSubject: "What's this about?",
	contact.FieldMessage: "Your message",
}

// NewModel creates a form bound to ctrl, prefilled from its fields.
func NewModel(ctrl *contact.Controller) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	fields := ctrl.Fields()
	inputs := make([]textinput.Model, len(contact.Fields))
	for i, f := range contact.Fields {
		in := textinput.New()
		in.Placeholder = placeholders[f]
		in.CharLimit = 2000
		in.SetValue(fields.Get(f))
		inputs[i] = in
	}
	inputs[0].Focus()

	return Model{
		ctrl:    ctrl,
		inputs:  inputs,
		spinner: s,
		keys:    defaultKeys(),
		help:    help.New(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// busy reports whether inputs are locked.
func (m Model) busy() bool {
	return m.pending || m.ctrl.Disabled()
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case StatusMsg:
		return m, nil

	case submitDoneMsg:
		m.pending = false
		m.syncInputs()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.done = true
			return m, tea.Quit
		}
		if m.busy() {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Enter):
			if m.focus == len(m.inputs)-1 {
				return m.submit()
			}
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		case key.Matches(msg, m.keys.Next):
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		case key.Matches(msg, m.keys.Prev):
			cmd := m.setFocus(m.focus - 1)
			return m, cmd
		}

		return m.edit(msg)
	}

	return m, nil
}

// edit forwards a keystroke to the focused input and records the new value
// on the controller.
func (m Model) edit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	if after := m.inputs[m.focus].Value(); after != before {
		m.ctrl.SetField(contact.Fields[m.focus], after)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.pending = true
	ctrl := m.ctrl
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return submitDoneMsg{status: ctrl.Submit(context.Background())}
		},
	)
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// syncInputs copies the controller's field values into the inputs.
func (m *Model) syncInputs() {
	fields := m.ctrl.Fields()
	for i, f := range contact.Fields {
		m.inputs[i].SetValue(fields.Get(f))
	}
}

// View renders the form.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Get in touch") + "\n\n")

	for i, f := range contact.Fields {
		label := strings.ToUpper(f.String()[:1]) + f.String()[1:]
		b.WriteString(labelStyle.Render(label) + " " + m.inputs[i].View() + "\n")
	}
	b.WriteString("\n")

	if m.busy() {
		b.WriteString(disabledButtonStyle.Render(contact.SubmittingLabel) + " " + m.spinner.View())
	} else {
		b.WriteString(buttonStyle.Render(m.ctrl.SubmitLabel()))
	}
	b.WriteString("\n")

	if line := statusLine(m.ctrl.Status()); line != "" {
		b.WriteString("\n" + line + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

// Run shows the form until the user quits. Status transitions reach the
// program through a controller subscription that is released on return.
func Run(ctrl *contact.Controller, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(NewModel(ctrl), opts...)

	stop := forwardStatus(ctrl, p.Send)
	defer stop()

	_, err := p.Run()
	return err
}

// forwardStatus subscribes to ctrl and hands transitions to send from a
// separate goroutine. Edits made inside Update notify synchronously, and
// send blocks until the event loop is free, so the listener itself must
// never call send. Pending transitions coalesce: StatusMsg only triggers a
// redraw and View reads the controller directly.
func forwardStatus(ctrl *contact.Controller, send func(tea.Msg)) (stop func()) {
	updates := make(chan contact.Status, 1)
	done := make(chan struct{})

	release := ctrl.Subscribe(func(st contact.Status) {
		select {
		case updates <- st:
		default:
		}
	})

	go func() {
		for {
			select {
			case st := <-updates:
				send(StatusMsg(st))
			case <-done:
				return
			}
		}
	}()

	return func() {
		release()
		close(done)
	}
}
