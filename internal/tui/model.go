// Package tui is the terminal front end of AirNote.
//
// It follows The Elm Architecture of bubbletea: key presses become calls on
// a view.Controller, and reconciler events become messages that redraw the
// list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/reconcile"
	"github.com/yesilw0rks/airnote/pkg/view"
)

type noteItem struct {
	note core.Note
}

func (i noteItem) Title() string {
	if strings.TrimSpace(i.note.Title) == "" {
		return "(untitled)"
	}
	return i.note.Title
}

func (i noteItem) Description() string {
	desc := i.note.Space + " · " + i.note.UpdatedAt.Local().Format("2006-01-02 15:04")
	if len(i.note.Tags) > 0 {
		desc += " · #" + strings.Join(i.note.Tags, " #")
	}
	return desc
}

func (i noteItem) FilterValue() string { return i.note.Title }

// editor focus order
const (
	focusTitle = iota
	focusBody
	focusTags
	focusCount
)

type (
	eventMsg  core.Event
	closedMsg struct{}
	doneMsg   struct {
		status string
		err    error
	}
)

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	view   *view.Controller
	events <-chan core.Event

	list   list.Model
	login  textinput.Model
	prompt textinput.Model // new space name
	title  textinput.Model
	body   textarea.Model
	tags   textinput.Model
	focus  int

	prompting bool
	signingIn bool
	status    string
	err       error
	width     int
	height    int
}

// New builds the model. events may be nil; it normally comes from
// Reconciler.Subscribe.
func New(ctx context.Context, v *view.Controller, events <-chan core.Event) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "AirNote"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)

	login := textinput.New()
	login.Placeholder = "user id (empty for guest)"
	login.CharLimit = 128
	login.Width = 40
	login.Focus()

	prompt := textinput.New()
	prompt.Placeholder = "space name"
	prompt.CharLimit = 40

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	body := textarea.New()
	body.Placeholder = "## Heading\n- **bold** *italic* -strike- _underline_"
	body.ShowLineNumbers = false

	tags := textinput.New()
	tags.Placeholder = "tags, comma separated"

	m := Model{
		ctx:    ctx,
		view:   v,
		events: events,
		list:   l,
		login:  login,
		prompt: prompt,
		title:  title,
		body:   body,
		tags:   tags,
	}
	m.syncItems()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(e)
	}
}

func (m Model) signedIn() bool {
	_, ok := m.view.Identity()
	return ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		m.body.SetWidth(msg.Width - 6)
		m.body.SetHeight(max(msg.Height-12, 3))
		return m, nil

	case eventMsg:
		m.syncItems()
		if msg.Type == core.EventSyncFailed || (msg.Type == core.EventStateChanged && msg.ID == "degraded") {
			m.status = "offline: changes are kept locally"
		}
		return m, m.waitForEvent()

	case closedMsg:
		return m, nil

	case doneMsg:
		m.signingIn = false
		m.err = nil
		m.report(msg.err, msg.status)
		m.syncItems()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.err = nil
		if !m.signedIn() {
			return m.updateLogin(msg)
		}
		if m.prompting {
			return m.updatePrompt(msg)
		}
		switch m.view.Mode() {
		case view.ModeList:
			return m.updateList(msg)
		case view.ModeDetail:
			return m.updateDetail(msg)
		case view.ModeEdit, view.ModeCreate:
			return m.updateEditor(msg)
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		if m.signingIn {
			return m, nil
		}
		id := strings.TrimSpace(m.login.Value())
		m.login.Reset()
		m.signingIn = true
		m.status = "signing in..."
		return m, m.signIn(id)
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.prompt.Reset()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.prompt.Value())
		m.prompting = false
		m.prompt.Reset()
		if err := m.view.AddSpace(name); err != nil {
			m.err = fmt.Errorf("%w: %q", err, name)
			return m, nil
		}
		return m, m.selectSpace(name)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		if item, ok := m.list.SelectedItem().(noteItem); ok {
			m.report(m.view.Open(item.note.ID), "")
		}
		return m, nil
	case "n":
		m.view.New()
		m.loadEditor()
		return m, textarea.Blink
	case "r":
		return m, m.refresh()
	case "s":
		return m, m.selectSpace(m.nextSpace())
	case "+":
		m.prompting = true
		m.prompt.Focus()
		return m, textinput.Blink
	case "L":
		m.report(m.view.SignOut(m.ctx), "signed out")
		m.login.Focus()
		m.syncItems()
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.view.Back()
		m.syncItems()
	case "e":
		if err := m.view.Edit(); err != nil {
			m.err = err
			return m, nil
		}
		m.loadEditor()
		return m, textarea.Blink
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view.Cancel()
		m.syncItems()
		return m, nil
	case "ctrl+s":
		draft := m.collectDraft()
		n, err := m.view.Save(m.ctx, draft)
		switch {
		case err != nil:
			m.err = err
		case n == nil:
			m.status = "empty note discarded"
		default:
			m.status = "saved " + n.Title
		}
		m.syncItems()
		return m, nil
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = focusCount - 1
		}
		m.setFocus((m.focus + step) % focusCount)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusBody:
		m.body, cmd = m.body.Update(msg)
	case focusTags:
		m.tags, cmd = m.tags.Update(msg)
	}
	return m, cmd
}

// loadEditor fills the editor fields from the controller's draft.
func (m *Model) loadEditor() {
	d := m.view.Draft()
	m.title.SetValue(d.Title)
	m.title.CursorEnd()
	m.body.SetValue(d.Content)
	m.tags.SetValue(strings.Join(d.Tags, ", "))
	m.setFocus(focusTitle)
}

func (m *Model) collectDraft() core.Draft {
	d := m.view.Draft()
	d.Title = m.title.Value()
	d.Content = m.body.Value()
	d.Tags = nil
	for _, t := range strings.Split(m.tags.Value(), ",") {
		d.Tags = core.AddTag(d.Tags, t)
	}
	return d
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.title.Blur()
	m.body.Blur()
	m.tags.Blur()
	switch f {
	case focusTitle:
		m.title.Focus()
	case focusBody:
		m.body.Focus()
	case focusTags:
		m.tags.Focus()
	}
}

// signIn runs off the event loop: switching identity lists the remote.
func (m Model) signIn(id string) tea.Cmd {
	ctx, v := m.ctx, m.view
	return func() tea.Msg {
		if id == "" {
			return doneMsg{status: "signed in as guest", err: v.SignInGuest(ctx)}
		}
		return doneMsg{status: "signed in as " + id, err: v.SignIn(ctx, id)}
	}
}

func (m Model) refresh() tea.Cmd {
	ctx, v := m.ctx, m.view
	return func() tea.Msg {
		return doneMsg{status: "refreshed", err: v.Refresh(ctx)}
	}
}

func (m Model) selectSpace(name string) tea.Cmd {
	ctx, v := m.ctx, m.view
	return func() tea.Msg {
		return doneMsg{status: "space: " + name, err: v.SelectSpace(ctx, name)}
	}
}

// nextSpace cycles All → each known space → All.
func (m Model) nextSpace() string {
	spaces := append([]string{core.AllSpaces}, m.view.Spaces()...)
	current := m.view.CurrentSpace()
	for i, s := range spaces {
		if s == current {
			return spaces[(i+1)%len(spaces)]
		}
	}
	return core.AllSpaces
}

// report keeps an offline sign-in from looking like a failure.
func (m *Model) report(err error, status string) {
	if err != nil && !reconcile.IsOffline(err) {
		m.err = err
		return
	}
	if status != "" {
		m.status = status
	}
}

func (m *Model) syncItems() {
	notes := m.view.Notes()
	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, noteItem{note: n})
	}
	m.list.SetItems(items)
	m.list.Title = "AirNote · " + m.view.CurrentSpace()
}

func (m Model) View() string {
	var b strings.Builder

	switch {
	case !m.signedIn():
		b.WriteString(titleStyle.Render("AirNote") + "\n\n")
		b.WriteString("Sign in\n\n" + m.login.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: sign in • esc: quit"))

	case m.prompting:
		b.WriteString(titleStyle.Render("New space") + "\n\n" + m.prompt.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: add • esc: cancel"))

	default:
		switch m.view.Mode() {
		case view.ModeList:
			b.WriteString(m.list.View() + "\n")
			b.WriteString(helpStyle.Render("enter: open • n: new • s: space • +: add space • r: refresh • L: sign out • q: quit"))
		case view.ModeDetail:
			n, _ := m.view.Selected()
			b.WriteString(titleStyle.Render(noteItem{note: n}.Title()) + "\n")
			b.WriteString(helpStyle.Render(noteItem{note: n}.Description()) + "\n\n")
			b.WriteString(renderBody(n.Content) + "\n\n")
			b.WriteString(helpStyle.Render("e: edit • esc: back • q: quit"))
		case view.ModeEdit, view.ModeCreate:
			heading := "New note"
			if m.view.Mode() == view.ModeEdit {
				heading = "Edit note"
			}
			b.WriteString(titleStyle.Render(heading) + " " + helpStyle.Render("in "+m.view.Draft().Space) + "\n\n")
			b.WriteString(labelStyle.Render("Title") + m.title.View() + "\n\n")
			b.WriteString(m.body.View() + "\n\n")
			b.WriteString(labelStyle.Render("Tags") + m.tags.View() + "\n\n")
			b.WriteString(helpStyle.Render("tab: next field • ctrl+s: save • esc: cancel"))
		}
	}

	b.WriteString("\n\n" + statusBadge(m.view.Status()))
	if m.status != "" {
		b.WriteString("  " + helpStyle.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()))
	}
	return frameStyle.Render(b.String())
}
