package chatcmder

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/namematch/pkg/cliui"
	"github.com/papercomputeco/namematch/pkg/matcher"
	"github.com/papercomputeco/namematch/pkg/utils"
)

type focusArea int

const (
	focusChat focusArea = iota
	focusCollection
)

const (
	// maxNotices is how many of the latest notices stay on screen.
	maxNotices = 4

	// reservedRows is the height of everything but the transcript.
	reservedRows = 14 + maxNotices
)

var (
	chatTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	chatMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	chatSectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	chatRoleUserStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
	chatRoleAsstStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	chatFocusedBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("214")).Padding(0, 1)
	chatBlurredBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("237")).Padding(0, 1)
)

type chatKeyMap struct {
	Send     key.Binding
	Switch   key.Binding
	Create   key.Binding
	Delete   key.Binding
	Clear    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Switch, k.Create, k.Delete, k.Clear, k.Quit}
}

func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Send, k.Switch, k.PageUp, k.PageDown}, {k.Create, k.Delete, k.Clear, k.Quit}}
}

func defaultKeyMap() chatKeyMap {
	return chatKeyMap{
		Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch input")),
		Create:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create/get collection")),
		Delete:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "delete collection")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// collectionDoneMsg reports the end of an open, create or delete action.
type collectionDoneMsg struct {
	notices []matcher.Notice
}

type searchDoneMsg struct {
	reply   string
	notices []matcher.Notice
}

// collectionAction is a session method acting on a named collection.
type collectionAction func(s *session, ctx context.Context, name string) []matcher.Notice

type chatModel struct {
	ctx  context.Context
	sess *session

	collectionInput textinput.Model
	chatInput       textinput.Model
	transcript      viewport.Model
	help            help.Model
	keys            chatKeyMap
	focus           focusArea

	// busy is set while an action runs; new actions are refused until it ends.
	busy    bool
	active  string
	notices []matcher.Notice

	width  int
	height int

	// render turns assistant markdown into terminal output. Optional.
	render func(string) (string, error)
}

func newChatModel(ctx context.Context, sess *session, collection string, render func(string) (string, error)) chatModel {
	collectionInput := textinput.New()
	collectionInput.Prompt = "Collection: "
	collectionInput.Placeholder = "my_names"
	collectionInput.CharLimit = 128
	collectionInput.SetValue(collection)

	chatInput := textinput.New()
	chatInput.Prompt = "> "
	chatInput.Placeholder = "Enter a name or phrase to search for..."
	chatInput.Focus()

	m := chatModel{
		ctx:             ctx,
		sess:            sess,
		collectionInput: collectionInput,
		chatInput:       chatInput,
		transcript:      viewport.New(80, 10),
		help:            help.New(),
		keys:            defaultKeyMap(),
		focus:           focusChat,
		busy:            true,
		render:          render,
	}
	m.refreshTranscript()
	return m
}

// Init opens the collection named in the collection input.
func (m chatModel) Init() bubbletea.Cmd {
	name := strings.TrimSpace(m.collectionInput.Value())
	return bubbletea.Batch(
		textinput.Blink,
		runCollectionAction(m.ctx, (*session).open, m.sess, name),
	)
}

func runCollectionAction(ctx context.Context, act collectionAction, s *session, name string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		return collectionDoneMsg{notices: act(s, ctx, name)}
	}
}

func runSearch(ctx context.Context, s *session, query string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		reply, notices := s.search(ctx, query)
		return searchDoneMsg{reply: reply, notices: notices}
	}
}

func (m chatModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case collectionDoneMsg:
		m.busy = false
		m.active = m.sess.collection()
		m.setNotices(msg.notices)
		return m, nil
	case searchDoneMsg:
		m.busy = false
		m.setNotices(msg.notices)
		m.sess.appendMessage(roleAssistant, msg.reply)
		m.refreshTranscript()
		return m, nil
	case bubbletea.MouseMsg:
		var cmd bubbletea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m chatModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, m.keys.Switch):
		return m.toggleFocus()
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd bubbletea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		m.sess.clearHistory()
		m.refreshTranscript()
		return m, nil
	case key.Matches(msg, m.keys.Create):
		return m.startCollectionAction((*session).createCollection)
	case key.Matches(msg, m.keys.Delete):
		return m.startCollectionAction((*session).deleteCollection)
	case key.Matches(msg, m.keys.Send):
		if m.focus == focusChat {
			return m.submitQuery()
		}
		return m, nil
	}

	var cmd bubbletea.Cmd
	if m.focus == focusChat {
		m.chatInput, cmd = m.chatInput.Update(msg)
	} else {
		m.collectionInput, cmd = m.collectionInput.Update(msg)
	}
	return m, cmd
}

func (m chatModel) toggleFocus() (bubbletea.Model, bubbletea.Cmd) {
	if m.focus == focusChat {
		m.focus = focusCollection
		m.chatInput.Blur()
		return m, m.collectionInput.Focus()
	}

	m.focus = focusChat
	m.collectionInput.Blur()
	return m, m.chatInput.Focus()
}

func (m chatModel) startCollectionAction(act collectionAction) (bubbletea.Model, bubbletea.Cmd) {
	if m.busy {
		return m, nil
	}

	name := strings.TrimSpace(m.collectionInput.Value())
	if name == "" {
		m.setNotices([]matcher.Notice{{Level: matcher.LevelWarn, Message: "Enter a collection name first."}})
		return m, nil
	}

	m.busy = true
	return m, runCollectionAction(m.ctx, act, m.sess, name)
}

func (m chatModel) submitQuery() (bubbletea.Model, bubbletea.Cmd) {
	query := m.chatInput.Value()
	if m.busy || strings.TrimSpace(query) == "" {
		return m, nil
	}

	m.chatInput.Reset()
	m.sess.appendMessage(roleUser, query)
	m.refreshTranscript()

	m.busy = true
	return m, runSearch(m.ctx, m.sess, query)
}

func (m *chatModel) setNotices(notices []matcher.Notice) {
	if len(notices) > maxNotices {
		notices = notices[len(notices)-maxNotices:]
	}
	m.notices = notices
}

func (m *chatModel) resize() {
	width := max(m.width, 20)
	m.transcript.Width = width
	m.transcript.Height = max(m.height-reservedRows, 3)
	m.collectionInput.Width = width - 20
	m.chatInput.Width = width - 8
	m.help.Width = width
	m.refreshTranscript()
}

func (m *chatModel) refreshTranscript() {
	m.transcript.SetContent(m.renderTranscript())
	m.transcript.GotoBottom()
}

func (m chatModel) renderTranscript() string {
	if len(m.sess.history) == 0 {
		return chatMutedStyle.Render("No messages yet. Search for a name below.")
	}

	var b strings.Builder
	for _, msg := range m.sess.history {
		if msg.Role == roleUser {
			b.WriteString(chatRoleUserStyle.Render("you"))
			b.WriteString("\n")
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
			continue
		}

		b.WriteString(chatRoleAsstStyle.Render("assistant"))
		b.WriteString("\n")
		b.WriteString(m.renderMarkdown(msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}

func (m chatModel) renderMarkdown(content string) string {
	if m.render == nil {
		return content
	}

	out, err := m.render(content)
	if err != nil {
		return content
	}
	return out
}

func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(chatTitleStyle.Render("Name Matcher & Chat"))
	b.WriteString("\n")
	b.WriteString(chatMutedStyle.Render("Find similar names using AI embeddings and manage your vector database."))
	b.WriteString("\n\n")

	b.WriteString(chatSectionStyle.Render("Collection Management"))
	b.WriteString("  ")
	b.WriteString(m.activeLabel())
	b.WriteString("\n")
	b.WriteString(m.box(focusCollection).Render(m.collectionInput.View()))
	b.WriteString("\n")
	for _, n := range m.notices {
		b.WriteString(m.renderNotice(n))
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString(chatMutedStyle.Render("  working..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(chatSectionStyle.Render("Name Search"))
	b.WriteString("\n")
	b.WriteString(m.transcript.View())
	b.WriteString("\n")
	b.WriteString(m.box(focusChat).Render(m.chatInput.View()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m chatModel) activeLabel() string {
	if m.active == "" {
		return chatMutedStyle.Render("no active collection")
	}
	return chatMutedStyle.Render("active: ") + m.active
}

func (m chatModel) box(area focusArea) lipgloss.Style {
	if m.focus == area {
		return chatFocusedBox
	}
	return chatBlurredBox
}

func (m chatModel) renderNotice(n matcher.Notice) string {
	mark := cliui.InfoMark
	switch n.Level {
	case matcher.LevelSuccess:
		mark = cliui.SuccessMark
	case matcher.LevelWarn:
		mark = cliui.WarnMark
	case matcher.LevelError:
		mark = cliui.FailMark
	}

	msg := n.Message
	if m.width > 10 {
		msg = utils.Truncate(msg, m.width-10)
	}
	return "  " + mark + " " + msg
}
