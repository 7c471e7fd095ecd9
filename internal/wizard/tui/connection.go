package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/polyflowrobotics/robot-console/internal/console"
	"github.com/polyflowrobotics/robot-console/internal/status"
)

// Section is a page reachable from the sidebar
type Section string

const (
	SectionConnection Section = "Connection"
	SectionLogs       Section = "Logs"
)

// sections in sidebar order
var sections = []Section{SectionConnection, SectionLogs}

// Focusable elements of the connection form, in tab order
const (
	focusSSID = iota
	focusPassword
	focusSave
	focusCount
)

// Messages for async operations
type mountedMsg struct{}

type saveResultMsg struct {
	status status.SaveStatus
}

// connectionKeyMap defines key bindings for the connection page
type connectionKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Save    key.Binding
	Clear   key.Binding
	Reload  key.Binding
	Sidebar key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k connectionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Save, k.Sidebar, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k connectionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Save},
		{k.Clear, k.Reload, k.Sidebar, k.Quit},
	}
}

// sidebarKeyMap defines key bindings while the sidebar overlay is open
type sidebarKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Close key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k sidebarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Close}
}

// FullHelp returns keybindings for the expanded help view
func (k sidebarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Enter, k.Close}}
}

func newConnectionKeys() connectionKeyMap {
	return connectionKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s/enter", "save"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "forget network"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func newSidebarKeys() sidebarKeyMap {
	return sidebarKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "ctrl+o"),
			key.WithHelp("esc", "close menu"),
		),
	}
}

// ConnectionModel is the connection settings page: sidebar, WiFi form,
// Bluetooth placeholder, status card and save button.
type ConnectionModel struct {
	Page   *console.Page
	Target string // robot shown in the header

	Section    Section
	NavCursor  int
	Inputs     []textinput.Model
	Focus      int
	Submitting bool

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    connectionKeyMap
	NavKeys sidebarKeyMap
}

// NewConnectionModel creates the page model for page
func NewConnectionModel(page *console.Page, target string) ConnectionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ssid := textinput.New()
	ssid.Placeholder = "Network name"
	ssid.CharLimit = 32
	ssid.Width = InputWidth
	ssid.Prompt = ""
	ssid.Focus()

	password := textinput.New()
	password.Placeholder = "Optional"
	password.CharLimit = 63
	password.Width = InputWidth
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return ConnectionModel{
		Page:    page,
		Target:  target,
		Section: SectionConnection,
		Inputs:  []textinput.Model{ssid, password},
		Focus:   focusSSID,
		Spinner: s,
		Help:    help.New(),
		Keys:    newConnectionKeys(),
		NavKeys: newSidebarKeys(),
	}
}

// Init reads the robot's current configuration
func (m ConnectionModel) Init() tea.Cmd {
	return tea.Batch(mountCmd(m.Page), textinput.Blink)
}

// Update handles messages and updates the model
func (m ConnectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case mountedMsg:
		m.syncInputsFromForm()
		return m, nil

	case saveResultMsg:
		m.Submitting = false
		if msg.status.State == status.StateSuccess {
			m.syncInputsFromForm()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.saving() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Page.Form().SidebarOpen {
			return m.updateSidebar(msg)
		}
		return m.updateForm(msg)
	}

	return m.updateInputs(msg)
}

// updateSidebar handles keys while the sidebar overlay is open
func (m ConnectionModel) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.NavKeys.Close):
		m.Page.Update(func(f *console.FormState) { f.CloseSidebar() })
	case key.Matches(msg, m.NavKeys.Up):
		if m.NavCursor > 0 {
			m.NavCursor--
		}
	case key.Matches(msg, m.NavKeys.Down):
		if m.NavCursor < len(sections)-1 {
			m.NavCursor++
		}
	case key.Matches(msg, m.NavKeys.Enter):
		m.Section = sections[m.NavCursor]
		m.Page.Update(func(f *console.FormState) { f.CloseSidebar() })
	}
	return m, nil
}

// updateForm handles keys on the page itself
func (m ConnectionModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Sidebar):
		m.NavCursor = sectionIndex(m.Section)
		m.Page.Update(func(f *console.FormState) { f.OpenSidebar() })
		return m, nil

	case key.Matches(msg, m.Keys.Save):
		return m.save()

	case key.Matches(msg, m.Keys.Clear):
		return m.clear()

	case key.Matches(msg, m.Keys.Reload):
		if m.saving() {
			return m, nil
		}
		return m, mountCmd(m.Page)
	}

	if m.Section != SectionConnection {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Next):
		m.setFocus((m.Focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.Keys.Prev):
		m.setFocus((m.Focus + focusCount - 1) % focusCount)
		return m, nil
	case msg.Type == tea.KeyEnter:
		if m.Focus == focusSave {
			return m.save()
		}
		m.setFocus(m.Focus + 1)
		return m, nil
	}

	// Typing over a masked stored password replaces it
	if m.Focus == focusPassword && m.Page.Form().PasswordMasked() &&
		(msg.Type == tea.KeyRunes || msg.Type == tea.KeyBackspace) {
		m.Inputs[focusPassword].SetValue("")
		if msg.Type == tea.KeyBackspace {
			m.syncFormFromInputs()
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

// updateInputs forwards msg to the focused input and mirrors the result
// into the page form
func (m ConnectionModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.Focus >= len(m.Inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.Inputs[m.Focus], cmd = m.Inputs[m.Focus].Update(msg)
	m.syncFormFromInputs()
	return m, cmd
}

// save starts a save unless one is already in flight
func (m ConnectionModel) save() (tea.Model, tea.Cmd) {
	if m.saving() {
		return m, nil
	}
	m.syncFormFromInputs()
	m.Submitting = true
	return m, tea.Batch(saveCmd(m.Page), m.Spinner.Tick)
}

// clear asks the robot to forget its network
func (m ConnectionModel) clear() (tea.Model, tea.Cmd) {
	if m.saving() {
		return m, nil
	}
	m.Submitting = true
	return m, tea.Batch(clearCmd(m.Page), m.Spinner.Tick)
}

func (m ConnectionModel) saving() bool {
	return m.Submitting || m.Page.SaveDisabled()
}

func (m *ConnectionModel) setFocus(i int) {
	m.Focus = i
	for j := range m.Inputs {
		if j == i {
			m.Inputs[j].Focus()
		} else {
			m.Inputs[j].Blur()
		}
	}
}

func (m *ConnectionModel) syncInputsFromForm() {
	form := m.Page.Form()
	m.Inputs[focusSSID].SetValue(form.SSID)
	m.Inputs[focusPassword].SetValue(form.Password)
}

func (m *ConnectionModel) syncFormFromInputs() {
	ssid := m.Inputs[focusSSID].Value()
	password := m.Inputs[focusPassword].Value()
	m.Page.Update(func(f *console.FormState) {
		f.SSID = ssid
		f.Password = password
	})
}

// View renders the connection page
func (m ConnectionModel) View() string {
	snap := m.Page.Snapshot()

	var content string
	switch m.Section {
	case SectionLogs:
		content = m.renderLogs()
	default:
		content = m.renderConnection(snap)
	}

	var helpText string
	if snap.Form.SidebarOpen {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
		helpText = m.Help.View(m.NavKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Target, m.Width, m.Height)
}

// renderSidebar renders branding and navigation
func (m ConnectionModel) renderSidebar() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Render("◆ " + BrandTitle))
	b.WriteString("\n\n")
	b.WriteString(RenderSubtitle("Pages"))
	b.WriteString("\n")
	for i, s := range sections {
		b.WriteString(RenderMenuItem(string(s), i == m.NavCursor))
		b.WriteString("\n")
	}

	return SidebarStyle.Render(b.String())
}

// renderConnection renders the WiFi form, Bluetooth placeholder and footer
func (m ConnectionModel) renderConnection(snap console.Snapshot) string {
	var b strings.Builder

	b.WriteString(RenderTitle("Connection Settings"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Connect to Wifi and Bluetooth devices"))
	b.WriteString("\n")

	b.WriteString(GroupHeaderStyle.Render("Wifi Settings"))
	b.WriteString("\n")
	b.WriteString(m.renderField("SSID", focusSSID))
	b.WriteString("\n")
	b.WriteString(m.renderField("Password", focusPassword))
	b.WriteString("\n")

	b.WriteString(GroupHeaderStyle.Render("Bluetooth Settings"))
	b.WriteString("\n")
	b.WriteString(CardStyle.Render("Coming Soon"))
	b.WriteString("\n\n")

	if msg := snap.Status.Message; msg != "" {
		if snap.Status.IsError() {
			b.WriteString(RenderError(msg))
		} else {
			b.WriteString(RenderSuccess(msg))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderSaveButton(snap))
	b.WriteString("\n")

	return b.String()
}

func (m ConnectionModel) renderField(label string, idx int) string {
	style := BlurredInputStyle
	marker := "  "
	if m.Focus == idx {
		style = FocusedInputStyle
		marker = "→ "
	}
	return style.Render(marker) + LabelStyle.Render(label) + m.Inputs[idx].View()
}

func (m ConnectionModel) renderSaveButton(snap console.Snapshot) string {
	if m.saving() {
		return m.Spinner.View() + " " + DisabledButtonStyle.Render(console.LabelSaving)
	}
	if m.Focus == focusSave {
		return FocusedButtonStyle.Render(snap.SaveLabel)
	}
	return ButtonStyle.Render(snap.SaveLabel)
}

// renderLogs renders recent save transitions
func (m ConnectionModel) renderLogs() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Logs"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Recent configuration changes"))
	b.WriteString("\n\n")

	events := m.Page.History()
	if len(events) == 0 {
		b.WriteString("  No configuration changes yet.\n")
		return b.String()
	}
	for _, e := range events {
		line := fmt.Sprintf("  %s  %-8s %s", e.Time.Format("15:04:05"), e.State, e.Message)
		if e.State == status.StateError {
			line = lipgloss.NewStyle().Foreground(ErrorColor).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func sectionIndex(s Section) int {
	for i, sec := range sections {
		if sec == s {
			return i
		}
	}
	return 0
}

// mountCmd seeds the page from the robot API
func mountCmd(page *console.Page) tea.Cmd {
	return func() tea.Msg {
		page.Mount(context.Background())
		return mountedMsg{}
	}
}

// saveCmd submits the page form
func saveCmd(page *console.Page) tea.Cmd {
	return func() tea.Msg {
		return saveResultMsg{status: page.Save(context.Background())}
	}
}

// clearCmd runs the clear flow
func clearCmd(page *console.Page) tea.Cmd {
	return func() tea.Msg {
		return saveResultMsg{status: page.Clear(context.Background())}
	}
}
