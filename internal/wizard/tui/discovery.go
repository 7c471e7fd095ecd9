package tui

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/polyflowrobotics/robot-console/internal/discovery"
)

// ScanFunc finds robots on the network
type ScanFunc func(ctx context.Context) ([]*discovery.Robot, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	robots []*discovery.Robot
	err    error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual address entry
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// scanningKeyMap defines key bindings while a scan runs
type scanningKeyMap struct {
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Manual, s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{s.Manual, s.Quit}}
}

// robotItem wraps a Robot for use with bubbles/list
type robotItem struct {
	robot *discovery.Robot
}

// FilterValue filters by ID, IP or hostname
func (r robotItem) FilterValue() string {
	return r.robot.ID + " " + r.robot.IP + " " + r.robot.Hostname
}

// Title returns the robot name for list display
func (r robotItem) Title() string {
	return robotName(r.robot)
}

// Description returns robot details for list display
func (r robotItem) Description() string {
	return fmt.Sprintf("%s:%d", r.robot.IP, r.robot.Port)
}

func robotName(r *discovery.Robot) string {
	if r.ID == manualRobotID {
		return "Manual: " + r.IP
	}
	return "Robot " + r.ID
}

const manualRobotID = "manual"

// robotDelegate renders robots as cards
type robotDelegate struct {
	width int
}

func (d robotDelegate) Height() int { return 6 }

func (d robotDelegate) Spacing() int { return 1 }

func (d robotDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d robotDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(robotItem)
	if !ok {
		return
	}
	robot := ri.robot
	selected := index == m.Index()

	var content strings.Builder
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + robotName(robot)))
	} else {
		content.WriteString("  " + robotName(robot))
	}
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("  Host: %s\n", robot.Hostname))
	content.WriteString(fmt.Sprintf("  API:  %s", robot.APIURL()))

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 2).
		MarginLeft(2).
		Width(cardWidth)
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// DiscoveryModel is the robot discovery screen
type DiscoveryModel struct {
	Scan ScanFunc

	Scanning  bool
	RobotList list.Model
	Selected  bool
	Err       error

	ManualMode bool
	ManualErr  string
	AddrInput  textinput.Model

	Width         int
	Height        int
	ScanTimeout   time.Duration
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
	ScanningKeys  scanningKeyMap
}

// NewDiscoveryModel creates a discovery screen that scans with scan.
// A nil scan uses mDNS with the default timeout.
func NewDiscoveryModel(scan ScanFunc) DiscoveryModel {
	if scan == nil {
		scan = func(ctx context.Context) ([]*discovery.Robot, error) {
			return discovery.ScanForRobots(ctx, discovery.DefaultScanTimeout)
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	addr := textinput.New()
	addr.Placeholder = "10.42.0.1"
	addr.CharLimit = 64
	addr.Width = 30

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	robotList := list.New([]list.Item{}, robotDelegate{width: MinTerminalWidth}, 0, 0)
	robotList.Title = "Discovered Robots"
	robotList.SetShowStatusBar(false)
	robotList.SetFilteringEnabled(true)
	robotList.Styles.Title = TitleStyle

	return DiscoveryModel{
		Scan:        scan,
		RobotList:   robotList,
		AddrInput:   addr,
		ScanTimeout: discovery.DefaultScanTimeout,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: discoveryKeyMap{
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
				key.WithHelp("enter", "configure"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter address"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		ScanningKeys: scanningKeyMap{
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter address"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanRobots(m.Scan),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.RobotList.SetDelegate(robotDelegate{width: msg.Width})
		m.RobotList.SetWidth(msg.Width - 4)
		m.RobotList.SetHeight(msg.Height - 10)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.robots))
		for i, r := range msg.robots {
			items[i] = robotItem{robot: r}
		}
		m.RobotList.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keys on the robot list
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.ManualErr = ""
		m.AddrInput.SetValue("")
		m.AddrInput.Focus()
		return m, textinput.Blink

	case m.Scanning:
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if m.RobotList.SelectedItem() != nil {
			m.Selected = true
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.RobotList.SetItems([]list.Item{})
		m.Err = nil
		return m, m.startScan()
	}

	var cmd tea.Cmd
	m.RobotList, cmd = m.RobotList.Update(msg)
	return m, cmd
}

// updateManualMode handles keys while an address is being typed
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.AddrInput.SetValue("")
		m.AddrInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		robot, err := parseManualAddress(m.AddrInput.Value())
		if err != nil {
			m.ManualErr = err.Error()
			return m, nil
		}
		items := append([]list.Item{robotItem{robot: robot}}, m.RobotList.Items()...)
		m.RobotList.SetItems(items)
		m.RobotList.Select(0)
		m.ManualMode = false
		m.AddrInput.SetValue("")
		m.AddrInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.AddrInput, cmd = m.AddrInput.Update(msg)
	return m, cmd
}

// parseManualAddress accepts "host" or "host:port"
func parseManualAddress(value string) (*discovery.Robot, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("address is required")
	}

	host, port := value, discovery.DefaultPort
	if h, p, err := net.SplitHostPort(value); err == nil {
		var n int
		if _, err := fmt.Sscanf(p, "%d", &n); err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("invalid port %q", p)
		}
		host, port = h, n
	}
	if host == "" {
		return nil, fmt.Errorf("address is required")
	}

	return &discovery.Robot{
		ID:           manualRobotID,
		Hostname:     host,
		IP:           host,
		Port:         port,
		DiscoveredAt: time.Now(),
	}, nil
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = m.Help.View(m.ScanningKeys)
	default:
		content = m.renderRobotResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, "", m.Width, m.Height)
}

// renderScanning renders a centered progress display for the running scan
func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	timeout := m.ScanTimeout
	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}
	fraction := float64(elapsed) / float64(timeout)
	if fraction > 1 {
		fraction = 1
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR ROBOTS"),
		"",
		SubtitleStyle.Render("Looking for robot-*.local on your network..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderRobotResults renders the robot list or troubleshooting
func (m DiscoveryModel) renderRobotResults() string {
	var b strings.Builder
	b.WriteString("\n")

	if m.Err == nil && len(m.RobotList.Items()) > 0 {
		b.WriteString(m.RobotList.View())
		return b.String()
	}

	if m.Err != nil {
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
	} else {
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  " + warningStyle.Render("⚠ No robots found on your network"))
	}
	b.WriteString("\n\n")
	b.WriteString("  Troubleshooting:\n")
	b.WriteString("    • Ensure the robot is powered on\n")
	b.WriteString("    • Join the robot's hotspot, or the network it was configured for\n")
	b.WriteString("    • Press m to enter an address (hotspot gateway is 10.42.0.1)\n")
	b.WriteString("    • Press r to rescan\n")

	return b.String()
}

// renderManualEntry renders the manual address dialog
func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString(RenderSubtitle("Enter robot address"))
	b.WriteString("\n\n")
	b.WriteString("  Address: ")
	b.WriteString(m.AddrInput.View())
	b.WriteString("\n\n")
	if m.ManualErr != "" {
		b.WriteString(RenderError(m.ManualErr))
		b.WriteString("\n")
	}

	return b.String()
}

// GetSelectedRobot returns the selected robot, if any
func (m DiscoveryModel) GetSelectedRobot() *discovery.Robot {
	if !m.Selected {
		return nil
	}
	if item, ok := m.RobotList.SelectedItem().(robotItem); ok {
		return item.robot
	}
	return nil
}

// scanRobots runs scan and reports the result
func scanRobots(scan ScanFunc) tea.Cmd {
	return func() tea.Msg {
		robots, err := scan(context.Background())
		return scanCompleteMsg{robots: robots, err: err}
	}
}
