package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/polyflowrobotics/robot-console/internal/console"
	"github.com/polyflowrobotics/robot-console/internal/discovery"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery  Screen = "discovery"
	ScreenConnection Screen = "connection"
)

// PageFactory builds the connection page for a robot API base URL
type PageFactory func(apiURL string) *console.Page

// Options configures the application model
type Options struct {
	// StartScreen is ScreenConnection or ScreenDiscovery
	StartScreen Screen

	// APIURL is the robot API used when starting on ScreenConnection
	APIURL string

	// NewPage builds a page for a robot API; required
	NewPage PageFactory

	// Scan overrides mDNS discovery
	Scan ScanFunc
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen  Screen
	PreviousScreen Screen

	DiscoveryModel  DiscoveryModel
	ConnectionModel ConnectionModel

	SelectedRobot *discovery.Robot

	newPage PageFactory
	scan    ScanFunc
	page    *console.Page

	Width  int
	Height int
}

// NewAppModel creates a new application model starting at opts.StartScreen
func NewAppModel(opts Options) AppModel {
	m := AppModel{
		CurrentScreen: opts.StartScreen,
		newPage:       opts.NewPage,
		scan:          opts.Scan,
	}

	switch opts.StartScreen {
	case ScreenDiscovery:
		m.DiscoveryModel = NewDiscoveryModel(opts.Scan)
	default:
		m.CurrentScreen = ScreenConnection
		m.page = opts.NewPage(opts.APIURL)
		m.ConnectionModel = NewConnectionModel(m.page, opts.APIURL)
	}

	return m
}

// Page returns the page backing the connection screen, nil on discovery
func (m AppModel) Page() *console.Page {
	return m.page
}

// Init initializes the current screen
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.Init()
	case ScreenConnection:
		return m.ConnectionModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if m.DiscoveryModel.Scan != nil {
			updated, _ := m.DiscoveryModel.Update(msg)
			m.DiscoveryModel = updated.(DiscoveryModel)
		}
		m.ConnectionModel.Width = msg.Width
		m.ConnectionModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			m.closePage()
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		// Quit only from the list, not while typing or filtering
		if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.DiscoveryModel.ManualMode &&
			!m.DiscoveryModel.RobotList.SettingFilter() {
			if keyMsg.String() == "q" || keyMsg.String() == "esc" {
				return m, tea.Quit
			}
		}

		updated, cmd := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = updated.(DiscoveryModel)

		if robot := m.DiscoveryModel.GetSelectedRobot(); robot != nil {
			m.SelectedRobot = robot
			return m.transitionTo(ScreenConnection)
		}
		return m, cmd

	case ScreenConnection:
		// esc on the bare page returns to discovery when we came from it
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" &&
			m.PreviousScreen == ScreenDiscovery && !m.page.Form().SidebarOpen {
			return m.transitionTo(ScreenDiscovery)
		}

		updated, cmd := m.ConnectionModel.Update(msg)
		m.ConnectionModel = updated.(ConnectionModel)
		return m, cmd
	}

	return m, nil
}

// transitionTo switches screens, building the target screen's model
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	switch screen {
	case ScreenDiscovery:
		m.closePage()
		m.SelectedRobot = nil
		m.DiscoveryModel = NewDiscoveryModel(m.scan)
		m.DiscoveryModel.Width = m.Width
		m.DiscoveryModel.Height = m.Height
		return m, m.DiscoveryModel.Init()

	case ScreenConnection:
		m.closePage()
		m.page = m.newPage(m.SelectedRobot.APIURL())
		m.ConnectionModel = NewConnectionModel(m.page, m.SelectedRobot.String())
		m.ConnectionModel.Width = m.Width
		m.ConnectionModel.Height = m.Height
		return m, m.ConnectionModel.Init()
	}

	return m, nil
}

// closePage releases the current page so late responses are dropped
func (m *AppModel) closePage() {
	if m.page != nil {
		m.page.Close()
		m.page = nil
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.DiscoveryModel.View()
	case ScreenConnection:
		return m.ConnectionModel.View()
	default:
		return "Unknown screen"
	}
}
