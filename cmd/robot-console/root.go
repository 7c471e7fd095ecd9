package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/polyflowrobotics/robot-console/internal/config"
	"github.com/polyflowrobotics/robot-console/internal/console"
	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/ui"
	"github.com/polyflowrobotics/robot-console/internal/version"
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
	"github.com/polyflowrobotics/robot-console/internal/wizard/tui"
)

// cli holds state shared by every command
type cli struct {
	in         io.Reader
	v          *viper.Viper
	configPath string
	envFile    string
	settings   *config.Settings
}

// newRootCmd builds the command tree. in is read for prompts.
func newRootCmd(in io.Reader) *cobra.Command {
	c := &cli{in: in, v: viper.New()}

	var discover bool

	rootCmd := &cobra.Command{
		Use:   "robot-console",
		Short: "Polyflow Robot Console",
		Long: `Configure the WiFi connection of a Polyflow robot.

The robot starts in hotspot mode. Join its hotspot, enter the SSID and
password of the network it should use, and save: the robot switches
modes and joins that network.

If no command is specified, the terminal UI launches automatically.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.load,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd, discover)
		},
	}

	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.String("api-url", wificonfig.DefaultBaseURL, "Robot API base URL")
	pf.Duration("timeout", wificonfig.DefaultTimeout, "Robot API request timeout")
	pf.String("log-level", "", "Log level (debug, info, warn, error); silent when empty")
	pf.StringVar(&c.configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/robot-console/config.yaml)")
	pf.StringVar(&c.envFile, "env-file", "", "Environment file to load (default is .env when present)")

	rootCmd.Flags().BoolVar(&discover, "discover", false, "Start by scanning for robots instead of using --api-url")

	rootCmd.SetIn(in)
	rootCmd.AddCommand(
		newShowCmd(c),
		newSetCmd(c),
		newClearCmd(c),
		newHealthCmd(c),
		newScanCmd(c),
		newServeCmd(c),
		newConfigCmd(c),
		newVersionCmd(),
	)

	return rootCmd
}

// load resolves settings from flags, environment, .env and config file,
// then starts logging
func (c *cli) load(cmd *cobra.Command, args []string) error {
	var envFiles []string
	if c.envFile != "" {
		envFiles = append(envFiles, c.envFile)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return err
	}

	if err := config.BindFlags(c.v, cmd.Flags()); err != nil {
		return err
	}

	settings, err := config.Load(c.v, c.configPath)
	if err != nil {
		return err
	}
	c.settings = settings

	if err := logging.Initialize(settings.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Debug("Settings loaded",
		zap.String("api_url", settings.APIURL),
		zap.Duration("timeout", settings.Timeout),
		zap.String("config", c.v.ConfigFileUsed()),
	)
	return nil
}

// client returns a robot API client for the resolved settings
func (c *cli) client() *wificonfig.Client {
	return c.clientFor(c.settings.APIURL)
}

func (c *cli) clientFor(apiURL string) *wificonfig.Client {
	client := wificonfig.NewClient(apiURL)
	client.SetTimeout(c.settings.Timeout)
	return client
}

// newPage builds a connection page for apiURL
func (c *cli) newPage(apiURL string) *console.Page {
	return console.NewPage(c.clientFor(apiURL))
}

func (c *cli) printer(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout())
}

// runTUI launches the terminal UI
func (c *cli) runTUI(cmd *cobra.Command, discover bool) error {
	opts := tui.Options{
		StartScreen: tui.ScreenConnection,
		APIURL:      c.settings.APIURL,
		NewPage:     c.newPage,
	}
	if discover {
		opts.StartScreen = tui.ScreenDiscovery
	}

	logPath, err := c.tuiLogging()
	if err != nil {
		return err
	}
	if logPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Logging to %s\n", logPath)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(tui.NewAppModel(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if app, ok := final.(tui.AppModel); ok && app.Page() != nil {
		app.Page().Close()
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI error: %w", err)
	}
	return nil
}

// tuiLogging moves logging to a file while the terminal UI owns the screen.
// It returns the log file path, or "" when logging is off.
func (c *cli) tuiLogging() (string, error) {
	level := c.settings.LogLevel
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" {
		return "", nil
	}

	path, err := config.GetTUILogPath()
	if err != nil {
		return "", err
	}
	if err := logging.InitializeWithOutput(level, path); err != nil {
		return "", fmt.Errorf("failed to initialize logging: %w", err)
	}
	return path, nil
}

// commandContext bounds a one-shot command by the signal context
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version works without settings
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "robot-console %s\n", version.Full())
		},
	}
}
