package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/polyflowrobotics/robot-console/internal/config"
	"github.com/polyflowrobotics/robot-console/internal/discovery"
	"github.com/polyflowrobotics/robot-console/internal/status"
	"github.com/polyflowrobotics/robot-console/internal/ui"
	"github.com/polyflowrobotics/robot-console/internal/webui"
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// recordingBackend keeps the last error so failures can be explained
type recordingBackend struct {
	status.Backend

	mu  sync.Mutex
	err error
}

func (r *recordingBackend) Submit(ctx context.Context, creds wificonfig.Credentials) error {
	return r.record(r.Backend.Submit(ctx, creds))
}

func (r *recordingBackend) Clear(ctx context.Context) error {
	return r.record(r.Backend.Clear(ctx))
}

func (r *recordingBackend) record(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return err
}

func (r *recordingBackend) lastErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// failure prints a failure box for err with troubleshooting and returns an
// error for the command
func failure(p *ui.Printer, title, message string, err error) error {
	r := ui.NewFailureResult(title, err, nil)
	r.Message = message
	if err != nil {
		r.Troubleshooting = ui.TroubleshootingLines(wificonfig.GetTroubleshootingHint(err))
	}
	p.PrintResult(r)

	if message == "" && err != nil {
		message = wificonfig.GetShortErrorMessage(err)
	}
	return errors.New(strings.ToLower(title[:1]) + title[1:] + ": " + message)
}

func newShowCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the robot's WiFi configuration",
		Long: `Display the WiFi network the robot is configured for.

The robot never returns the stored password, only whether one is set.`,
		Example: `  # Robot on the hotspot gateway (default)
  robot-console show

  # Robot on another network
  robot-console show --api-url http://robot-001.local/api

  # JSON output for scripting
  robot-console show --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			st, err := c.client().GetStatus(ctx)
			if err != nil {
				return failure(c.printer(cmd), "Could not read WiFi status", "", err)
			}

			if asJSON {
				data, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), st.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw API response")
	return cmd
}

func newSetCmd(c *cli) *cobra.Command {
	var password string
	var askPassword bool

	cmd := &cobra.Command{
		Use:   "set <ssid>",
		Short: "Save WiFi credentials on the robot",
		Long: `Send an SSID and optional password to the robot.

On success the robot leaves hotspot mode and joins the network, so this
connection will usually drop. Without a password the robot keeps any
password it already has.`,
		Example: `  # Open network, or keep the stored password
  robot-console set Office

  # With a password
  robot-console set Office --password 's3cret-pass'

  # Prompt for the password without echo
  robot-console set Office --ask-password`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if askPassword {
				pw, err := readPassword(cmd, c)
				if err != nil {
					return err
				}
				password = pw
			}

			creds := wificonfig.Credentials{SSID: args[0], Password: password}

			p := c.printer(cmd)
			passwordNote := "not sent (unchanged)"
			if creds.Password != "" {
				passwordNote = "set"
			}
			p.PrintHeader("WiFi Configuration", "robot-console set",
				ui.Param{Key: "Robot", Value: c.settings.APIURL},
				ui.Param{Key: "SSID", Value: creds.SSID},
				ui.Param{Key: "Password", Value: passwordNote},
			)

			backend := &recordingBackend{Backend: c.client()}
			ctrl := status.NewController(backend)
			ctrl.Subscribe(p.TransitionPrinter())

			ctx, cancel := commandContext(cmd)
			defer cancel()

			st := ctrl.Save(ctx, creds)
			if st.IsError() {
				return failure(p, "Save failed", st.Message, backend.lastErr())
			}

			p.PrintSuccess(st.Message, ui.Param{Key: "SSID", Value: creds.SSID})
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "WiFi password (omit to keep the stored one)")
	cmd.Flags().BoolVar(&askPassword, "ask-password", false, "Prompt for the password")
	cmd.MarkFlagsMutuallyExclusive("password", "ask-password")
	return cmd
}

// readPassword prompts for a password, without echo on a terminal
func readPassword(cmd *cobra.Command, c *cli) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "WiFi password: ")
	defer fmt.Fprintln(cmd.OutOrStdout())

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newClearCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Make the robot forget its WiFi network",
		Long: `Ask the robot to forget its configured network and return to
hotspot mode.`,
		Example: `  robot-console clear
  robot-console clear --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			client := c.client()
			p := c.printer(cmd)

			if !yes {
				current := client.FetchStatus(ctx)
				if !p.ConfirmClear(c.in, current.SSIDValue()) {
					return nil
				}
			}

			backend := &recordingBackend{Backend: client}
			ctrl := status.NewController(backend)
			ctrl.Subscribe(p.TransitionPrinter())

			st := ctrl.Clear(ctx)
			if st.IsError() {
				return failure(p, "Clear failed", st.Message, backend.lastErr())
			}
			p.PrintSuccess(st.Message)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the robot API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			client := c.client()
			start := time.Now()
			if err := client.Health(ctx); err != nil {
				return failure(c.printer(cmd), "Robot API unreachable", "", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Robot API at %s is up (%s)\n",
				client.BaseURL, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func newScanCmd(c *cli) *cobra.Command {
	var timeout time.Duration
	var id string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for robots on the network",
		Long: `Scan for robots advertising robot-<id>.local over mDNS.

Once a robot has joined your network, use its API URL with --api-url.`,
		Example: `  robot-console scan
  robot-console scan --scan-timeout 3s

  # Wait for one robot, e.g. after it switched networks
  robot-console scan --id 001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			out := cmd.OutOrStdout()

			if id != "" {
				fmt.Fprintf(out, "Waiting for robot %s (timeout: %s)...\n\n", id, timeout)
				scanner := discovery.NewScanner()
				scanner.Timeout = timeout
				r, err := scanner.WaitForRobotWithContext(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, r.String())
				fmt.Fprintf(out, "   API:  %s\n", r.APIURL())
				return nil
			}
			fmt.Fprintf(out, "Scanning for robots (timeout: %s)...\n\n", timeout)

			robots, err := discovery.ScanForRobots(ctx, timeout)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(robots) == 0 {
				fmt.Fprintln(out, "No robots found.")
				fmt.Fprintln(out, "\nTroubleshooting:")
				fmt.Fprintln(out, "  - Ensure the robot is powered on")
				fmt.Fprintln(out, "  - Join the robot's hotspot, or the network it was configured for")
				fmt.Fprintln(out, "  - Try increasing --scan-timeout")
				fmt.Fprintf(out, "  - On the hotspot, use --api-url %s\n", wificonfig.DefaultBaseURL)
				return nil
			}

			fmt.Fprintf(out, "Found %d robot(s):\n\n", len(robots))
			for i, r := range robots {
				fmt.Fprintf(out, "%d. %s\n", i+1, r.Hostname)
				fmt.Fprintf(out, "   ID:   %s\n", r.ID)
				fmt.Fprintf(out, "   API:  %s\n", r.APIURL())
				if len(r.Metadata) > 0 {
					fmt.Fprintf(out, "   Metadata: %v\n", r.Metadata)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, "Use 'robot-console --api-url <API>' to configure a robot")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "scan-timeout", discovery.DefaultScanTimeout, "How long to listen for robots")
	cmd.Flags().StringVar(&id, "id", "", "Wait for the robot with this ID (e.g. 001 or robot-001)")
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the connection page in a browser",
		Long: `Serve the connection page over HTTP and proxy /api to the robot API,
so the page and the API share one origin.`,
		Example: `  # On a laptop joined to the robot's hotspot
  robot-console serve

  # On the robot itself, next to the API
  robot-console serve --listen :80 --api-url http://127.0.0.1:8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.settings
			srv, err := webui.New(&webui.Config{
				Listen:         s.Listen,
				APIURL:         s.APIURL,
				Timeout:        s.Timeout,
				AllowedOrigins: s.AllowedOrigins,
				RobotID:        s.RobotID,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s (robot API %s)\n", s.RobotID, s.Listen, s.APIURL)
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().String("listen", config.DefaultListen, "Address to listen on")
	cmd.Flags().StringSlice("allowed-origins", nil, "Origins allowed to call /api cross-origin")
	cmd.Flags().String("robot-id", config.DefaultRobotID, "Robot name shown in the page")
	return cmd
}

func newConfigCmd(c *cli) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the console config file",
		// config commands work without a loadable config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(c.configPath, force)
			if errors.Is(err, config.ErrConfigExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (not present)\n", path)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	configCmd.AddCommand(initCmd, pathCmd)
	return configCmd
}
