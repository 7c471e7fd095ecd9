package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm prints a warning box and asks the operator to type answer.
// It returns true only when the typed line matches answer exactly.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string, answer string) bool {
	lines := []string{
		"",
		lipgloss.NewStyle().Foreground(WarningColor).Bold(true).
			Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)),
		"",
	}
	bullet := lipgloss.NewStyle().Foreground(TextColor)
	for _, w := range warnings {
		lines = append(lines, bullet.Render("   • "+w))
	}
	lines = append(lines, "")

	p.Println(resultBoxStyle(p.width, WarningColor).Render(strings.Join(lines, "\n")))
	p.Newline()

	prompt := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	p.Print(prompt.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", answer)))

	input, err := bufio.NewReader(in).ReadString('\n')
	p.Newline()
	if err != nil && input == "" {
		return false
	}

	if strings.TrimSpace(input) == answer {
		return true
	}

	p.Println(lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	p.Newline()
	return false
}

// ConfirmClear asks before making the robot forget its WiFi network
func (p *Printer) ConfirmClear(in io.Reader, ssid string) bool {
	network := "its saved network"
	if ssid != "" {
		network = fmt.Sprintf("%q", ssid)
	}
	return p.Confirm(in, "FORGET WIFI NETWORK", []string{
		"The robot will forget " + network + " and return to hotspot mode",
		"You will lose this connection if you reach the robot over that network",
		"Rejoin the robot's hotspot to configure it again",
	}, "yes")
}
