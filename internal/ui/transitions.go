package ui

import (
	"strings"

	"github.com/polyflowrobotics/robot-console/internal/status"
)

// RenderTransition renders one save status change as a marked line,
// e.g. "  ● saving" or "  ✗ error  SSID is required".
func RenderTransition(st status.SaveStatus) string {
	var marker, name string
	switch st.State {
	case status.StateSaving:
		marker = StepRunningStyle.Render(StepMarkerRunning)
		name = StepRunningStyle.Render(st.State.String())
	case status.StateSuccess:
		marker = StepCompleteStyle.Render(StepMarkerComplete)
		name = StepCompleteStyle.Render(st.State.String())
	case status.StateError:
		marker = ErrorTitleStyle.Render(FailureMarker)
		name = ErrorTitleStyle.Render(st.State.String())
	default:
		marker = StepPendingStyle.Render(StepMarkerPending)
		name = StepPendingStyle.Render(st.State.String())
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(marker)
	b.WriteString(" ")
	b.WriteString(name)
	if st.Message != "" {
		b.WriteString("  ")
		b.WriteString(st.Message)
	}
	return b.String()
}

// TransitionPrinter returns a status listener that prints each transition
func (p *Printer) TransitionPrinter() status.Listener {
	return func(st status.SaveStatus) {
		p.Println(RenderTransition(st))
	}
}
