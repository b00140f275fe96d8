package prompt

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DateLayout is the date format used in the system info line.
const DateLayout = "2006-01-02"

var (
	dateStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	platformStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Platform describes the machine that the prompt is rendered on.
type Platform struct {
	Now  time.Time
	Arch string
	OS   string
}

// CurrentPlatform returns the [Platform] of the running process.
func CurrentPlatform() Platform {
	return Platform{
		Now:  time.Now(),
		Arch: runtime.GOARCH,
		OS:   runtime.GOOS,
	}
}

// SystemInfo returns the plain system info line for p.
func SystemInfo(p Platform) string {
	return formatSystemInfo(p.Now.Format(DateLayout), p.Arch, p.OS)
}

// StyledSystemInfo returns the system info line for p with the date, arch
// and OS highlighted for display on a terminal.
func StyledSystemInfo(p Platform) string {
	return formatSystemInfo(
		dateStyle.Render(p.Now.Format(DateLayout)),
		platformStyle.Render(p.Arch),
		platformStyle.Render(p.OS),
	)
}

func formatSystemInfo(date, arch, goos string) string {
	return fmt.Sprintf("Today is %s, and you are running on a %s/%s system.", date, arch, goos)
}
