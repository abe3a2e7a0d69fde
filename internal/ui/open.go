package ui

import (
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
)

// openLinkCmd hands a URL to the system opener without blocking the
// event loop. The outcome comes back as a LinkOpened message.
func openLinkCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return LinkOpened{URL: url, Err: openBrowser(url)}
	}
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
