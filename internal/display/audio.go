package display

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Notifier announces a newly called ticket on the waiting-room speakers.
// Implementations are best effort; the display loop never depends on the
// outcome.
type Notifier interface {
	Announce(ticketNumber int) error
}

// ExecNotifier shells out to whatever audio tooling the host platform has:
// a chime followed by a spoken ticket number. Missing binaries just fail the
// call, which the caller logs and drops.
type ExecNotifier struct{}

func (ExecNotifier) Announce(ticketNumber int) error {
	switch runtime.GOOS {
	case "darwin":
		if err := exec.Command("afplay", "/System/Library/Sounds/Glass.aiff").Run(); err != nil {
			return err
		}
		return exec.Command("say", fmt.Sprintf("Ticket number %d", ticketNumber)).Run()
	default:
		// chime is optional; the spoken number alone is acceptable
		_ = exec.Command("paplay", "/usr/share/sounds/freedesktop/stereo/bell.oga").Run()
		return exec.Command("espeak", fmt.Sprintf("Ticket number %d", ticketNumber)).Run()
	}
}

// NopNotifier discards announcements. Used in tests and headless deployments.
type NopNotifier struct{}

func (NopNotifier) Announce(int) error { return nil }
