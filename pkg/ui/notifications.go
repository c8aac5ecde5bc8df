package ui

import (
	"fmt"
	"os/exec"
	"runtime"

	"listingscraper/pkg/models"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// Notifier sends a desktop notification when a run ends
type Notifier struct {
	sender NotificationSender
}

// NewNotifier picks the sender for the current platform. Platforms without
// one get a Notifier that does nothing.
func NewNotifier() *Notifier {
	switch runtime.GOOS {
	case "linux":
		return &Notifier{sender: &LinuxNotificationSender{}}
	case "darwin":
		return &Notifier{sender: &MacOSNotificationSender{}}
	default:
		return &Notifier{}
	}
}

// NewNotifierWithSender is used by tests and callers with their own sender
func NewNotifierWithSender(s NotificationSender) *Notifier {
	return &Notifier{sender: s}
}

// NotifyRun announces a finished run. Send errors are returned so the
// caller can log them; they never affect the run.
func (n *Notifier) NotifyRun(summary models.RunSummary) error {
	if n.sender == nil {
		return nil
	}
	title := "Listing photos downloaded"
	if summary.Cancelled || summary.Failed > 0 {
		title = "Listing download incomplete"
	}
	return n.sender.Send(title, fmt.Sprintf("%s\n%s", summary.Address, SummaryLine(summary, false)))
}
