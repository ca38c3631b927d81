package notify

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// AppName is the title desktop toasts are attributed to.
const AppName = "XFactor"

type Notifier struct {
	enabled bool
	goos    string
	wsl     bool
	run     func(name string, args ...string) error
	log     zerolog.Logger
}

// New returns a notifier. When enabled is false, or the platform has no
// notification helper, messages only reach the log.
func New(enabled bool, log zerolog.Logger) *Notifier {
	n := &Notifier{
		goos: runtime.GOOS,
		wsl:  isWSL("/proc/version"),
		run:  runCommand,
		log:  log,
	}
	n.enabled = enabled && n.supported()
	return n
}

func (n *Notifier) Enabled() bool {
	return n.enabled
}

func (n *Notifier) NotifyBackendStarted(status string) {
	n.Show("Trading Backend", status)
}

func (n *Notifier) NotifyBackendStopped() {
	n.Show("Trading Backend", "Backend stopped and cleaned up")
}

func (n *Notifier) NotifyBackendUp(addr string) {
	n.Show("Trading Backend Online", fmt.Sprintf("Backend is answering on %s", addr))
}

func (n *Notifier) NotifyBackendDown(addr string) {
	n.Show("Trading Backend Offline", fmt.Sprintf("Backend stopped answering on %s", addr))
}

func (n *Notifier) NotifyKillSwitch() {
	n.Show("Kill Switch Activated", "All backend processes were terminated")
}

// Show logs the message and, when enabled, raises a desktop notification.
// Delivery failures are logged, never returned.
func (n *Notifier) Show(title, body string) {
	n.log.Info().Str("title", title).Msg(body)
	if !n.enabled {
		return
	}

	name, args := n.command(title, body)
	if name == "" {
		return
	}
	if err := n.run(name, args...); err != nil {
		n.log.Debug().Err(err).Str("helper", name).Msg("desktop notification failed")
	}
}

func (n *Notifier) command(title, body string) (string, []string) {
	switch n.goos {
	case "darwin":
		script := "display notification " + appleScriptQuote(body) + " with title " + appleScriptQuote(title)
		return "osascript", []string{"-e", script}
	case "linux":
		if n.wsl {
			return "powershell.exe", []string{"-NoProfile", "-Command", toastScript(title, body)}
		}
		return "notify-send", []string{"--app-name", AppName, title, body}
	case "windows":
		return "powershell", []string{"-NoProfile", "-Command", toastScript(title, body)}
	}
	return "", nil
}

func (n *Notifier) supported() bool {
	switch n.goos {
	case "darwin", "windows":
		return true
	case "linux":
		if n.wsl {
			return true
		}
		_, err := exec.LookPath("notify-send")
		return err == nil
	}
	return false
}

// appleScriptQuote makes s an AppleScript string literal. Only backslash and
// double quote are special there; anything else passes through as typed.
func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func toastScript(title, body string) string {
	return fmt.Sprintf(`
[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null

$template = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@

$xml = New-Object Windows.Data.Xml.Dom.XmlDocument
$xml.LoadXml($template)
$toast = New-Object Windows.UI.Notifications.ToastNotification $xml
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("%s").Show($toast)
`, xmlEscape(title), xmlEscape(body), AppName)
}

var xmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}

// isWSL reports whether the kernel version file at path names a Microsoft
// kernel, in which case toasts go through the Windows host.
func isWSL(path string) bool {
	if runtime.GOOS != "linux" || path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}
