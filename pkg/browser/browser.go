// Package browser opens the local shell host or an experience page in the
// system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// StartFunc starts a process without waiting for it.
type StartFunc func(name string, args ...string) error

// Launcher opens URLs for one platform.
type Launcher struct {
	GOOS  string
	Start StartFunc
}

// Default launches on the running platform.
var Default = Launcher{GOOS: runtime.GOOS, Start: startProcess}

// Open opens the specified URL in the default browser.
func Open(urlString string) error {
	return Default.Open(urlString)
}

// Open validates urlString and hands it to the platform opener.
func (l Launcher) Open(urlString string) error {
	if err := Validate(urlString); err != nil {
		return err
	}

	var name string
	var args []string
	switch l.GOOS {
	case "linux", "freebsd", "openbsd":
		name, args = "xdg-open", []string{urlString}
	case "darwin":
		name, args = "open", []string{urlString}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", urlString}
	default:
		return fmt.Errorf("unsupported platform: %s", l.GOOS)
	}

	start := l.Start
	if start == nil {
		start = startProcess
	}
	if err := start(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// Validate accepts absolute http(s) URLs without whitespace or control
// characters, so the URL can be passed to a system command as one argument.
func Validate(urlString string) error {
	if strings.ContainsFunc(urlString, func(r rune) bool { return r <= ' ' || r == 0x7f }) {
		return fmt.Errorf("invalid URL: contains whitespace or control characters")
	}
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

func startProcess(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 -- URL validated before reaching here
	return cmd.Start()
}
