// Package browser opens article links in the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open launches the default browser at rawURL. Only http and https links
// are accepted; anything else in an article link is treated as hostile.
func Open(rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}
	name, args := command(runtime.GOOS, rawURL)
	return exec.Command(name, args...).Start()
}

func validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid article link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open link with scheme %q", u.Scheme)
	}
	return nil
}

func command(goos, rawURL string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		// rundll32 avoids cmd /c start shell interpretation
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}
