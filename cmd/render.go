package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Retsomm/Elon-Musk-Web-sub000/internal/news"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Adaptive colors for dark/light terminals
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	timeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	staleStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorAccent)
)

// renderCache formats the envelope as a numbered headline list. When stale
// is true the header marks the content as cached.
func renderCache(c news.Cache, stale bool) string {
	var b strings.Builder

	header := fmt.Sprintf("Musk News · %d 則", c.TotalCount)
	if stale {
		header += staleStyle.Render("  (快取 " + c.Date + ")")
	} else if c.NewCount > 0 {
		header += sourceStyle.Render(fmt.Sprintf("  (+%d 新)", c.NewCount))
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, a := range c.Articles {
		b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, titleStyle.Render(a.Title)))
		meta := sourceStyle.Render(a.Source)
		if age := formatAge(a.PublishedAt()); age != "" {
			meta += timeStyle.Render(" · " + age)
		}
		b.WriteString("    " + meta + "\n")
		if a.Link != "" {
			b.WriteString("    " + timeStyle.Render(a.Link) + "\n")
		}
	}
	return b.String()
}

func renderNotice(msg string) string {
	return noticeStyle.Render(msg)
}

// formatAge renders how long ago t was, empty for unknown times.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < 0:
		return "剛剛"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
