package hooklistener

import (
	"fmt"
	"strings"
	"time"
)

// DeployPayload is the part of the payload Netlify sends us after a deploy succeeded
type DeployPayload struct {
	ID          string    `json:"id"`
	SiteID      string    `json:"site_id"`
	State       string    `json:"state"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Branch      string    `json:"branch"`
	Context     string    `json:"context"`
	PublishedAt time.Time `json:"published_at"`
	DeployTime  int       `json:"deploy_time"`
	Summary     struct {
		Status   string `json:"status"`
		Messages []struct {
			Type        string `json:"type"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"messages"`
	} `json:"summary"`
}

// IsActionable checks if the hook is about a finished production deploy, we ignore previews and failed builds
func (p DeployPayload) IsActionable() bool {
	if p.State != "" && p.State != "ready" {
		return false
	}
	return p.Context == "" || p.Context == "production"
}

// Describe returns a human readable summary of the deploy
func (p DeployPayload) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deploy Succeeded for %s (%s)\n\n", p.Name, p.URL)
	fmt.Fprintf(&b, "Build Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Finished:    %s\n", p.PublishedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration:    %s\n", formatDuration(p.DeployTime))
	if len(p.Summary.Messages) > 0 {
		b.WriteString("\nMessages:\n")
		for _, m := range p.Summary.Messages {
			fmt.Fprintf(&b, "\n[%s] %s\n%s\n", m.Type, m.Title, m.Description)
		}
	}
	return b.String()
}

// formatDuration formats a number of seconds like "42 seconds" or "3m 5s"
func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%d seconds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
