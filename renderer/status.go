package renderer

// StatusView is what the status header shows.
type StatusView struct {
	Online     bool
	Message    string // backend message, or the failure when offline
	LastUpdate string // as reported by the backend
}

// StatusMarkdown renders the backend liveness and the last update time.
func StatusMarkdown(v StatusView) string {
	return renderTemplate("status", "status.md", v)
}
