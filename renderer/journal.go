package renderer

import "github.com/etnz/pulse"

// JournalMarkdown renders the refresh narration, oldest entry first.
func JournalMarkdown(entries []pulse.LogEntry) string {
	return renderTemplate("journal", "journal.md", entries)
}
