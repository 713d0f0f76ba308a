package notify

import (
	"strings"
	"time"

	"github.com/matheus3301/mandap/internal/store"
)

// RenderMessage builds the invitation text for event, signed by the mandap.
func RenderMessage(event store.ScheduledEvent, groupName string) string {
	var sb strings.Builder
	sb.WriteString("Namaskaram!\n\n")
	sb.WriteString("You are warmly invited to ")
	sb.WriteString(event.Title)
	sb.WriteString(" on ")
	sb.WriteString(formatDate(event.Date))
	sb.WriteString(".\n")
	if d := strings.TrimSpace(event.Description); d != "" {
		sb.WriteString("\n")
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	sb.WriteString("\n- ")
	sb.WriteString(groupName)
	return sb.String()
}

func formatDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Mon, 2 Jan 2006")
}
