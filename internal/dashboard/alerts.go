package dashboard

import (
	"strings"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/api"
)

// DefaultAlertDismiss is how long an alert banner stays up on its own.
const DefaultAlertDismiss = 10 * time.Second

// CriticalAlerts returns the uppercased names of the metrics reported at
// critical level, in the order the backend listed them.
func CriticalAlerts(alerts api.Alerts) []string {
	var names []string
	for _, a := range alerts {
		if a.Level == api.LevelCritical {
			names = append(names, strings.ToUpper(string(a.Metric)))
		}
	}
	return names
}

// AlertMessage formats the banner text for a list of critical metric names.
func AlertMessage(names []string) string {
	return "Critical: " + strings.Join(names, ", ") + " usage is very high!"
}

// Banner is the alert banner state. At most one banner exists; a new alert
// while it is showing replaces the message but keeps the dismiss deadline.
type Banner struct {
	Visible   bool
	Message   string
	DismissAt time.Time
}

// Show displays message until dismissAt, or replaces the message of a
// banner that is still up at now.
func (b *Banner) Show(message string, now, dismissAt time.Time) {
	if b.VisibleAt(now) {
		b.Message = message
		return
	}
	b.Visible = true
	b.Message = message
	b.DismissAt = dismissAt
}

// Dismiss hides the banner.
func (b *Banner) Dismiss() {
	b.Visible = false
}

// VisibleAt reports whether the banner is showing at now.
func (b Banner) VisibleAt(now time.Time) bool {
	return b.Visible && now.Before(b.DismissAt)
}
