package countdown

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Format renders a remaining duration as "{days}d {hours}h {minutes}m {seconds}s".
// Sub-second remainders are truncated and negative durations render as zero.
func Format(remaining time.Duration) string {
	total := int64(remaining / time.Second)
	if total < 0 {
		total = 0
	}

	days := total / secondsPerDay
	hours := (total / secondsPerHour) % 24
	minutes := (total / secondsPerMinute) % 60
	seconds := total % 60

	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}
