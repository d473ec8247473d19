package tui

import (
	"fmt"
	"math"
)

// formatHours renders fractional hours as "7h25m", or "45m" under an hour
func formatHours(hours float64) string {
	totalMinutes := int(math.Round(hours * 60))
	h := totalMinutes / 60
	m := totalMinutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
