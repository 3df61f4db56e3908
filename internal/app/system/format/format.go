// internal/app/system/format/format.go
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// UnknownDate is rendered when a row has no timestamp.
const UnknownDate = "Date inconnue"

// Count abbreviates a count for KPI tiles and post metrics:
// 999 -> "999", 1000 -> "1.0K", 1500000 -> "1.5M".
func Count(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// CountPtr formats a nullable count, rendering nil as "0".
func CountPtr(n *int64) string {
	if n == nil {
		return "0"
	}
	return Count(*n)
}

// Relative formats t relative to now for activity feeds:
// "Il y a 12min", "Il y a 3h", "Il y a 2 jours".
// A nil time renders UnknownDate.
func Relative(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return UnknownDate
	}
	minutes := int(now.Sub(*t).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < 60:
		return fmt.Sprintf("Il y a %dmin", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("Il y a %dh", minutes/60)
	default:
		days := minutes / (24 * 60)
		if days == 1 {
			return "Il y a 1 jour"
		}
		return fmt.Sprintf("Il y a %d jours", days)
	}
}

// PostAge formats a post date the way post cards show it: hours on the
// same day, "Il y a Nj" within a week, then a dd/mm/yyyy date in loc.
func PostAge(t *time.Time, now time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return UnknownDate
	}
	d := now.Sub(*t)
	if d < 0 {
		d = 0
	}
	days := int(d.Hours() / 24)
	switch {
	case days == 0:
		return fmt.Sprintf("Il y a %dh", int(d.Hours()))
	case days < 7:
		return fmt.Sprintf("Il y a %dj", days)
	default:
		if loc == nil {
			loc = time.UTC
		}
		return t.In(loc).Format("02/01/2006")
	}
}

var relativeRe = regexp.MustCompile(`Il y a (\d+)\s*(min|h|jours?|j)\b`)

// ParseRelative converts a string produced by Relative or PostAge back into
// minutes ago, so activity items can be ordered by recency. Strings it does
// not recognize sort last.
func ParseRelative(s string) int {
	m := relativeRe.FindStringSubmatch(s)
	if m == nil {
		return math.MaxInt32
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return math.MaxInt32
	}
	switch m[2] {
	case "min":
		return v
	case "h":
		return v * 60
	default:
		return v * 24 * 60
	}
}

// GoalPercentage returns current as a percentage of target, capped at 100.
// A non-positive target yields 0.
func GoalPercentage(current, target int64) float64 {
	if target <= 0 || current <= 0 {
		return 0
	}
	p := float64(current) / float64(target) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percent renders a percentage with no decimals for progress bars.
func Percent(p float64) string {
	return strconv.Itoa(int(math.Round(p))) + "%"
}
