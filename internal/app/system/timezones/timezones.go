// internal/app/system/timezones/timezones.go

// Package timezones resolves the zone in which post dates are typed and
// shown. Zone data is embedded so minimal container images work.
package timezones

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Default is the zone of the audience the dashboard is written for.
const Default = "Europe/Paris"

// Load resolves an IANA zone name. Blank means Default.
func Load(id string) (*time.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = Default
	}
	if strings.EqualFold(id, "local") {
		return nil, fmt.Errorf("timezones: %q is ambiguous on servers, name a zone such as %s", id, Default)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("timezones: unknown zone %q: %w", id, err)
	}
	return loc, nil
}
