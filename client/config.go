// Package client talks to the report2resolve API the way the browser portals
// do: it holds the session, guards portal entry and keeps dashboards fresh.
package client

import (
	"strings"
	"time"
)

// Mode selects which backend origin requests go to.
type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

const (
	DevOrigin        = "http://localhost:5173"
	ProductionOrigin = "https://report2-resolve-backend.vercel.app"
)

// Config for New.
type Config struct {
	Mode Mode
	// Origin overrides the origin implied by Mode.
	Origin  string
	Timeout time.Duration
}

// BaseURL is the prefix every endpoint path is appended to. In dev mode the
// frontend dev server proxies /api to the backend.
func (c Config) BaseURL() string {
	origin := c.Origin
	if origin == "" {
		origin = ProductionOrigin
		if c.Mode == ModeDev {
			origin = DevOrigin
		}
	}
	return strings.TrimRight(origin, "/") + "/api"
}
