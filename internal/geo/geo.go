// Package geo abstracts IP-to-country resolution, which is provided by an
// external collaborator. The pipeline only depends on this capability.
package geo

import "context"

// UnknownCode is the sentinel returned when no resolution is available.
// Earnings computation treats it as a 1.0 multiplier, never zero.
const (
	UnknownCode = "XX"
	UnknownName = "Unknown"
)

// Country carries an ISO 3166-1 alpha-2 code and a display name.
type Country struct {
	Code string
	Name string
}

// Resolver maps a visitor IP to a country.
type Resolver interface {
	Resolve(ctx context.Context, ip string) Country
}

// Static is a Resolver backed by a fixed IP→country table, with the
// Unknown sentinel for everything else. An empty Static{} is the default
// "no geo database" resolver.
type Static struct {
	Table map[string]Country
}

func (s Static) Resolve(_ context.Context, ip string) Country {
	if c, ok := s.Table[ip]; ok {
		return c
	}
	return Country{Code: UnknownCode, Name: UnknownName}
}
