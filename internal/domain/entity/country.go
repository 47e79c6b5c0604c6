// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"github.com/paulmach/orb"
)

// Country is a read-only record sourced from the countries data provider.
// It is immutable from this system's perspective; nothing here is persisted.
type Country struct {
	Code            string     `json:"code"`          // ISO 3166-1 alpha-3 code, the canonical identity of a country.
	CommonName      string     `json:"common_name"`   // The everyday name, e.g. "France".
	OfficialName    string     `json:"official_name"` // The formal name, e.g. "French Republic".
	Capitals        []string   `json:"capitals"`      // Capital cities; may be empty for some territories.
	Region          string     `json:"region"`
	Subregion       string     `json:"subregion"`
	Population      int64      `json:"population"`
	Currencies      []Currency `json:"currencies"`
	Languages       []string   `json:"languages"`
	Borders         []string   `json:"borders"` // Alpha-3 codes of neighboring countries.
	FlagPNG         string     `json:"flag_png"`
	FlagSVG         string     `json:"flag_svg"`
	FlagAlt         string     `json:"flag_alt,omitempty"`
	TopLevelDomains []string   `json:"top_level_domains"`
	Timezones       []string   `json:"timezones"`
	Coordinates     orb.Point  `json:"coordinates"` // Longitude/latitude of the country's reference point.
	CallingCodes    []string   `json:"calling_codes"`
	DrivingSide     string     `json:"driving_side"`
}

// Currency describes one currency in use by a country.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// FlagURL returns the preferred flag image reference, SVG first.
func (c *Country) FlagURL() string {
	if c.FlagSVG != "" {
		return c.FlagSVG
	}

	return c.FlagPNG
}

// PrimaryCapital returns the first capital city, or an empty string when
// the country has none.
func (c *Country) PrimaryCapital() string {
	if len(c.Capitals) == 0 {
		return ""
	}

	return c.Capitals[0]
}
