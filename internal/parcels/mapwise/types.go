package mapwise

import "strings"

// listingResponse is the top-level response from the MapWise parcels
// endpoint.
type listingResponse struct {
	Data []Parcel `json:"data"`
	Meta struct {
		RecordCount int `json:"record_count"`
		TotalCount  int `json:"total_count"`
	} `json:"meta"`
}

// Listing is a decoded county listing. RecordCount is the number of
// parcels in this page; TotalCount is the county-wide total MapWise
// reports.
type Listing struct {
	Parcels     []Parcel
	RecordCount int
	TotalCount  int
}

// Parcel is a single MapWise parcel record. Every nested group is
// optional upstream, so each is a pointer; use the accessor methods
// rather than chaining through possibly-nil fields.
type Parcel struct {
	Identifiers *Identifiers `json:"identifiers,omitempty"`
	Owner       *Owner       `json:"owner,omitempty"`
	Site        *Site        `json:"site,omitempty"`
	Land        *Land        `json:"land,omitempty"`
	Valuation   *Valuation   `json:"valuation,omitempty"`
	Meta        *ParcelMeta  `json:"meta,omitempty"`
}

// Identifiers carries the parcel's primary keys in the upstream system.
type Identifiers struct {
	PIN string `json:"pin"`
	// PINClean is the PIN with all non-digit characters stripped.
	PINClean string `json:"pin_clean"`
}

type Owner struct {
	PrimaryName  string `json:"primary_name"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	Zipcode      string `json:"zipcode"`
}

type Site struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

type Land struct {
	AcresGIS  *float64 `json:"acres_gis,omitempty"`
	AcresDeed *float64 `json:"acres_deed,omitempty"`
	Zoning    string   `json:"zoning,omitempty"`
	LandUse   *LandUse `json:"land_use,omitempty"`
}

type LandUse struct {
	LuseDesc string `json:"luse_desc"`
}

type Valuation struct {
	Market *MarketValue `json:"market,omitempty"`
}

type MarketValue struct {
	Total float64 `json:"total"`
}

type ParcelMeta struct {
	County    string `json:"county,omitempty"`
	PaPinLink string `json:"pa_pin_link,omitempty"`
}

// PIN returns the parcel's primary identifier, or "" when absent.
func (p *Parcel) PIN() string {
	if p.Identifiers == nil {
		return ""
	}
	return p.Identifiers.PIN
}

// NormalizedPIN returns the digits-only identifier. Falls back to
// stripping the display PIN when upstream omits pin_clean.
func (p *Parcel) NormalizedPIN() string {
	if p.Identifiers == nil {
		return ""
	}
	if p.Identifiers.PINClean != "" {
		return p.Identifiers.PINClean
	}
	return StripNonDigits(p.Identifiers.PIN)
}

// StripNonDigits removes every non-digit rune from s.
func StripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
