package parcels

import (
	"context"
	"errors"

	"github.com/MapDog/MapDog-Backend/internal/parcels/mapwise"
)

// MaxBulkPINs caps how many PINs a single bulk search resolves. Callers
// truncate before invoking Resolve; the resolver trusts the cap as a
// precondition.
const MaxBulkPINs = 50

// CountyLister fetches a county-scoped parcel listing. mapwise.Client
// implements it; tests substitute fakes.
type CountyLister interface {
	FetchCountyListing(ctx context.Context, county string, limit int) (*mapwise.Listing, error)
}

// UnmatchedReason says why a requested PIN produced no parcel.
type UnmatchedReason string

const (
	// ReasonNotFound: the listing was fetched but contained no record
	// matching the PIN exactly or in normalized form.
	ReasonNotFound UnmatchedReason = "NOT_FOUND"
	// ReasonFetchFailed: the listing fetch for this PIN failed.
	ReasonFetchFailed UnmatchedReason = "FETCH_FAILED"
)

// UnmatchedPIN is one requested identifier that resolved to nothing.
type UnmatchedPIN struct {
	PIN    string          `json:"pin"`
	Reason UnmatchedReason `json:"reason"`
}

// Outcome is the result of one bulk resolution. Matched preserves the
// order of first successful match during request traversal; Unmatched
// preserves request order.
type Outcome struct {
	Requested int
	Matched   []mapwise.Parcel
	Unmatched []UnmatchedPIN
}

// FetchFailures returns the unmatched entries caused by fetch errors,
// in request order.
func (o *Outcome) FetchFailures() []UnmatchedPIN {
	var out []UnmatchedPIN
	for _, u := range o.Unmatched {
		if u.Reason == ReasonFetchFailed {
			out = append(out, u)
		}
	}
	return out
}

// Resolver reconciles a requested PIN set against MapWise county
// listings. MapWise has no per-PIN lookup, so each PIN triggers one
// county-listing fetch and a scan of the returned page. The fetch is
// deliberately not cached across PINs; that mirrors the upstream
// contract this service documents, and upstream response caching is out
// of scope.
type Resolver struct {
	lister CountyLister
}

func NewResolver(lister CountyLister) *Resolver {
	return &Resolver{lister: lister}
}

// Resolve looks up each PIN, in input order, against county listings.
// Non-matches and per-PIN fetch failures are data, not errors: one bad
// PIN never aborts the batch. Resolve itself fails only on a malformed
// county (callers should have validated already) or a cancelled
// context, in which case partial results are discarded.
func (r *Resolver) Resolve(ctx context.Context, county string, pins []string) (*Outcome, error) {
	county, err := ValidateCounty(county)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Requested: len(pins)}

	for _, pin := range pins {
		listing, err := r.lister.FetchCountyListing(ctx, county, mapwise.PageMax)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var apiErr *mapwise.APIError
			if errors.As(err, &apiErr) && apiErr.Kind == mapwise.KindNotFound {
				// Upstream 404 means the county has no listing:
				// an empty page, not a fetch failure.
				out.Unmatched = append(out.Unmatched, UnmatchedPIN{PIN: pin, Reason: ReasonNotFound})
				continue
			}
			out.Unmatched = append(out.Unmatched, UnmatchedPIN{PIN: pin, Reason: ReasonFetchFailed})
			continue
		}

		if match, ok := findMatch(listing.Parcels, pin); ok {
			out.Matched = append(out.Matched, match)
		} else {
			out.Unmatched = append(out.Unmatched, UnmatchedPIN{PIN: pin, Reason: ReasonNotFound})
		}
	}

	return out, nil
}

// findMatch returns the first parcel whose PIN equals the request
// exactly, or whose normalized PIN equals the digits-only form of the
// request. A blank request matches nothing; records without
// identifiers report "" for both forms.
func findMatch(listing []mapwise.Parcel, pin string) (mapwise.Parcel, bool) {
	if pin == "" {
		return mapwise.Parcel{}, false
	}
	normalized := mapwise.StripNonDigits(pin)
	for _, p := range listing {
		if p.PIN() == pin {
			return p, true
		}
		if normalized != "" && p.NormalizedPIN() == normalized {
			return p, true
		}
	}
	return mapwise.Parcel{}, false
}
