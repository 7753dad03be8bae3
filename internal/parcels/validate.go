package parcels

import (
	"regexp"
	"strconv"
	"strings"
)

var countyPattern = regexp.MustCompile(`^[A-Z\s\-]+$`)

// ValidationError is a client-correctable input problem. Handlers map
// it to a 400 with the hint included.
type ValidationError struct {
	Msg  string
	Hint string
}

func (e *ValidationError) Error() string { return e.Msg }

// ValidateCounty trims and upper-cases a county name and checks it
// contains only letters, spaces, and hyphens. Returns the normalized
// form. Unknown-but-well-formed counties pass; format is the contract,
// the Florida catalog only feeds hints.
func ValidateCounty(raw string) (string, error) {
	county := strings.ToUpper(strings.TrimSpace(raw))
	if county == "" {
		return "", &ValidationError{
			Msg:  "County parameter is required",
			Hint: "Provide a county name (e.g., ALACHUA, ORANGE, MIAMI-DADE)",
		}
	}
	if !countyPattern.MatchString(county) {
		return "", &ValidationError{
			Msg:  "Invalid county name format",
			Hint: "County name should contain only letters, spaces, and hyphens",
		}
	}
	return county, nil
}

// ValidateLimit parses the limit query parameter. Empty defaults to 10.
func ValidateLimit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 10, nil
	}
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit < 1 || limit > 100 {
		return 0, &ValidationError{
			Msg:  "Invalid limit parameter",
			Hint: "Limit must be a number between 1 and 100",
		}
	}
	return limit, nil
}

// ValidateCoordinates parses and range-checks lat/lon query parameters.
func ValidateCoordinates(latRaw, lonRaw string) (lat, lon float64, err error) {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, &ValidationError{
			Msg:  "Invalid coordinates",
			Hint: "lat must be between -90 and 90, lon between -180 and 180",
		}
	}
	return lat, lon, nil
}
