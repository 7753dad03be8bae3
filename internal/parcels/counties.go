package parcels

import "strings"

// floridaCounties lists the 67 Florida counties as MapWise spells them
// (uppercase, no periods in the ST names). Used only for hints; format
// validation alone gates requests.
var floridaCounties = []string{
	"ALACHUA", "BAKER", "BAY", "BRADFORD", "BREVARD", "BROWARD",
	"CALHOUN", "CHARLOTTE", "CITRUS", "CLAY", "COLLIER", "COLUMBIA",
	"DESOTO", "DIXIE", "DUVAL", "ESCAMBIA", "FLAGLER", "FRANKLIN",
	"GADSDEN", "GILCHRIST", "GLADES", "GULF", "HAMILTON", "HARDEE",
	"HENDRY", "HERNANDO", "HIGHLANDS", "HILLSBOROUGH", "HOLMES",
	"INDIAN RIVER", "JACKSON", "JEFFERSON", "LAFAYETTE", "LAKE", "LEE",
	"LEON", "LEVY", "LIBERTY", "MADISON", "MANATEE", "MARION", "MARTIN",
	"MIAMI-DADE", "MONROE", "NASSAU", "OKALOOSA", "OKEECHOBEE", "ORANGE",
	"OSCEOLA", "PALM BEACH", "PASCO", "PINELLAS", "POLK", "PUTNAM",
	"SANTA ROSA", "SARASOTA", "SEMINOLE", "ST JOHNS", "ST LUCIE",
	"SUMTER", "SUWANNEE", "TAYLOR", "UNION", "VOLUSIA", "WAKULLA",
	"WALTON", "WASHINGTON",
}

var countySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(floridaCounties))
	for _, c := range floridaCounties {
		m[c] = struct{}{}
	}
	return m
}()

// IsKnownCounty reports whether the (already normalized) county name is
// a Florida county.
func IsKnownCounty(county string) bool {
	_, ok := countySet[county]
	return ok
}

// SuggestCounty returns a Florida county starting with the same letters
// as the input, or "" when nothing is close. Cheap prefix matching is
// enough for typo hints ("ORANG" -> "ORANGE").
func SuggestCounty(county string) string {
	if county == "" || IsKnownCounty(county) {
		return ""
	}
	for _, c := range floridaCounties {
		if strings.HasPrefix(c, county) || strings.HasPrefix(county, c) {
			return c
		}
	}
	return ""
}
