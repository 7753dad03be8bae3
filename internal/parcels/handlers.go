package parcels

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/MapDog/MapDog-Backend/internal/db"
	"github.com/MapDog/MapDog-Backend/internal/parcels/mapwise"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

func writeValidationError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		writeJSONStatus(w, http.StatusBadRequest, errorBody{
			Error: vErr.Msg,
			Code:  "validation_error",
			Hint:  vErr.Hint,
		})
		return
	}
	writeJSONStatus(w, http.StatusBadRequest, errorBody{
		Error: err.Error(),
		Code:  "validation_error",
	})
}

// writeUpstreamError translates a gateway failure into the user-facing
// response. Every 5xx from MapWise surfaces as 503; transport failures
// surface as 500 with a connectivity hint.
func writeUpstreamError(w http.ResponseWriter, county string, err error) {
	var apiErr *mapwise.APIError
	if !errors.As(err, &apiErr) {
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to search parcels",
			Code:    "internal_error",
			Details: err.Error(),
		})
		return
	}

	body := errorBody{Code: string(apiErr.Kind), StatusCode: apiErr.StatusCode}
	status := http.StatusInternalServerError

	switch apiErr.Kind {
	case mapwise.KindBadRequest:
		status = http.StatusBadRequest
		body.Error = "Invalid search parameters. Please check county name."
		body.Details = "Bad request - invalid parameters"
	case mapwise.KindUnauthorized:
		status = http.StatusUnauthorized
		body.Error = "API authentication failed. Please contact support."
		body.Details = "Unauthorized - invalid API key"
		body.Hint = "Configure MAPWISE_API_KEY with a valid MapWise credential"
	case mapwise.KindForbidden:
		status = http.StatusForbidden
		body.Error = "Access denied. Please check your subscription."
		body.Details = "Forbidden - access denied"
	case mapwise.KindNotFound:
		status = http.StatusNotFound
		body.Error = fmt.Sprintf("No data available for %s county.", county)
		body.Details = "Not found - endpoint or resource not found"
	case mapwise.KindRateLimited:
		status = http.StatusTooManyRequests
		body.Error = "Too many requests. Please wait a moment and try again."
		body.Details = "Rate limit exceeded"
		body.Hint = "Wait 30 seconds before searching again"
		w.Header().Set("Retry-After", "30")
	case mapwise.KindUnavailable:
		status = http.StatusServiceUnavailable
		body.Error = "MapWise service temporarily unavailable. Please try again later."
		body.Details = "MapWise server error"
	case mapwise.KindNetwork:
		status = http.StatusInternalServerError
		body.Error = "Failed to connect to MapWise API"
		body.Details = apiErr.Error()
		body.Hint = "Please check your internet connection and try again"
	default:
		status = http.StatusBadGateway
		body.Error = "An unexpected error occurred. Please try again."
		body.Details = apiErr.Error()
	}

	writeJSONStatus(w, status, body)
}

type searchMeta struct {
	RecordCount int    `json:"record_count"`
	TotalCount  int    `json:"total_count"`
	Message     string `json:"message,omitempty"`
	Hint        string `json:"hint,omitempty"`
	Disclaimer  string `json:"disclaimer,omitempty"`
}

type searchResponse struct {
	Success bool             `json:"success"`
	Data    []mapwise.Parcel `json:"data"`
	Meta    searchMeta       `json:"meta"`
}

// recordSearch appends a history row. Writes are best-effort: failures
// are logged and swallowed so a successful search never turns into an
// error response.
func recordSearch(county string, params any, pins []string, resultsCount int) {
	if db.DB == nil {
		log.Printf("[parcels] history write skipped: database not initialized")
		return
	}

	snapshot, err := json.Marshal(params)
	if err != nil {
		log.Printf("[parcels] failed to snapshot search params: %v", err)
		return
	}

	s := Search{
		County:       county,
		SearchParams: string(snapshot),
		Pins:         pins,
		ResultsCount: resultsCount,
	}
	if err := db.DB.Create(&s).Error; err != nil {
		log.Printf("[parcels] failed to record search history: %v", err)
	}
}

// SearchParcels handles GET /parcels/search.
func SearchParcels(w http.ResponseWriter, r *http.Request) {
	county, err := ValidateCounty(r.URL.Query().Get("county"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	limit, err := ValidateLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	listing, err := Gateway.FetchCountyListing(r.Context(), county, limit)
	if err != nil {
		writeUpstreamError(w, county, err)
		return
	}

	if listing.RecordCount == 0 {
		meta := searchMeta{
			RecordCount: 0,
			TotalCount:  listing.TotalCount,
			Message:     fmt.Sprintf("No parcels found matching criteria in %s county", county),
		}
		if suggestion := SuggestCounty(county); suggestion != "" {
			meta.Hint = fmt.Sprintf("Did you mean %s?", suggestion)
		}
		writeJSON(w, searchResponse{Success: true, Data: []mapwise.Parcel{}, Meta: meta})
		return
	}

	recordSearch(county, map[string]any{"limit": limit}, nil, listing.RecordCount)

	log.Printf("[parcels] retrieved %d parcels for %s", listing.RecordCount, county)
	writeJSON(w, searchResponse{
		Success: true,
		Data:    listing.Parcels,
		Meta:    searchMeta{RecordCount: listing.RecordCount, TotalCount: listing.TotalCount},
	})
}

// CoordinateSearchParcels handles GET /parcels/coordinate-search.
//
// Documented stub: the upstream offers no radius query, so this only
// searches the supplied county and annotates the response with a
// disclaimer that distance from the point is not verified.
func CoordinateSearchParcels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, lon, err := ValidateCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	county, err := ValidateCounty(q.Get("county"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	limit, err := ValidateLimit(q.Get("limit"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	listing, err := Gateway.FetchCountyListing(r.Context(), county, limit)
	if err != nil {
		writeUpstreamError(w, county, err)
		return
	}

	disclaimer := fmt.Sprintf(
		"Results are parcels from %s county only; distance from (%.5f, %.5f) is not verified.",
		county, lat, lon)

	if listing.RecordCount == 0 {
		writeJSON(w, searchResponse{
			Success: true,
			Data:    []mapwise.Parcel{},
			Meta: searchMeta{
				TotalCount: listing.TotalCount,
				Message:    fmt.Sprintf("No parcels found matching criteria in %s county", county),
				Disclaimer: disclaimer,
			},
		})
		return
	}

	recordSearch(county, map[string]any{"type": "coordinate", "lat": lat, "lon": lon, "limit": limit}, nil, listing.RecordCount)

	writeJSON(w, searchResponse{
		Success: true,
		Data:    listing.Parcels,
		Meta: searchMeta{
			RecordCount: listing.RecordCount,
			TotalCount:  listing.TotalCount,
			Disclaimer:  disclaimer,
		},
	})
}

type bulkSearchRequest struct {
	Pins           []string `json:"pins"`
	County         string   `json:"county"`
	SearchRingName string   `json:"searchRingName"`
}

type bulkError struct {
	PIN   string `json:"pin"`
	Error string `json:"error"`
}

type bulkMeta struct {
	Requested      int     `json:"requested"`
	Found          int     `json:"found"`
	Errors         int     `json:"errors"`
	SearchRingName *string `json:"searchRingName"`
}

type bulkResponse struct {
	Success bool             `json:"success"`
	Results []mapwise.Parcel `json:"results"`
	Meta    bulkMeta         `json:"meta"`
	Errors  []bulkError      `json:"errors,omitempty"`
}

// BulkSearchParcels handles POST /parcels/bulk-search: resolves a
// search ring's PIN list against county listings.
func BulkSearchParcels(w http.ResponseWriter, r *http.Request) {
	var req bulkSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorBody{
			Error: "Invalid request body",
			Code:  "validation_error",
			Hint:  "Send JSON with pins, county, and optional searchRingName",
		})
		return
	}

	if len(req.Pins) == 0 {
		writeJSONStatus(w, http.StatusBadRequest, errorBody{
			Error: "PIN list is required",
			Code:  "validation_error",
			Hint:  "Provide an array of parcel PINs",
		})
		return
	}

	county, err := ValidateCounty(req.County)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	pins := req.Pins
	if len(pins) > MaxBulkPINs {
		pins = pins[:MaxBulkPINs]
	}

	resolver := NewResolver(Gateway)
	outcome, err := resolver.Resolve(r.Context(), county, pins)
	if err != nil {
		if r.Context().Err() != nil {
			return // client gone, nothing to write
		}
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			writeValidationError(w, vErr)
			return
		}
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to perform bulk search",
			Code:    "internal_error",
			Details: err.Error(),
		})
		return
	}

	var bulkErrors []bulkError
	for _, u := range outcome.FetchFailures() {
		bulkErrors = append(bulkErrors, bulkError{PIN: u.PIN, Error: "Failed to fetch"})
	}

	var ringName *string
	if req.SearchRingName != "" {
		ringName = &req.SearchRingName
		recordSearch(county, map[string]any{
			"type":           "bulk",
			"pins":           pins,
			"searchRingName": req.SearchRingName,
		}, pins, len(outcome.Matched))
	}

	results := outcome.Matched
	if results == nil {
		results = []mapwise.Parcel{}
	}

	writeJSON(w, bulkResponse{
		Success: true,
		Results: results,
		Meta: bulkMeta{
			Requested:      len(req.Pins),
			Found:          len(outcome.Matched),
			Errors:         len(bulkErrors),
			SearchRingName: ringName,
		},
		Errors: bulkErrors,
	})
}

type saveParcelRequest struct {
	ParcelID   string          `json:"parcelId"`
	County     string          `json:"county"`
	ParcelData json.RawMessage `json:"parcelData"`
	Notes      string          `json:"notes"`
}

// SaveParcel handles POST /parcels/save: upserts a favorite by parcel
// ID. Unlike history writes, a persistence failure here is the whole
// operation's failure.
func SaveParcel(w http.ResponseWriter, r *http.Request) {
	var req saveParcelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorBody{
			Error: "Invalid request body",
			Code:  "validation_error",
		})
		return
	}

	if req.ParcelID == "" || req.County == "" {
		writeJSONStatus(w, http.StatusBadRequest, errorBody{
			Error: "parcelId and county are required",
			Code:  "validation_error",
		})
		return
	}

	saved := SavedParcel{
		ParcelID:   req.ParcelID,
		County:     req.County,
		ParcelData: string(req.ParcelData),
		Notes:      req.Notes,
	}

	if err := db.DB.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "parcel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"county", "parcel_data", "notes", "updated_at",
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}}},
	).Create(&saved).Error; err != nil {
		log.Printf("[parcels] failed to save parcel %s: %v", req.ParcelID, err)
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{
			Error: "Failed to save parcel",
			Code:  "persistence_error",
		})
		return
	}

	writeJSON(w, map[string]any{"success": true, "id": saved.ID})
}

// ListSavedParcels handles GET /parcels/saved.
func ListSavedParcels(w http.ResponseWriter, r *http.Request) {
	var saved []SavedParcel
	if err := db.DB.Order("created_at DESC").Find(&saved).Error; err != nil {
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{
			Error: "Failed to fetch saved parcels",
			Code:  "persistence_error",
		})
		return
	}

	if saved == nil {
		saved = []SavedParcel{}
	}
	writeJSON(w, saved)
}

// DeleteSavedParcel handles DELETE /parcels/saved/{id}. Deleting an
// unknown id still succeeds.
func DeleteSavedParcel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, errorBody{
			Error: "Invalid parcel id",
			Code:  "validation_error",
		})
		return
	}

	if err := db.DB.Delete(&SavedParcel{}, "id = ?", id).Error; err != nil {
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{
			Error: "Failed to delete parcel",
			Code:  "persistence_error",
		})
		return
	}

	writeJSON(w, map[string]any{"success": true})
}

// GetSearchHistory handles GET /searches/history: the 20 most recent
// searches, newest first.
func GetSearchHistory(w http.ResponseWriter, r *http.Request) {
	var searches []Search
	if err := db.DB.Order("created_at DESC").Limit(20).Find(&searches).Error; err != nil {
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{
			Error: "Failed to fetch search history",
			Code:  "persistence_error",
		})
		return
	}

	if searches == nil {
		searches = []Search{}
	}
	writeJSON(w, searches)
}

type statsResponse struct {
	TotalSearches int64  `json:"totalSearches"`
	SavedParcels  int64  `json:"savedParcels"`
	LastCounty    string `json:"lastCounty"`
}

// GetStats handles GET /stats. Degrades to zeros when the database is
// unreachable rather than failing the dashboard.
func GetStats(w http.ResponseWriter, r *http.Request) {
	empty := statsResponse{LastCounty: "N/A"}

	var stats statsResponse
	if err := db.DB.Model(&Search{}).Count(&stats.TotalSearches).Error; err != nil {
		log.Printf("[parcels] stats query failed: %v", err)
		writeJSON(w, empty)
		return
	}
	if err := db.DB.Model(&SavedParcel{}).Count(&stats.SavedParcels).Error; err != nil {
		log.Printf("[parcels] stats query failed: %v", err)
		writeJSON(w, empty)
		return
	}

	stats.LastCounty = "N/A"
	var last Search
	if err := db.DB.Order("created_at DESC").First(&last).Error; err == nil {
		stats.LastCounty = last.County
	}

	writeJSON(w, stats)
}
