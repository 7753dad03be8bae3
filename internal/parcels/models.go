package parcels

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Search is one row of search history. Append-only; rows are never
// updated, and reads are capped at the 20 most recent.
type Search struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	County string    `gorm:"not null;index" json:"county"`
	// SearchParams is an opaque JSON snapshot of the request
	// (limit, bulk pin list, ring name, coordinates).
	SearchParams string         `gorm:"type:text" json:"search_params"`
	Pins         pq.StringArray `gorm:"type:text[]" json:"pins,omitempty"`
	ResultsCount int            `gorm:"not null;default:0" json:"results_count"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (Search) TableName() string {
	return "parcels.searches"
}

// SavedParcel is a favorited parcel. Keyed by ParcelID: saving the same
// parcel again overwrites the previous row (last write wins).
type SavedParcel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ParcelID string    `gorm:"uniqueIndex;not null" json:"parcel_id"`
	County   string    `gorm:"not null" json:"county"`
	// ParcelData is the serialized MapWise record as received.
	ParcelData string    `gorm:"type:text" json:"parcel_data"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SavedParcel) TableName() string {
	return "parcels.saved_parcels"
}
