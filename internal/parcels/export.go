package parcels

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/MapDog/MapDog-Backend/internal/db"
	"github.com/MapDog/MapDog-Backend/internal/parcels/mapwise"
)

// ExportSavedParcels handles GET /parcels/saved/export: streams the
// favorites as CSV with the same columns the UI exports.
func ExportSavedParcels(w http.ResponseWriter, r *http.Request) {
	var saved []SavedParcel
	if err := db.DB.Order("created_at DESC").Find(&saved).Error; err != nil {
		writeJSONStatus(w, http.StatusInternalServerError, errorBody{
			Error: "Failed to fetch saved parcels",
			Code:  "persistence_error",
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="saved_parcels.csv"`)

	// Headers are already sent; a mid-stream failure can only be logged.
	if err := writeSavedParcelsCSV(w, saved); err != nil {
		log.Printf("[parcels] csv export write failed: %v", err)
	}
}

// writeSavedParcelsCSV renders the favorites as CSV. Returns the first
// write error the encoder hit, if any.
func writeSavedParcelsCSV(w io.Writer, saved []SavedParcel) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{
		"PIN", "County", "Owner", "Address", "City", "Zip",
		"Acres", "Zoning", "Land Use", "Market Value", "Notes", "Saved",
	})

	for _, s := range saved {
		var p mapwise.Parcel
		// Rows with unparseable snapshots still export their own columns.
		_ = json.Unmarshal([]byte(s.ParcelData), &p)

		pin := p.PIN()
		if pin == "" {
			pin = s.ParcelID
		}

		cw.Write([]string{
			pin,
			s.County,
			ownerName(&p),
			siteAddress(&p),
			siteCity(&p),
			siteZip(&p),
			acres(&p),
			zoning(&p),
			landUse(&p),
			marketValue(&p),
			s.Notes,
			s.CreatedAt.Format("2006-01-02"),
		})
	}

	cw.Flush()
	return cw.Error()
}

func ownerName(p *mapwise.Parcel) string {
	if p.Owner == nil {
		return ""
	}
	return p.Owner.PrimaryName
}

func siteAddress(p *mapwise.Parcel) string {
	if p.Site != nil && p.Site.Address != "" {
		return p.Site.Address
	}
	if p.Owner != nil {
		return p.Owner.AddressLine1
	}
	return ""
}

func siteCity(p *mapwise.Parcel) string {
	if p.Site != nil && p.Site.City != "" {
		return p.Site.City
	}
	if p.Owner != nil {
		return p.Owner.City
	}
	return ""
}

func siteZip(p *mapwise.Parcel) string {
	if p.Site != nil && p.Site.Zipcode != "" {
		return p.Site.Zipcode
	}
	if p.Owner != nil {
		return p.Owner.Zipcode
	}
	return ""
}

func acres(p *mapwise.Parcel) string {
	if p.Land == nil {
		return ""
	}
	if p.Land.AcresGIS != nil {
		return fmt.Sprintf("%.2f", *p.Land.AcresGIS)
	}
	if p.Land.AcresDeed != nil {
		return fmt.Sprintf("%.2f", *p.Land.AcresDeed)
	}
	return ""
}

func zoning(p *mapwise.Parcel) string {
	if p.Land == nil {
		return ""
	}
	return p.Land.Zoning
}

func landUse(p *mapwise.Parcel) string {
	if p.Land == nil || p.Land.LandUse == nil {
		return ""
	}
	return p.Land.LandUse.LuseDesc
}

func marketValue(p *mapwise.Parcel) string {
	if p.Valuation == nil || p.Valuation.Market == nil {
		return ""
	}
	return fmt.Sprintf("%.0f", p.Valuation.Market.Total)
}
