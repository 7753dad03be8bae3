package parcels

import (
	"log"

	"github.com/MapDog/MapDog-Backend/internal/config"
	"github.com/MapDog/MapDog-Backend/internal/db"
	"github.com/MapDog/MapDog-Backend/internal/parcels/mapwise"
)

// Gateway is the active MapWise gateway. Set in Init(); tests swap in
// fakes.
var Gateway CountyLister

func Init(cfg *config.Config) {
	// Ensure the parcels schema exists
	if err := db.EnsureSchema(db.DB, "parcels"); err != nil {
		log.Fatal("Failed to ensure schema parcels: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(
		&Search{},
		&SavedParcel{},
	); err != nil {
		log.Fatal("Failed to auto-migrate parcels tables: ", err)
	}

	// History reads are always newest-first with a small limit.
	if err := db.DB.Exec(`
        CREATE INDEX IF NOT EXISTS idx_searches_created_at
        ON parcels.searches (created_at DESC);
    `).Error; err != nil {
		log.Fatal("Failed to create idx_searches_created_at: ", err)
	}

	Gateway = mapwise.NewClient(cfg.MapWise.BaseURL, cfg.MapWise.APIKey, cfg.MapWise.RequestsPerSecond)
	if cfg.MapWise.APIKey == "" {
		log.Printf("[parcels] WARNING: MAPWISE_API_KEY not set, using demo mode (upstream may reject with 401)")
	}

	log.Println("Parcels module initialized")
}
