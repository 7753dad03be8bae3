package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/MapDog/MapDog-Backend/internal/config"
	"github.com/MapDog/MapDog-Backend/internal/db"
	"github.com/MapDog/MapDog-Backend/internal/middleware"
	"github.com/MapDog/MapDog-Backend/internal/parcels"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "MapDog is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect()
	parcels.Init(cfg)

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Get("/", RootHandler)

	r.Mount("/api", parcels.SetupRoutes())

	log.Printf("Server listening on port :%s...", cfg.Server.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Server.Port, r); err != nil {
		log.Fatal(err)
	}
}
