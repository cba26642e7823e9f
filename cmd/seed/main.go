// Command seed provisions lockers from a JSON fixture. Lockers are managed
// outside the application; the API only ever reads them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/outpost-labs/outpost-backend/internal/config"
	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/logging"
	"github.com/outpost-labs/outpost-backend/internal/repository"
)

type lockerFixture struct {
	ID           string  `json:"id"`
	LocationName string  `json:"location_name"`
	Address      string  `json:"address"`
	SmallSlots   int     `json:"small_slots"`
	MediumSlots  int     `json:"medium_slots"`
	LargeSlots   int     `json:"large_slots"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	CourierID    *int64  `json:"courier_id"`
}

func main() {
	file := flag.String("file", "lockers.json", "path to the locker fixture")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("outpost-seed", cfg.LogLevel, cfg.AppEnv)

	data, err := os.ReadFile(*file)
	if err != nil {
		slog.Error("failed to read fixture", "file", *file, "error", err)
		os.Exit(1)
	}

	var fixtures []lockerFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		slog.Error("failed to parse fixture", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	lockers := repository.NewLockerRepository(db)
	for _, f := range fixtures {
		locker := &domain.Locker{
			ID:           f.ID,
			LocationName: f.LocationName,
			Address:      f.Address,
			SmallSlots:   f.SmallSlots,
			MediumSlots:  f.MediumSlots,
			LargeSlots:   f.LargeSlots,
			Latitude:     f.Latitude,
			Longitude:    f.Longitude,
			CourierID:    f.CourierID,
		}
		if err := lockers.Create(ctx, locker); err != nil {
			slog.Error("failed to upsert locker", "locker_id", f.ID, "error", err)
			os.Exit(1)
		}
		slog.Info("locker provisioned", "locker_id", f.ID, "location", f.LocationName)
	}

	slog.Info("seed complete", "lockers", len(fixtures))
}
