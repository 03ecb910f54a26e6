package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/servinear/marketplace-backend/internal/config"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		dbURLFlag string
		down      int
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&down, "down", 0, "Roll back this many migration steps instead of migrating up")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		Driver:             "postgres",
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}, logger)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if down > 0 {
		if err := database.RollbackMigrations(db.DB.DB, down); err != nil {
			logger.Fatalf("rollback failed: %v", err)
		}
		logger.WithField("steps", down).Info("Migrations rolled back")
		return
	}

	if err := database.RunMigrations(db.DB.DB, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
}
