package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/servinear/marketplace-backend/internal/config"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/sirupsen/logrus"
)

// Ordered so that the post-clear counts read children before parents
var activityTables = []string{
	"audit_logs",
	"reviews",
	"bookings",
	"provider_services",
	"user_sessions",
	"users",
}

var catalogTables = []string{
	"services",
	"cities",
	"countries",
}

func main() {
	var (
		dbURLFlag   string
		keepCatalog bool
		force       bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&keepCatalog, "keep-catalog", false, "Keep countries, cities and services")
	flag.BoolVar(&force, "force", false, "Allow running when ENVIRONMENT=production")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Try loading .env from current working directory (optional)
	// This avoids having to pass secrets on the command line.
	_ = godotenv.Load()

	if os.Getenv("ENVIRONMENT") == "production" && !force {
		logger.Fatal("Refusing to clear a production database without -force")
	}

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		Driver:             "postgres",
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg, logger)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tables := append([]string(nil), activityTables...)
	if !keepCatalog {
		tables = append(tables, catalogTables...)
	}

	logger.WithField("tables", tables).Info("Connected to database. Truncating tables...")

	truncateSQL := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	if _, err := db.Exec(truncateSQL); err != nil {
		logger.Fatalf("failed to truncate tables: %v", err)
	}

	logger.Info("All data cleared successfully (tables truncated, identities reset)")

	// Verify by printing row counts for each table
	for _, t := range append(activityTables, catalogTables...) {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			logger.WithError(err).WithField("table", t).Error("Failed to count rows")
			continue
		}
		logger.WithFields(logrus.Fields{"table": t, "rows": count}).Info("Post-clear row count")
	}
}
