package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trivia-jack/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const migrationsDir = "db/migrations"

func main() {
	name := flag.String("name", "", "migration name, used by the create command")
	steps := flag.Int("steps", 0, "number of migrations to roll back, 0 means all")
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	switch command {
	case "up":
		m := mustMigrate()
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("database migration failed: %v", err)
		}
		log.Println("database migrations applied")
	case "down":
		m := mustMigrate()
		var err error
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("database rollback failed: %v", err)
		}
		log.Println("database migrations rolled back")
	case "create":
		upPath, downPath, err := create(migrationsDir, *name, time.Now().UTC())
		if err != nil {
			log.Fatalf("create migration: %v", err)
		}
		log.Printf("created %s and %s", upPath, downPath)
	default:
		log.Fatalf("unknown command %q (want up, down or create)", command)
	}
}

func mustMigrate() *migrate.Migrate {
	dsn := config.Load().DatabaseURL
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	m, err := migrate.New("file://"+migrationsDir, dsn)
	if err != nil {
		log.Fatalf("migration setup failed: %v", err)
	}
	return m
}

func create(dir, name string, now time.Time) (string, string, error) {
	if name == "" {
		return "", "", errors.New("migration name is required")
	}
	if strings.ContainsAny(name, " ") {
		return "", "", errors.New("migration name must not contain spaces")
	}

	base := fmt.Sprintf("%s_%s", now.Format("20060102150405"), name)
	upPath := filepath.Join(dir, base+".up.sql")
	downPath := filepath.Join(dir, base+".down.sql")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create migrations dir: %w", err)
	}
	if err := writeFile(upPath, "-- up migration\n"); err != nil {
		return "", "", err
	}
	if err := writeFile(downPath, "-- down migration\n"); err != nil {
		return "", "", err
	}
	return upPath, downPath, nil
}

func writeFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
