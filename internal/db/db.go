package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the event log store and runs migrations. The driver is
// either "sqlite3" (dsn is a file path) or "postgres" (dsn is a URL).
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB, driver string) error {
	// sqlite and postgres disagree only on the identity column syntax.
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		serial = "SERIAL PRIMARY KEY"
	}

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chatrooms (
            id %s,
            name TEXT NOT NULL,
            date TEXT NOT NULL
        );`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS messages (
            id %s,
            "user" TEXT NOT NULL,
            message VARCHAR(1000) NOT NULL,
            room TEXT NOT NULL,
            created_at TEXT NOT NULL
        );`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
            id %s,
            username TEXT NOT NULL,
            email TEXT NOT NULL,
            password TEXT NOT NULL
        );`, serial),
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
