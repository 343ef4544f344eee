package mysql

import (
	"database/sql"
	"embed"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
)

//go:embed *.sql
var schema embed.FS

var files = []string{
	"users.sql",
	"sessions.sql",
}

func LoadDB(dsn string) *sql.DB {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Cannot connect to DB:", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatal("Cannot create tables:", err)
	}
	return db
}

// Migrate creates the tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	for _, file := range files {
		query, err := schema.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if _, err := db.Exec(string(query)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", file, err)
		}
	}
	return nil
}
