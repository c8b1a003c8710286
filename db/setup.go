package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"regexp"

	"github.com/Arhamhir/Taskflow/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	_ "github.com/lib/pq"
)

var safeDatabaseName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Connect builds the database handle without dialing. An unreachable server
// must not prevent the process from starting; the first query fails instead.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableAutomaticPing: true,
	})
}

// EnsureDatabase creates the database named in the connection URL if it does
// not exist, using an admin connection to the default postgres database. Names
// outside the safe identifier pattern are refused rather than quoted into a
// CREATE DATABASE statement.
func EnsureDatabase(dsn string) error {
	parsed, err := url.Parse(dsn)

	if err != nil || (parsed.Scheme != "postgres" && parsed.Scheme != "postgresql") {
		return nil
	}

	name := parsed.Path

	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}

	if name == "" {
		return nil
	}

	admin := *parsed
	admin.Path = "/postgres"

	conn, err := sql.Open("postgres", admin.String())

	if err != nil {
		return err
	}

	defer conn.Close()

	var exists bool

	err = conn.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists)

	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	if !safeDatabaseName.MatchString(name) {
		return fmt.Errorf("unsupported database name for auto-creation: %s", name)
	}

	_, err = conn.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, name))
	return err
}

// Migrate creates any missing tables. Tables that already exist are left
// untouched.
func Migrate(gdb *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
	}

	migrator := gdb.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := gdb.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
