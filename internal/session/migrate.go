package session

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateUp applies every pending embedded migration. ErrNoChange is not an error.
func (s *Store) migrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed: closing it would close the shared *sql.DB.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration version and dirty flag.
func (s *Store) SchemaVersion() (uint, bool, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: s.logger.Sugar()}
	return m, nil
}

// migrateLogger routes migrate output through zap.
type migrateLogger struct {
	logger *zap.SugaredLogger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debugf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
