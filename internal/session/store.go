// Package session keeps a history of pack runs in SQLite. Each session
// records the container, the backlog and the full manifest; the manifest is
// stored as zstd-compressed JSON.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/piwi3910/CrateFill/internal/model"
)

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = errors.New("session not found")

// Summary is one row of the session listing.
type Summary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	Container   string    `json:"container"`
	Utilization float64   `json:"utilization"`
	Placed      int       `json:"placed"`
	Failed      int       `json:"failed"`
	TotalWeight float64   `json:"total_weight"`
}

// Session is a stored pack run with its inputs and manifest.
type Session struct {
	Summary
	Container model.Container  `json:"container_spec"`
	Items     []model.Item     `json:"items"`
	Result    model.PackResult `json:"result"`
}

type manifest struct {
	Container model.Container  `json:"container"`
	Items     []model.Item     `json:"items"`
	Result    model.PackResult `json:"result"`
}

// Store is a SQLite-backed session history.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	enc    *zstd.Encoder
	dec    *zstd.Decoder
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	s := &Store{db: db, logger: logger.Named("session"), enc: enc, dec: dec}
	if err := s.migrateUp(); err != nil {
		s.Close()
		return nil, err
	}
	s.logger.Debug("session store opened", zap.String("path", path))
	return s, nil
}

// Close releases the database and codec resources.
func (s *Store) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// Save records a pack run and returns its id.
func (s *Store) Save(ctx context.Context, name string, c model.Container, items []model.Item, result model.PackResult) (int64, error) {
	raw, err := json.Marshal(manifest{Container: c, Items: items, Result: result})
	if err != nil {
		return 0, fmt.Errorf("failed to encode manifest: %w", err)
	}
	blob := s.enc.EncodeAll(raw, nil)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (name, created_at, container, utilization, placed, failed, total_weight, manifest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name,
		time.Now().UTC().Format(time.RFC3339Nano),
		containerLabel(c),
		result.Utilization,
		result.PlacedCount(),
		result.FailedCount(),
		result.TotalWeight,
		blob,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read session id: %w", err)
	}

	s.logger.Info("session saved",
		zap.Int64("id", id),
		zap.String("name", name),
		zap.Int("manifest_bytes", len(raw)),
		zap.Int("stored_bytes", len(blob)),
	)
	return id, nil
}

// List returns all sessions, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, name, created_at, container, utilization, placed, failed, total_weight
		FROM sessions
		ORDER BY session_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created string
		if err := rows.Scan(&sum.ID, &sum.Name, &created, &sum.Container, &sum.Utilization, &sum.Placed, &sum.Failed, &sum.TotalWeight); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return out, nil
}

// Get loads a session with its decoded manifest.
func (s *Store) Get(ctx context.Context, id int64) (Session, error) {
	var sess Session
	var created string
	var blob []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, name, created_at, container, utilization, placed, failed, total_weight, manifest
		FROM sessions
		WHERE session_id = ?`, id).Scan(
		&sess.ID, &sess.Name, &created, &sess.Summary.Container,
		&sess.Utilization, &sess.Placed, &sess.Failed, &sess.TotalWeight, &blob,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session %d: %w", id, err)
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return Session{}, fmt.Errorf("failed to decompress manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Session{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	sess.Container = m.Container
	sess.Items = m.Items
	sess.Result = m.Result
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	s.logger.Info("session deleted", zap.Int64("id", id))
	return nil
}

func containerLabel(c model.Container) string {
	dims := fmt.Sprintf("%gx%gx%g", c.Width, c.Height, c.Depth)
	if c.Label == "" {
		return dims
	}
	return c.Label + " " + dims
}
