// Package archive keeps rendered audit reports in a local SQLite database
// so past audits can be listed and summarised.
//
// Only finished reports are stored. In-progress audit state never leaves
// the session.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is swappable for tests.
var timeNow = time.Now

// newID generates record ids.
var newID = uuid.NewString

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("archived audit not found")

// ErrAmbiguousID is returned by Get when an id prefix matches more than
// one audit.
var ErrAmbiguousID = errors.New("id prefix matches more than one archived audit")

const timeLayout = "2006-01-02 15:04:05"

// Config holds archive store configuration.
type Config struct {
	Path string // database file; parent directory is created on open
}

// Record is one archived audit report with its headline figures.
type Record struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"session_id"`
	SystemName      string          `json:"system_name"`
	Tier            assessment.Tier `json:"tier"`
	AutonomyLevel   int             `json:"autonomy_level"`
	ControlScore    float64         `json:"control_score"`
	RiskScore       float64         `json:"risk_score"`
	BiasCount       int             `json:"bias_count"`
	Recommendations int             `json:"recommendations"`
	Report          string          `json:"report,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Stats holds dashboard figures across the archive.
type Stats struct {
	Total                   int                     `json:"total"`
	LastWeek                int                     `json:"last_week"`
	ByTier                  map[assessment.Tier]int `json:"by_tier"`
	AverageRisk             float64                 `json:"average_risk"`
	Recommendations         int                     `json:"recommendations"`
	CriticalRecommendations int                     `json:"critical_recommendations"`
}

// Store is the report archive backed by SQLite.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type storeHooks struct {
	exec  func(db execer, query string, args ...any) (sql.Result, error)
	query func(db queryer, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execHook(query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(s.db, query, args...)
	}
	return s.db.Exec(query, args...)
}

func (s *Store) queryHook(query string, args ...any) (*sql.Rows, error) {
	if s.hooks.query != nil {
		return s.hooks.query(s.db, query, args...)
	}
	return s.db.Query(query, args...)
}

// New opens (or creates) the archive database and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("archive: create data dir: %w", err)
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("archive: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: migration: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.execHook(`
		CREATE TABLE IF NOT EXISTS audits (
			id              TEXT    PRIMARY KEY,
			session_id      TEXT    NOT NULL,
			system_name     TEXT    NOT NULL,
			tier            TEXT    NOT NULL,
			autonomy_level  INTEGER NOT NULL,
			control_score   REAL    NOT NULL,
			risk_score      REAL    NOT NULL,
			bias_count      INTEGER NOT NULL DEFAULT 0,
			recommendations INTEGER NOT NULL DEFAULT 0,
			report          TEXT    NOT NULL,
			created_at      TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_audits_created ON audits(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_audits_tier    ON audits(tier);
	`)
	return err
}

// Save stores a rendered report. ID and CreatedAt are assigned here and
// returned on the saved copy.
func (s *Store) Save(r Record) (Record, error) {
	r.ID = newID()
	r.CreatedAt = timeNow().UTC().Truncate(time.Second)

	_, err := s.execHook(`
		INSERT INTO audits (id, session_id, system_name, tier, autonomy_level,
			control_score, risk_score, bias_count, recommendations, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.SystemName, string(r.Tier), r.AutonomyLevel,
		r.ControlScore, r.RiskScore, r.BiasCount, r.Recommendations, r.Report,
		r.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("archive: save: %w", err)
	}
	return r, nil
}

// Recent lists the newest archived audits without their report bodies.
// A non-positive limit defaults to 10.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.queryHook(`
		SELECT id, session_id, system_name, tier, autonomy_level, control_score,
		       risk_score, bias_count, recommendations, '', created_at
		FROM audits ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("archive: recent: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one archived audit including its report. id may be a
// unique prefix of the full id, as shown by RenderRecent.
func (s *Store) Get(id string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.queryHook(`
		SELECT id, session_id, system_name, tier, autonomy_level, control_score,
		       risk_score, bias_count, recommendations, report, created_at
		FROM audits WHERE id = ? OR substr(id, 1, ?) = ?
		ORDER BY id = ? DESC LIMIT 2`, id, len(id), id, id)
	if err != nil {
		return Record{}, fmt.Errorf("archive: get %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	var found []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return Record{}, fmt.Errorf("archive: get %s: %w", id, err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("archive: get %s: %w", id, err)
	}

	switch {
	case len(found) == 0:
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return Record{}, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		r       Record
		tier    string
		created string
	)
	if err := sc.Scan(&r.ID, &r.SessionID, &r.SystemName, &tier, &r.AutonomyLevel,
		&r.ControlScore, &r.RiskScore, &r.BiasCount, &r.Recommendations, &r.Report, &created); err != nil {
		return Record{}, err
	}
	r.Tier = assessment.Tier(tier)
	t, err := time.ParseInLocation(timeLayout, created, time.UTC)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	r.CreatedAt = t
	return r, nil
}

// Stats computes dashboard figures. LastWeek counts audits saved in the
// seven days before now.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{ByTier: map[assessment.Tier]int{}}

	var avg sql.NullFloat64
	weekAgo := timeNow().UTC().Add(-7 * 24 * time.Hour).Format(timeLayout)
	err := s.db.QueryRow(`
		SELECT COUNT(*), AVG(risk_score), COALESCE(SUM(recommendations), 0),
		       COALESCE(SUM(CASE WHEN tier = ? THEN recommendations ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0)
		FROM audits`, string(assessment.TierCritical), weekAgo,
	).Scan(&st.Total, &avg, &st.Recommendations, &st.CriticalRecommendations, &st.LastWeek)
	if err != nil {
		return nil, fmt.Errorf("archive: stats: %w", err)
	}
	if avg.Valid {
		st.AverageRisk = avg.Float64
	}

	rows, err := s.queryHook(`SELECT tier, COUNT(*) FROM audits GROUP BY tier`)
	if err != nil {
		return nil, fmt.Errorf("archive: stats by tier: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			tier string
			n    int
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("archive: stats by tier: %w", err)
		}
		st.ByTier[assessment.Tier(tier)] = n
	}
	return st, rows.Err()
}
