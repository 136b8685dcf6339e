// Package trace persists per-tick body states to SQLite so a run can be
// inspected or diffed after the fact. Uses the pure-Go modernc.org/sqlite driver.
package trace

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/gekko3d/voxbody"
)

// Recorder writes body snapshots into a SQLite database.
type Recorder struct {
	db *sql.DB
}

// State is one recorded row.
type State struct {
	Tick     uint64
	BodyID   voxbody.BodyID
	Position [3]float32
	Velocity [3]float32
	Sleeping bool
	InLiquid bool
	Liquid   string
}

// Open creates or opens the database at path and prepares the schema.
func Open(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("trace: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: cannot connect to database: %w", err)
	}

	r := &Recorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: migration failed: %w", err)
	}
	return r, nil
}

func (r *Recorder) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS body_states (
			tick INTEGER NOT NULL,
			body_id TEXT NOT NULL,
			px REAL NOT NULL, py REAL NOT NULL, pz REAL NOT NULL,
			vx REAL NOT NULL, vy REAL NOT NULL, vz REAL NOT NULL,
			sleeping INTEGER NOT NULL,
			in_liquid INTEGER NOT NULL,
			liquid TEXT NOT NULL,
			PRIMARY KEY (body_id, tick)
		);
		CREATE INDEX IF NOT EXISTS idx_body_states_tick ON body_states(tick);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record stores every snapshot of one tick in a single transaction, replacing
// anything recorded earlier for that tick.
func (r *Recorder) Record(tick uint64, snaps []voxbody.BodySnapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("trace: cannot begin transaction: %w", err)
	}

	// Re-recording a tick replaces the whole tick, including bodies that are gone.
	if _, err := tx.Exec(`DELETE FROM body_states WHERE tick = ?`, int64(tick)); err != nil {
		tx.Rollback()
		return fmt.Errorf("trace: cannot clear tick %d: %w", tick, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO body_states
		(tick, body_id, px, py, pz, vx, vy, vz, sleeping, in_liquid, liquid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("trace: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range snaps {
		p, v := s.Position, s.Velocity
		_, err := stmt.Exec(int64(tick), string(s.ID),
			float64(p[0]), float64(p[1]), float64(p[2]),
			float64(v[0]), float64(v[1]), float64(v[2]),
			s.Sleeping, s.InLiquid, s.Liquid.String())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("trace: cannot record body %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("trace: cannot commit tick %d: %w", tick, err)
	}
	return nil
}

// States returns the history of one body ordered by tick.
func (r *Recorder) States(id voxbody.BodyID) ([]State, error) {
	rows, err := r.db.Query(
		`SELECT tick, body_id, px, py, pz, vx, vy, vz, sleeping, in_liquid, liquid
		 FROM body_states
		 WHERE body_id = ?
		 ORDER BY tick`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot query states: %w", err)
	}
	defer rows.Close()

	var states []State
	for rows.Next() {
		var s State
		var tick int64
		var bodyID string
		if err := rows.Scan(&tick, &bodyID,
			&s.Position[0], &s.Position[1], &s.Position[2],
			&s.Velocity[0], &s.Velocity[1], &s.Velocity[2],
			&s.Sleeping, &s.InLiquid, &s.Liquid); err != nil {
			return nil, fmt.Errorf("trace: cannot scan row: %w", err)
		}
		s.Tick = uint64(tick)
		s.BodyID = voxbody.BodyID(bodyID)
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: row iteration error: %w", err)
	}
	return states, nil
}

// TickCount returns the number of distinct ticks recorded.
func (r *Recorder) TickCount() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(DISTINCT tick) FROM body_states`).Scan(&n); err != nil {
		return 0, fmt.Errorf("trace: cannot count ticks: %w", err)
	}
	return n, nil
}
