package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// ErrSchemaTooNew is returned when the history file was written by a newer
// build that knows schema steps this one does not.
var ErrSchemaTooNew = errors.New("history: database schema is newer than this build")

// SchemaInfo describes the history schema after NewStore upgraded it.
type SchemaInfo struct {
	Version int      // newest step recorded in the database
	Applied []string // steps applied by this open, oldest first
}

// schemaStep is one numbered file under schema/, e.g. 002_target_urls_url_idx.sql.
type schemaStep struct {
	version int
	name    string
	body    string
}

func schemaSteps() ([]schemaStep, error) {
	names, err := schemaFiles.ReadDir("schema")
	if err != nil {
		return nil, fmt.Errorf("history: list schema: %w", err)
	}
	steps := make([]schemaStep, 0, len(names))
	for _, n := range names {
		num, label, ok := strings.Cut(strings.TrimSuffix(n.Name(), ".sql"), "_")
		if !ok || n.IsDir() {
			continue
		}
		v, err := strconv.Atoi(num)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("history: schema file %s has no step number", n.Name())
		}
		body, err := schemaFiles.ReadFile(path.Join("schema", n.Name()))
		if err != nil {
			return nil, fmt.Errorf("history: read %s: %w", n.Name(), err)
		}
		steps = append(steps, schemaStep{version: v, name: label, body: string(body)})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	for i := 1; i < len(steps); i++ {
		if steps[i].version == steps[i-1].version {
			return nil, fmt.Errorf("history: schema step %d defined twice", steps[i].version)
		}
	}
	return steps, nil
}

// upgradeSchema brings db up to the newest embedded step. Each step commits
// together with its history_schema row, so a crash never leaves a step half
// recorded.
func upgradeSchema(db *sql.DB) (SchemaInfo, error) {
	var info SchemaInfo
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS history_schema (
		version    INTEGER PRIMARY KEY,
		name       VARCHAR NOT NULL,
		applied_at TIMESTAMP DEFAULT current_timestamp
	)`); err != nil {
		return info, fmt.Errorf("history: create history_schema: %w", err)
	}

	var recorded sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM history_schema").Scan(&recorded); err != nil {
		return info, fmt.Errorf("history: read schema version: %w", err)
	}
	info.Version = int(recorded.Int64)

	steps, err := schemaSteps()
	if err != nil {
		return info, err
	}
	if n := len(steps); n > 0 && info.Version > steps[n-1].version {
		return info, fmt.Errorf("%w: database at step %d, build knows %d", ErrSchemaTooNew, info.Version, steps[n-1].version)
	}

	for _, st := range steps {
		if st.version <= info.Version {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return info, fmt.Errorf("history: schema step %d: %w", st.version, err)
		}
		if _, err := tx.Exec(st.body); err != nil {
			_ = tx.Rollback()
			return info, fmt.Errorf("history: schema step %d (%s): %w", st.version, st.name, err)
		}
		if _, err := tx.Exec("INSERT INTO history_schema (version, name) VALUES (?, ?)", st.version, st.name); err != nil {
			_ = tx.Rollback()
			return info, fmt.Errorf("history: record schema step %d: %w", st.version, err)
		}
		if err := tx.Commit(); err != nil {
			return info, fmt.Errorf("history: commit schema step %d: %w", st.version, err)
		}
		info.Version = st.version
		info.Applied = append(info.Applied, st.name)
	}
	return info, nil
}
