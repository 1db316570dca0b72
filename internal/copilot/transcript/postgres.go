package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresSink archives turns into a single table, one row per turn.
type PostgresSink struct {
	db    *sql.DB
	table string
}

func NewPostgresSink(db *sql.DB, table string) (*PostgresSink, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid transcript table name %q", table)
	}
	return &PostgresSink{db: db, table: table}, nil
}

// EnsureSchema creates the archive table when it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			turn_id    TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			surface_id TEXT NOT NULL,
			question   TEXT NOT NULL,
			topic      TEXT NOT NULL,
			urgency    TEXT NOT NULL,
			intent     JSONB NOT NULL,
			response   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresSink) Append(ctx context.Context, rec Record) error {
	intent, err := json.Marshal(rec.Intent)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}
	response, err := json.Marshal(rec.Response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (turn_id, session_id, surface_id, question, topic, urgency, intent, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (turn_id) DO NOTHING`, s.table)

	_, err = s.db.ExecContext(ctx, query,
		rec.TurnID,
		rec.SessionID,
		rec.SurfaceID,
		rec.Question,
		rec.Topic,
		string(rec.Intent.Urgency),
		intent,
		response,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert turn %s: %w", rec.TurnID, err)
	}
	return nil
}

func (s *PostgresSink) Clear(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, s.table)
	if _, err := s.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// TopicCounts returns how many archived turns each topic answered.
func (s *PostgresSink) TopicCounts(ctx context.Context) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT topic, COUNT(*) FROM %s GROUP BY topic`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count topics: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var topic string
		var n int
		if err := rows.Scan(&topic, &n); err != nil {
			return nil, fmt.Errorf("scan topic count: %w", err)
		}
		counts[topic] = n
	}
	return counts, rows.Err()
}
