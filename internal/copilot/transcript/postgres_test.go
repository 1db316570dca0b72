package transcript

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestNewPostgresSink_RejectsBadTableName(t *testing.T) {
	db, _ := setupMockDB(t)

	for _, name := range []string{"", "Copilot", "turns; DROP TABLE x", "1turns", "public.turns"} {
		_, err := NewPostgresSink(db, name)
		assert.Error(t, err, name)
	}

	_, err := NewPostgresSink(db, "copilot_turns")
	assert.NoError(t, err)
}

func TestPostgresSink_EnsureSchema(t *testing.T) {
	db, mock := setupMockDB(t)
	sink, err := NewPostgresSink(db, "copilot_turns")
	require.NoError(t, err)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS copilot_turns`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, sink.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_Append(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{name: "inserted"},
		{name: "database error", execErr: errors.New("connection reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			sink, err := NewPostgresSink(db, "copilot_turns")
			require.NoError(t, err)
			rec := createTestRecord("t1", "s1")

			exec := mock.ExpectExec(`INSERT INTO copilot_turns \(turn_id, session_id, surface_id, question, topic, urgency, intent, response, created_at\)`).
				WithArgs("t1", "s1", "overview", rec.Question, "revenue", "normal", sqlmock.AnyArg(), sqlmock.AnyArg(), rec.Timestamp)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err = sink.Append(context.Background(), rec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "insert turn t1")
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresSink_Clear(t *testing.T) {
	db, mock := setupMockDB(t)
	sink, err := NewPostgresSink(db, "copilot_turns")
	require.NoError(t, err)

	mock.ExpectExec(`DELETE FROM copilot_turns WHERE session_id = \$1`).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, sink.Clear(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_TopicCounts(t *testing.T) {
	db, mock := setupMockDB(t)
	sink, err := NewPostgresSink(db, "copilot_turns")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"topic", "count"}).
		AddRow("revenue", 12).
		AddRow("loyalty", 4)
	mock.ExpectQuery(`SELECT topic, COUNT\(\*\) FROM copilot_turns GROUP BY topic`).
		WillReturnRows(rows)

	counts, err := sink.TopicCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"revenue": 12, "loyalty": 4}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
