package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jparr721/boysdotapp/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	room_id    TEXT NOT NULL REFERENCES rooms(id),
	text       TEXT NOT NULL,
	sender     TEXT NOT NULL,
	timestamp  INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_room_ts ON messages(room_id, timestamp);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply an alternative schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; this also makes
	// concurrent appends to the same room serialize at the driver.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureRoom creates the room if absent; re-creating is a no-op.
func (s *SQLiteStore) EnsureRoom(ctx context.Context, id string) error {
	query := `
		INSERT OR IGNORE INTO rooms (id) VALUES (?)
	`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("insert room: %w", err)
	}

	return nil
}

// RoomExists reports whether a room with the given id exists.
func (s *SQLiteStore) RoomExists(ctx context.Context, id string) (bool, error) {
	query := `SELECT 1 FROM rooms WHERE id = ?`

	var exists int
	err := s.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query room: %w", err)
	}

	return true, nil
}

// ListRoomIDs returns all known room identifiers, newest first.
func (s *SQLiteStore) ListRoomIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM rooms ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan room id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// AppendMessage persists one message, creating the owning room first
// so a message row never references a missing room.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *store.Message) error {
	if err := s.EnsureRoom(ctx, msg.RoomID); err != nil {
		return fmt.Errorf("ensure room: %w", err)
	}

	query := `
		INSERT INTO messages (id, room_id, text, sender, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, msg.ID, msg.RoomID, msg.Text, msg.Sender, msg.Timestamp); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// ListMessages returns all messages for a room ordered by timestamp
// ascending; ties fall back to rowid, which is insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context, roomID string) ([]*store.Message, error) {
	query := `
		SELECT id, room_id, text, sender, timestamp
		FROM messages
		WHERE room_id = ?
		ORDER BY timestamp ASC, rowid ASC
	`
	rows, err := s.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.Text, &msg.Sender, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}
