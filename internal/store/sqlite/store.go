// Package sqlite persists games and responses in SQLite via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/store/sqlitemigrate"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const gameColumns = `id, organization_id, creator_id, game_date, game_time, venue, city, opponent,
jersey_color, notes, status, score, result, created_at, updated_at`

// Store is a SQLite-backed game store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers inside the process and keeps pragmas consistent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, db, migrationFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateGame inserts a new game; a duplicate id is a conflict.
func (s *Store) CreateGame(ctx context.Context, g games.Game) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO games (`+gameColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OrganizationID, g.CreatorID, g.Date, g.Time, g.Venue, g.City, g.Opponent,
		g.JerseyColor, g.Notes, string(g.Status), g.Score, string(g.Result),
		toMillis(g.CreatedAt), toMillis(g.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return games.Conflict("create", g.ID, err)
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// GetGame loads a game by id.
func (s *Store) GetGame(ctx context.Context, id string) (games.Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return games.Game{}, games.NotFound("get", id)
	}
	if err != nil {
		return games.Game{}, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// ListGames returns the organization's games ordered by creation time.
func (s *Store) ListGames(ctx context.Context, orgID string) ([]games.Game, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if orgID == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY created_at, id`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games WHERE organization_id = ? ORDER BY created_at, id`, orgID)
	}
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	result := make([]games.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return result, nil
}

// SaveGame overwrites the mutable columns of an existing game.
func (s *Store) SaveGame(ctx context.Context, g games.Game) error {
	res, err := s.db.ExecContext(ctx, `UPDATE games SET
    game_date = ?, game_time = ?, venue = ?, city = ?, opponent = ?, jersey_color = ?,
    notes = ?, status = ?, score = ?, result = ?, updated_at = ?
WHERE id = ?`,
		g.Date, g.Time, g.Venue, g.City, g.Opponent, g.JerseyColor,
		g.Notes, string(g.Status), g.Score, string(g.Result), toMillis(g.UpdatedAt),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return requireRow(res, "save", g.ID)
}

// DeleteGame removes a game and its responses in one transaction.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_responses WHERE game_id = ?`, id); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if err := requireRow(res, "delete", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// UpsertResponse inserts the member's response or overwrites it in place.
func (s *Store) UpsertResponse(ctx context.Context, r games.Response) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO game_responses (game_id, member_id, is_available, responded_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(game_id, member_id) DO UPDATE SET
    is_available = excluded.is_available,
    responded_at = excluded.responded_at`,
		r.GameID, r.MemberID, boolToInt(r.IsAvailable), toMillis(r.RespondedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return games.NotFound("respond", r.GameID)
		}
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

// DeleteResponse removes the member's response if present.
func (s *Store) DeleteResponse(ctx context.Context, gameID, memberID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM game_responses WHERE game_id = ? AND member_id = ?`, gameID, memberID); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	return nil
}

// ListResponses returns the game's responses ordered by response time.
func (s *Store) ListResponses(ctx context.Context, gameID string) ([]games.Response, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT game_id, member_id, is_available, responded_at
FROM game_responses WHERE game_id = ? ORDER BY responded_at, member_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	result := make([]games.Response, 0)
	for rows.Next() {
		var (
			r         games.Response
			available int
			at        int64
		)
		if err := rows.Scan(&r.GameID, &r.MemberID, &available, &at); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.IsAvailable = available != 0
		r.RespondedAt = fromMillis(at)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (games.Game, error) {
	var (
		g                  games.Game
		status, result     string
		createdAt, updated int64
	)
	err := row.Scan(&g.ID, &g.OrganizationID, &g.CreatorID, &g.Date, &g.Time, &g.Venue, &g.City,
		&g.Opponent, &g.JerseyColor, &g.Notes, &status, &g.Score, &result, &createdAt, &updated)
	if err != nil {
		return games.Game{}, err
	}
	g.Status = games.Status(status)
	g.Result = games.Result(result)
	g.CreatedAt = fromMillis(createdAt)
	g.UpdatedAt = fromMillis(updated)
	return g, nil
}

func requireRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return games.NotFound(op, id)
	}
	return nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "primary key")
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
