package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userColumns is the select list shared by every query returning a full record.
const userColumns = `id::text, username, password_hash, role, account_status, activated,
	photo_url, blocked, blocked_by, created_at, updated_at`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// row abstracts pgx.Row so single-row scans work from both pool and tx queries.
type row interface {
	Scan(dest ...any) error
}

func scanUser(r row) (*User, error) {
	u := &User{}
	err := r.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.AccountStatus, &u.Activated,
		&u.PhotoURL, &u.Blocked, &u.BlockedBy, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (s *PostgresStore) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query, username, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1::uuid`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

func (s *PostgresStore) SetAccountStatus(ctx context.Context, id string, status AccountStatus) (*User, error) {
	query := `
		UPDATE users SET account_status = $2, updated_at = now()
		WHERE id = $1::uuid
		RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, query, id, status))
}

// AddToBlockList appends blockedID to the blocker's block list and blockerID
// to the blocked user's blocked-by list inside one transaction. Both updates
// are conditional on absence, which makes the operation idempotent.
func (s *PostgresStore) AddToBlockList(ctx context.Context, blockerID, blockedID string) (*BlockLists, error) {
	return s.mutateBlockLists(ctx, blockerID, blockedID, `
		UPDATE users SET blocked = array_append(blocked, $2), updated_at = now()
		WHERE id = $1::uuid AND NOT ($2 = ANY(blocked))`, `
		UPDATE users SET blocked_by = array_append(blocked_by, $2), updated_at = now()
		WHERE id = $1::uuid AND NOT ($2 = ANY(blocked_by))`)
}

func (s *PostgresStore) RemoveFromBlockList(ctx context.Context, blockerID, blockedID string) (*BlockLists, error) {
	return s.mutateBlockLists(ctx, blockerID, blockedID, `
		UPDATE users SET blocked = array_remove(blocked, $2), updated_at = now()
		WHERE id = $1::uuid`, `
		UPDATE users SET blocked_by = array_remove(blocked_by, $2), updated_at = now()
		WHERE id = $1::uuid`)
}

func (s *PostgresStore) mutateBlockLists(ctx context.Context, blockerID, blockedID, blockerQuery, blockedQuery string) (*BlockLists, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin block list transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, blockerQuery, blockerID, blockedID); err != nil {
		return nil, fmt.Errorf("failed to update block list: %w", err)
	}
	if _, err := tx.Exec(ctx, blockedQuery, blockedID, blockerID); err != nil {
		return nil, fmt.Errorf("failed to update blocked-by list: %w", err)
	}

	lists := &BlockLists{}
	err = tx.QueryRow(ctx,
		`SELECT a.blocked, b.blocked_by
		 FROM users a, users b
		 WHERE a.id = $1::uuid AND b.id = $2::uuid`,
		blockerID, blockedID,
	).Scan(&lists.Blocked, &lists.BlockedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit block list transaction: %w", err)
	}
	return lists, nil
}

func (s *PostgresStore) UpdateUsername(ctx context.Context, id, username string) (*User, error) {
	query := `
		UPDATE users SET username = $2, updated_at = now()
		WHERE id = $1::uuid
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query, id, username))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) SetProfilePhoto(ctx context.Context, id, url string) (*User, error) {
	query := `
		UPDATE users SET photo_url = $2, updated_at = now()
		WHERE id = $1::uuid
		RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, query, id, url))
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1::uuid`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Activate(ctx context.Context, id string) (*User, error) {
	query := `
		UPDATE users SET activated = TRUE, updated_at = now()
		WHERE id = $1::uuid
		RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListBanned(ctx context.Context) ([]*User, error) {
	return s.list(ctx, `SELECT `+userColumns+` FROM users WHERE account_status = $1 ORDER BY username`, StatusBanned)
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]*User, error) {
	return s.list(ctx, `SELECT `+userColumns+` FROM users WHERE NOT activated ORDER BY created_at`)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*User, error) {
	return s.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
