package user_models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/utils"
)

const userColumns = `id, first_name, last_name, email, password_hash, phone_number, role, token_version, created_at`

// Repository persists users in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.PhoneNumber, &u.Role, &u.TokenVersion, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.NewError(utils.KindNotFound, "user not found", err)
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a user. The password must already be hashed.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	if u.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUIDv7: %w", err)
		}
		u.ID = id
	}
	if u.Role == "" {
		u.Role = utils.RoleUser
	}
	u.Email = NormalizeEmail(u.Email)
	u.CreatedAt = time.Now()

	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.PhoneNumber, u.Role, u.TokenVersion, u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, utils.NewError(utils.KindConflict, "email is already registered", err)
		}
		logger.ErrorLogger.Errorf("Failed to create user %s: %v", u.Email, err)
		return nil, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email)))
}

// List returns all users, newest first.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// UpdateFields updates whitelisted profile columns and returns the stored user.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) (*User, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	allowedUpdateFields := map[string]bool{
		"first_name":   true,
		"last_name":    true,
		"email":        true,
		"phone_number": true,
		"role":         true,
	}

	setClauses := []string{}
	args := []any{}
	for field, value := range updates {
		if !allowedUpdateFields[field] {
			return nil, fmt.Errorf("field '%s' is not allowed for updates", field)
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s", strings.Join(setClauses, ", "), len(args), userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, utils.NewError(utils.KindConflict, "email is already registered", err)
		}
		return nil, err
	}
	return u, nil
}

// UpdatePassword stores a new hash and bumps token_version so older tokens stop working.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE users SET password_hash = $1, token_version = token_version + 1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.NewError(utils.KindNotFound, "user not found", nil)
	}
	return tx.Commit(ctx)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return utils.NewError(utils.KindNotFound, "user not found", nil)
	}
	return nil
}
