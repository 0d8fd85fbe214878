package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fkhayef/reimburse/internal/database"
)

const selectUser = `
	SELECT u.id, u.username, u.email, u.password_hash, u.is_active, u.is_staff, u.is_superuser,
	       u.created_by, c.username, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN users c ON c.id = u.created_by
`

// Repository handles user data persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var (
		u           User
		createdBy   sql.NullInt64
		creatorName sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.IsSuperuser,
		&createdBy,
		&creatorName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.CreatedBy = NewRef(createdBy, creatorName)
	return &u, nil
}

func (r *Repository) getOne(ctx context.Context, what, where string, args ...any) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", what, err)
	}
	return u, nil
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, is_active, is_staff, is_superuser, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`

	var createdBy any
	if u.CreatedBy != nil {
		createdBy = u.CreatedBy.ID
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser, createdBy, database.Now(),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			if strings.Contains(err.Error(), "idx_users_email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "id", `WHERE u.id = $1`, id)
}

// GetByUsername retrieves a user by exact username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, "username", `WHERE u.username = $1`, username)
}

// GetByEmail retrieves a user by email, ignoring case. Non-empty emails are unique.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, "email", `WHERE LOWER(u.email) = LOWER($1) AND u.email <> ''`, email)
}

// EmailTaken reports whether another user already has email, ignoring case
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	if email == "" {
		return false, nil
	}
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)`
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UsernameTaken reports whether another user already has username
func (r *Repository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`
	if err := r.db.QueryRowContext(ctx, query, username, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// ListStaff retrieves staff users with pagination
func (r *Repository) ListStaff(ctx context.Context, limit, offset int) ([]*User, int, error) {
	// Get total count
	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE is_staff = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, true).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, selectUser+`
		WHERE u.is_staff = $1
		ORDER BY u.id
		LIMIT $2 OFFSET $3
	`, true, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

// Changes is a partial update of a user. Nil fields are left untouched.
type Changes struct {
	Username     *string
	PasswordHash *string
	IsActive     *bool
}

// Update applies changes to an existing user
func (r *Repository) Update(ctx context.Context, id int64, c Changes) (*User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    password_hash = COALESCE($3, password_hash),
		    is_active = COALESCE($4, is_active),
		    updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, c.Username, c.PasswordHash, c.IsActive, database.Now())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// SetPassword replaces the stored hash inside q, which may be a transaction
func (r *Repository) SetPassword(ctx context.Context, q database.Querier, id int64, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := q.ExecContext(ctx, query, id, hash, database.Now()); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}
