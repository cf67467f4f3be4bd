package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leoyin88/user-api/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = "id, username, email, password_hash, age, created_at, updated_at"

// ==========================
// Create User
// ==========================

// Create inserts a row and returns the persisted record including the
// generated id and server-set timestamps. A duplicate email surfaces as
// ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, age)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	row := r.DB.QueryRowContext(ctx, query,
		params.Username, params.Email, params.Password, params.Age)

	return scanUser(row)
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

// ==========================
// Get By Email
// ==========================
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

// ==========================
// Update User (partial)
// ==========================

// Update builds the SET clause from only the fields present in params,
// iterating a fixed field list so column names never come from input keys.
// Clause order is deterministic: username, email, password_hash, age, then
// updated_at. The id is always the final bound parameter. A present field
// equal to its stored value is still rewritten; there is no diffing.
//
// Returns ErrNoFields when params is empty (storage untouched) and
// ErrNotFound when no row matches the id.
func (r *UserRepo) Update(ctx context.Context, id int, params models.UpdateUserParams) (*models.User, error) {
	if params.IsEmpty() {
		return nil, ErrNoFields
	}

	setClauses := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if params.Username != nil {
		add("username", *params.Username)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Password != nil {
		add("password_hash", *params.Password)
	}
	if params.Age != nil {
		add("age", *params.Age)
	}
	setClauses = append(setClauses, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING `+userColumns,
		strings.Join(setClauses, ", "), len(args))

	return scanUser(r.DB.QueryRowContext(ctx, query, args...))
}

// ==========================
// Delete User
// ==========================

// Delete removes the row. ErrNotFound distinguishes a missing id from success.
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ==========================
// List Users
// ==========================

// List returns every row ordered by id ascending.
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Age, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repo: scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// scanUser centralizes single-row column mapping so a shape mismatch fails
// in one place.
func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Age, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}
