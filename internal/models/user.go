package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          *int      `json:"age,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserParams carries the canonical create shape. Password is plaintext
// here and hashed before it reaches the repo.
type CreateUserParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
}

// UpdateUserParams is a struct of optionals for partial updates.
// A nil pointer means the field was absent from the request and the stored
// value must be left unchanged. Password, when present, is already hashed.
type UpdateUserParams struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

// IsEmpty reports whether no field is present at all.
func (p UpdateUserParams) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil && p.Age == nil
}
