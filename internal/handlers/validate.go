package handlers

import (
	"regexp"

	"github.com/leoyin88/user-api/internal/models"
)

// Validation rules for the canonical user shape: username 3-50 chars,
// email must look like local@domain, password at least 6 chars, age 0-150.

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 6
	ageMax         = 150
)

func validateCreate(in models.CreateUserParams) map[string]string {
	fields := make(map[string]string)
	if in.Username == "" {
		fields["username"] = "required"
	} else if len(in.Username) < usernameMinLen || len(in.Username) > usernameMaxLen {
		fields["username"] = "must be 3-50 characters"
	}
	if in.Email == "" {
		fields["email"] = "required"
	} else if !emailRe.MatchString(in.Email) {
		fields["email"] = "must be a valid email address"
	}
	if in.Password == "" {
		fields["password"] = "required"
	} else if len(in.Password) < passwordMinLen {
		fields["password"] = "must be at least 6 characters"
	}
	if in.Age != nil && (*in.Age < 0 || *in.Age > ageMax) {
		fields["age"] = "must be between 0 and 150"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// validateUpdate applies the per-field rules to present fields only.
// Absent fields are not an error here; the zero-field case is handled by the repo.
func validateUpdate(in models.UpdateUserParams) map[string]string {
	fields := make(map[string]string)
	if in.Username != nil && (len(*in.Username) < usernameMinLen || len(*in.Username) > usernameMaxLen) {
		fields["username"] = "must be 3-50 characters"
	}
	if in.Email != nil && !emailRe.MatchString(*in.Email) {
		fields["email"] = "must be a valid email address"
	}
	if in.Password != nil && len(*in.Password) < passwordMinLen {
		fields["password"] = "must be at least 6 characters"
	}
	if in.Age != nil && (*in.Age < 0 || *in.Age > ageMax) {
		fields["age"] = "must be between 0 and 150"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
