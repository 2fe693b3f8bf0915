package models

import (
	"regexp"
	"strings"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 128
	maxEmailLength    = 255
	maxFullNameLength = 255
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Session is the authenticated client context. A non-nil Session always
// carries a non-empty token.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// UserInfo is the structured record persisted alongside the raw token. It is
// what restore reads back and must parse for a persisted session to be valid.
type UserInfo struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// NewSession builds a Session from a token and the persisted user record.
// Returns nil when the token is empty, preserving the invariant that every
// Session has a token.
func NewSession(token string, info UserInfo) *Session {
	if token == "" {
		return nil
	}
	return &Session{
		Token:  token,
		UserID: info.UserID,
		Role:   info.Role,
	}
}

// LoginRequest carries the credentials for the login endpoint. Identifier is
// the user's email or username; the backend accepts either.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// SignupRequest carries the fields for the signup endpoint.
type SignupRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// LoginResponse is the payload returned by a successful login call.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// SignupResponse is the payload returned by a successful signup call. Signup
// never logs the user in; Notice tells the caller to switch to login.
type SignupResponse struct {
	UserID string `json:"userId"`
	Notice string `json:"-"`
}

// Validate checks that both credential fields are present. It reports every
// failing field rather than stopping at the first.
func (req *LoginRequest) Validate() error {
	var errs ValidationErrors

	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" {
		errs = append(errs, ValidationError{Field: "identifier", Message: "identifier is required"})
	}
	if req.Password == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "password is required"})
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Validate checks all signup constraints and reports every failing field. It
// normalizes the name and email in place.
func (req *SignupRequest) Validate() error {
	var errs ValidationErrors

	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		errs = append(errs, ValidationError{Field: "fullName", Message: "name is required"})
	} else if len(req.FullName) > maxFullNameLength {
		errs = append(errs, ValidationError{Field: "fullName", Message: "name must be less than 255 characters"})
	}

	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Email == "":
		errs = append(errs, ValidationError{Field: "email", Message: "email is required"})
	case len(req.Email) > maxEmailLength:
		errs = append(errs, ValidationError{Field: "email", Message: "email must be less than 255 characters"})
	case !emailRegex.MatchString(req.Email):
		errs = append(errs, ValidationError{Field: "email", Message: "invalid email format"})
	default:
		req.Email = strings.ToLower(req.Email)
	}

	if pwErr := validatePassword(req.Password); pwErr != nil {
		errs = append(errs, *pwErr)
	} else if req.Password != req.ConfirmPassword {
		errs = append(errs, ValidationError{Field: "confirmPassword", Message: "passwords do not match"})
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validatePassword(password string) *ValidationError {
	if len(password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters long"}
	}
	if len(password) > maxPasswordLength {
		return &ValidationError{Field: "password", Message: "password must be less than 128 characters long"}
	}
	return nil
}
