package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
)

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		password   string
		wantFields []string
	}{
		{
			name:       "valid",
			identifier: "alice@example.com",
			password:   "secret1",
		},
		{
			name:       "empty_password",
			identifier: "alice@example.com",
			password:   "",
			wantFields: []string{"password"},
		},
		{
			name:       "empty_identifier",
			identifier: "   ",
			password:   "secret1",
			wantFields: []string{"identifier"},
		},
		{
			name:       "both_empty",
			identifier: "",
			password:   "",
			wantFields: []string{"identifier", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &models.LoginRequest{Identifier: tt.identifier, Password: tt.password}
			err := req.Validate()

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verrs models.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, verrs[i].Field)
			}
		})
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	valid := models.SignupRequest{
		FullName:        "Alice Smith",
		Email:           "Alice@Example.com",
		Password:        "abc123",
		ConfirmPassword: "abc123",
	}

	t.Run("valid_normalizes_email", func(t *testing.T) {
		req := valid
		require.NoError(t, req.Validate())
		assert.Equal(t, "alice@example.com", req.Email)
	})

	t.Run("short_password_rejected", func(t *testing.T) {
		req := valid
		req.Password = "abc12"
		req.ConfirmPassword = "abc12"

		err := req.Validate()
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "password", verrs[0].Field)
	})

	t.Run("confirmation_mismatch", func(t *testing.T) {
		req := valid
		req.ConfirmPassword = "abc124"

		err := req.Validate()
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "confirmPassword", verrs[0].Field)
	})

	t.Run("bad_email_format", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"

		err := req.Validate()
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 1)
		assert.Equal(t, "email", verrs[0].Field)
	})

	t.Run("all_constraints_reported", func(t *testing.T) {
		req := models.SignupRequest{}

		err := req.Validate()
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 3) // name, email, password
	})
}

func TestNewSession(t *testing.T) {
	t.Run("empty_token_yields_nil", func(t *testing.T) {
		assert.Nil(t, models.NewSession("", models.UserInfo{UserID: "u1"}))
	})

	t.Run("populated", func(t *testing.T) {
		s := models.NewSession("tok", models.UserInfo{UserID: "u1", Role: "admin"})
		require.NotNil(t, s)
		assert.Equal(t, "tok", s.Token)
		assert.Equal(t, "u1", s.UserID)
		assert.Equal(t, "admin", s.Role)
	})
}

func TestAuthError_Is(t *testing.T) {
	err := models.NewInvalidCredentials("nope")
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
	assert.False(t, errors.Is(err, models.ErrUserExists))

	assert.True(t, errors.Is(models.NewUserExists("dup"), models.ErrUserExists))
	assert.True(t, errors.Is(models.NewInvalidResponse("no token"), models.ErrInvalidResponse))
	assert.True(t, errors.Is(models.NewAuthUnavailable("boom"), models.ErrAuthUnavailable))
}

func TestDataUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &models.DataUnavailableError{Resource: "orders", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "orders")

	httpErr := &models.DataUnavailableError{Resource: "products", StatusCode: 500}
	assert.Contains(t, httpErr.Error(), "500")
}
