package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  bool
	}{
		{"ok", "alice", "alice@test.com", "Password1", false},
		{"empty username", "", "alice@test.com", "Password1", true},
		{"username too short", "ab", "alice@test.com", "Password1", true},
		{"bad email", "alice", "not-an-email", "Password1", true},
		{"email without tld", "alice", "alice@test", "Password1", true},
		{"password too short", "alice", "alice@test.com", "short", true},
		{"spaces only username", "   ", "alice@test.com", "Password1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRegister(ctx, tc.username, tc.email, tc.password)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "alice", "Password1"))
	assert.ErrorIs(t, v.ValidateLogin(ctx, "", "Password1"), ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "alice", ""), ErrInvalidInput)
}
