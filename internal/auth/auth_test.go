package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	userID := uuid.New()

	signed, expiresAt, err := tokens.Issue(userID, "budi@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	creds, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, creds.UserID)
	assert.Equal(t, "budi@example.com", creds.Email)
}

func TestTokens_Parse_Rejects(t *testing.T) {
	userID := uuid.New()

	expired, _, err := auth.NewTokens("secret", -time.Minute).Issue(userID, "")
	require.NoError(t, err)

	otherSecret, _, err := auth.NewTokens("other", time.Hour).Issue(userID, "")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Expired", token: expired},
		{name: "WrongSecret", token: otherSecret},
		{name: "Garbage", token: "not-a-jwt"},
		{name: "Empty", token: ""},
	}

	tokens := auth.NewTokens("secret", time.Hour)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("rahasia123")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", hash)

	assert.NoError(t, auth.CheckPassword(hash, "rahasia123"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "salah"), auth.ErrPasswordMismatch)
}

func TestCredentialsContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	creds := auth.Credentials{UserID: uuid.New(), Email: "a@b.c"}
	got, ok := auth.FromContext(auth.WithCredentials(context.Background(), creds))
	require.True(t, ok)
	assert.Equal(t, creds, got)
}
