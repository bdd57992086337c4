package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestIssueAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	token, err := Issue(userID, "user", testSecret, 30*24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Parse(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)

	parsed, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParse_ExpiredToken(t *testing.T) {
	t.Parallel()

	token, err := Issue(uuid.New(), "user", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := Parse(token, testSecret)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := Issue(uuid.New(), "user", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token, []byte("another-secret"))
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_MalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9"},
		{name: "binary", token: string([]byte{0x00, 0xff, 0x13, 0x37})},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := Parse(tt.token, testSecret)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParse_SubjectBindsToIssuedUser(t *testing.T) {
	t.Parallel()

	userA := uuid.New()
	userB := uuid.New()

	token, err := Issue(userA, "user", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token, testSecret)
	require.NoError(t, err)

	parsed, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userA, parsed)
	assert.NotEqual(t, userB, parsed)
}
