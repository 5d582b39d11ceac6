package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical", "09:00:00", "10:00:00", "09:00:00", "10:00:00", true},
		{"contained", "09:00:00", "12:00:00", "10:00:00", "11:00:00", true},
		{"partial", "09:00:00", "10:30:00", "10:00:00", "11:00:00", true},
		{"touching end-to-start", "09:00:00", "10:00:00", "10:00:00", "11:00:00", false},
		{"touching start-to-end", "10:00:00", "11:00:00", "09:00:00", "10:00:00", false},
		{"disjoint", "09:00:00", "10:00:00", "13:00:00", "14:00:00", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Overlaps(c.s1, c.e1, c.s2, c.e2))
			assert.Equal(t, c.want, Overlaps(c.s2, c.e2, c.s1, c.e1))
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:30:00", NormalizeClock("09:30"))
	assert.Equal(t, "09:30:15", NormalizeClock("09:30:15"))
}

func TestParseStartInstant(t *testing.T) {
	instant, err := ParseStartInstant("2025-03-10", "09:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local), instant)

	_, err = ParseStartInstant("2025-03-10", "not-a-clock")
	assert.Error(t, err)
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("s3cret!pass")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret!pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestJWTRoundtrip(t *testing.T) {
	token, err := GenerateJWT("intern@example.com", 42, "intern")
	assert.NoError(t, err)

	claims, err := ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "intern@example.com", claims.Username)
	assert.Equal(t, "intern", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestGenerateOTP(t *testing.T) {
	for range 20 {
		code := GenerateOTP()
		assert.Len(t, code, 6)
	}
}

func TestWithSuffix(t *testing.T) {
	t.Setenv("API_ENV", "")
	assert.Equal(t, "notifications-local", WithSuffix("notifications"))

	t.Setenv("API_ENV", "staging")
	assert.Equal(t, "notifications-staging", WithSuffix("notifications"))
}
