package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/pantry-match/internal/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthRequired(&config.Config{JWTSecret: testSecret}), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c)})
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	valid := JWTClaims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := JWTClaims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + signToken(t, testSecret, valid), fiber.StatusOK},
		{"missing header", "", fiber.StatusUnauthorized},
		{"no bearer prefix", signToken(t, testSecret, valid), fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", valid), fiber.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, expired), fiber.StatusUnauthorized},
		{"no user", "Bearer " + signToken(t, testSecret, JWTClaims{}), fiber.StatusUnauthorized},
	}

	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGetUserID_Unauthenticated(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c)})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":0}`, string(body))
}
