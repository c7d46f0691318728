package models

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mantisbeanstalk/internal/env"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	previous := env.JWT_SECRET
	env.JWT_SECRET = []byte(secret)
	t.Cleanup(func() { env.JWT_SECRET = previous })
}

func TestHyperUserTokenRoundTrip(t *testing.T) {
	withSecret(t, "test-secret")

	hu := HyperUser{Username: "operator", Password: "hash"}
	token := hu.GenToken()
	require.NotEmpty(t, token)

	var parsed HyperUser
	require.NoError(t, parsed.ParseToken(token))
	require.Equal(t, "operator", parsed.Username)
	require.Empty(t, parsed.Password, "password hash never goes into the token")
}

func TestHyperUserTokenWrongSecret(t *testing.T) {
	withSecret(t, "one")
	token := (&HyperUser{Username: "operator"}).GenToken()

	env.JWT_SECRET = []byte("two")

	var parsed HyperUser
	require.Error(t, parsed.ParseToken(token))
}

func TestAccountMiddleware(t *testing.T) {
	withSecret(t, "test-secret")

	app := fiber.New()
	app.Get("/private", AccountMiddleware, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	token := (&HyperUser{Username: "operator"}).GenToken()

	cases := map[string]struct {
		header string
		status int
	}{
		"valid token":   {"Bearer " + token, http.StatusOK},
		"missing":       {"", http.StatusUnauthorized},
		"no bearer":     {token, http.StatusUnauthorized},
		"garbage token": {"Bearer nope", http.StatusUnauthorized},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			res, err := app.Test(req)
			require.NoError(t, err)
			defer res.Body.Close()

			require.Equal(t, tc.status, res.StatusCode)
			if tc.status == http.StatusOK {
				body, _ := io.ReadAll(res.Body)
				require.Equal(t, "ok", string(body))
			}
		})
	}
}
