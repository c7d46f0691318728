package helpers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func API_HyperUsersLogin(
	t *testing.T,
	app *fiber.App,
	username string,
	password string,
) (bodyBytes []byte, statusCode int) {
	// payload for login request
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: username,
		Password: password,
	}

	// marshalling the payload into JSON
	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	return RequestRunner(t, app,
		http.MethodPost,
		"/mantis/hyperusers/login",
		ContentTypeJSON,
		sendBytes,
		nil,
	)
}

func API_HyperUsersPing(
	t *testing.T,
	app *fiber.App,
) (bodyBytes []byte, statusCode int) {
	return RequestRunner(t, app,
		http.MethodGet,
		"/mantis/hyperusers/ping",
		"",
		nil,
		nil,
	)
}

func API_ListAudits(
	t *testing.T,
	app *fiber.App,
	token *string,
	query string,
) (bodyBytes []byte, statusCode int) {
	path := "/mantis/audits"
	if query != "" {
		path += "?" + query
	}

	return RequestRunner(t, app,
		http.MethodGet,
		path,
		"",
		nil,
		token,
	)
}
