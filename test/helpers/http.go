package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"mantisbeanstalk/internal/errmsg"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

func RequestRunner(
	t *testing.T,
	app *fiber.App,
	method string,
	path string,
	contentType string,
	sendBytes []byte,
	token *string,
) (bodyBytes []byte, statusCode int) {
	t.Helper()

	req, err := http.NewRequest(
		method,
		path,
		bytes.NewBuffer(sendBytes),
	)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	// send request to the shared app
	res, err := app.Test(req, fiber.TestConfig{Timeout: 30 * time.Second})
	require.NoError(t, err)
	defer res.Body.Close()

	statusCode = res.StatusCode

	bodyBytes, err = io.ReadAll(res.Body)
	require.NoError(t, err)

	return
}

// PostForm sends fields url-encoded to path.
func PostForm(
	t *testing.T,
	app *fiber.App,
	path string,
	fields map[string]string,
) (bodyBytes []byte, statusCode int) {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	return RequestRunner(t, app,
		http.MethodPost,
		path,
		ContentTypeForm,
		[]byte(form.Encode()),
		nil,
	)
}

func ResponseErrorCheck(
	t *testing.T,
	serr errmsg.StatusError,
	bodyBytes []byte,
	statusCode int,
) {
	t.Helper()

	require.Equal(t, serr.StatusCode, statusCode, "body: %s", bodyBytes)

	var body struct {
		Message string `json:"message"`
	}
	err := json.Unmarshal(bodyBytes, &body)
	require.NoError(t, err)

	require.Equal(t, serr.Message, body.Message)
}
