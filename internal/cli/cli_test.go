package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contact-api/internal/api/dto/v1/contact"
)

func newFakeServer(t *testing.T, status int, body string, got *contact.ContactRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SubmitPath:
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			if got != nil {
				require.NoError(t, json.NewDecoder(r.Body).Decode(got))
			}
		case "/health":
			body = `{"success":true,"data":{"status":"ok","version":"v2.0.0"}}`
			status = http.StatusOK
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestClient_Submit(t *testing.T) {
	var got contact.ContactRequest
	srv := newFakeServer(t, http.StatusOK, `{"success":true,"message":"Thanks","id":"abc"}`, &got)

	resp, err := NewClient(srv.URL+"/", time.Second).Submit(context.Background(), &contact.ContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Message: "Hello there, friend!",
	})
	require.NoError(t, err)
	assert.Equal(t, &contact.ContactResponse{Success: true, Message: "Thanks", ID: "abc"}, resp)
	assert.Equal(t, "Jane Doe", got.Name)
}

func TestClient_SubmitError(t *testing.T) {
	srv := newFakeServer(t, http.StatusBadRequest,
		`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Validation failed","details":[{"field":"email","message":"email is required"}]}}`, nil)

	_, err := NewClient(srv.URL, time.Second).Submit(context.Background(), &contact.ContactRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.NotNil(t, apiErr.Details)
}

func TestSubmitCommand(t *testing.T) {
	var got contact.ContactRequest
	srv := newFakeServer(t, http.StatusOK, `{"success":true,"message":"Thanks","id":"abc"}`, &got)

	out, _, err := run(t, "submit", "--url", srv.URL,
		"--name", "Jane Doe", "--email", "jane@example.com",
		"--message", "Hello there, friend!", "--subject", "Pricing")
	require.NoError(t, err)
	assert.Contains(t, out, "Thanks")
	assert.Contains(t, out, "Submission ID: abc")
	assert.Equal(t, "Pricing", got.Subject)
}

func TestSubmitCommand_RequiresFlags(t *testing.T) {
	_, _, err := run(t, "submit", "--name", "Jane Doe")
	assert.Error(t, err)
}

func TestSubmitCommand_PrintsDetails(t *testing.T) {
	srv := newFakeServer(t, http.StatusBadRequest,
		`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Validation failed","details":[{"field":"message","message":"message must be at least 10 characters"}]}}`, nil)

	_, errOut, err := run(t, "submit", "--url", srv.URL,
		"--name", "Jane Doe", "--email", "jane@example.com", "--message", "short")
	assert.ErrorContains(t, err, "VALIDATION_ERROR")
	assert.Contains(t, errOut, "at least 10 characters")
}

func TestVersionCommand(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, "", nil)

	out, _, err := run(t, "version", "--url", srv.URL, "--server")
	require.NoError(t, err)
	assert.Contains(t, out, "contactctl dev")
	assert.Contains(t, out, "server v2.0.0")
}
