package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/models"
)

type testEnvelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Errors     []errs.FieldError `json:"errors"`
	Pagination *Pagination       `json:"pagination"`
}

// doJSON runs one request through the router, optionally pre-authenticated
// with a context user, and decodes the envelope.
func doJSON(t *testing.T, router http.Handler, method, path string, body any, user *models.User) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(ctxWithUser(req.Context(), user))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func contactFilterAll() database.ContactFilter {
	return database.ContactFilter{Page: 1, Limit: 100}
}

func fieldNames(fields []errs.FieldError) map[string]bool {
	names := make(map[string]bool, len(fields))
	for _, fe := range fields {
		names[fe.Field] = true
	}
	return names
}
