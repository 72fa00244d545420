package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quizline/trivia-services/internal/apperr"
)

func TestFailStatusMapping(t *testing.T) {
	h := &Handler{}

	cases := []struct {
		err  error
		code int
	}{
		{apperr.New(apperr.NotFound, "session 5 not found"), http.StatusNotFound},
		{apperr.New(apperr.Permission, "only the host can start the session"), http.StatusForbidden},
		{apperr.New(apperr.Validation, "team name is required"), http.StatusBadRequest},
		{apperr.New(apperr.InvalidState, "session already completed"), http.StatusConflict},
		{apperr.New(apperr.Duplicate, "answer already submitted for this round"), http.StatusConflict},
		{apperr.New(apperr.Conflict, "another request advanced the session"), http.StatusConflict},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		h.Fail(rec, c.err)
		if rec.Code != c.code {
			t.Fatalf("%v: expected %d, got %d", c.err, c.code, rec.Code)
		}

		var rsp Response
		if err := json.Unmarshal(rec.Body.Bytes(), &rsp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if rsp.Error != c.err.Error() {
			t.Fatalf("expected error %q, got %q", c.err.Error(), rsp.Error)
		}
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()

	h.Fail(rec, errors.New("pq: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var rsp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &rsp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if rsp.Error != "internal error" {
		t.Fatalf("internal detail leaked: %q", rsp.Error)
	}
}
