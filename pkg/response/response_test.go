package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w http.ResponseWriter)
		code    int
		success bool
		message string
	}{
		{"success", func(w http.ResponseWriter) { Success(w, http.StatusCreated, "Created", map[string]int{"n": 1}) }, http.StatusCreated, true, "Created"},
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "") }, http.StatusBadRequest, false, "Bad request"},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "Email already exists") }, http.StatusConflict, false, "Email already exists"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "Case not available") }, http.StatusNotFound, false, "Case not available"},
		{"validation", func(w http.ResponseWriter) { ValidationError(w, map[string]string{"modality": "modality is required"}) }, http.StatusBadRequest, false, "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected JSON content type, got %q", ct)
			}
			var resp Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success != tt.success || resp.Message != tt.message {
				t.Fatalf("unexpected envelope %+v", resp)
			}
		})
	}
}
