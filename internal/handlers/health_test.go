package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"notemind-ai/internal/storage"
)

type fixedEmbeddingStatus bool

func (f fixedEmbeddingStatus) IsEnabled() bool { return bool(f) }

func TestHealthHandler(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	tests := []struct {
		name           string
		embeddings     fixedEmbeddingStatus
		wantEmbeddings string
	}{
		{name: "embeddings enabled", embeddings: true, wantEmbeddings: "enabled"},
		{name: "embeddings disabled is degraded not unhealthy", embeddings: false, wantEmbeddings: "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(db, tt.embeddings)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != "ok" || resp.Embeddings != tt.wantEmbeddings {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	_ = db.Close()

	handler := NewHealthHandler(db, fixedEmbeddingStatus(true))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "unhealthy" || resp.Database != "unreachable" {
		t.Errorf("response = %+v", resp)
	}
}
