package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSettingsHandler_SetAndGet(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	body, _ := json.Marshal(setSettingRequest{Value: "Left"})
	req := httptest.NewRequest(http.MethodPut, "/api/settings/handedness", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response settingResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Key != "handedness" || response.Value != "Left" {
		t.Errorf("unexpected response: %+v", response)
	}

	// Read it back
	req = httptest.NewRequest(http.MethodGet, "/api/settings/handedness", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Value != "Left" {
		t.Errorf("expected value 'Left', got %q", response.Value)
	}
}

func TestSettingsHandler_Set_Overwrites(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	for _, value := range []string{"5", "15"} {
		body, _ := json.Marshal(setSettingRequest{Value: value})
		req := httptest.NewRequest(http.MethodPut, "/api/settings/idle_fps", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("PUT %s: expected status %d, got %d", value, http.StatusOK, rec.Code)
		}
	}

	value, err := s.Settings().Get("idle_fps")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "15" {
		t.Errorf("expected stored value '15', got %q", value)
	}
}

func TestSettingsHandler_Set_InvalidJSON(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	req := httptest.NewRequest(http.MethodPut, "/api/settings/handedness", bytes.NewReader([]byte("invalid json")))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSettingsHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	if err := s.Settings().Set("handedness", "Right"); err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}
	if err := s.Settings().Set("mirror", "true"); err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listSettingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Settings) != 2 {
		t.Errorf("expected 2 settings, got %d", len(response.Settings))
	}
	if response.Settings["handedness"] != "Right" {
		t.Errorf("expected handedness 'Right', got %q", response.Settings["handedness"])
	}
}

func TestSettingsHandler_Get_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/settings/non-existent", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSettingsHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	if err := s.Settings().Set("mirror", "true"); err != nil {
		t.Fatalf("failed to seed setting: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/settings/mirror", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	// Verify the setting is gone
	req = httptest.NewRequest(http.MethodGet, "/api/settings/mirror", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSettingsHandler_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	req := httptest.NewRequest(http.MethodDelete, "/api/settings/non-existent", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/settings", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
