package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"groupgetaway/internal/delivery/http/helpers"
	"groupgetaway/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type mockInterestService struct {
	created   bool
	interests []*domain.Interest
	err       error
}

func (m *mockInterestService) Submit(ctx context.Context, in *domain.Interest) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	in.ID = "int-1"
	in.Status = domain.InterestStatusOpen
	return m.created, nil
}

func (m *mockInterestService) List(ctx context.Context, filter domain.InterestFilter, p domain.PaginationParams) ([]*domain.Interest, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.interests, len(m.interests), nil
}

const createInterestBody = `{
	"destination_id": "dest-1",
	"user_name": "Ana",
	"user_email": "ana@example.com",
	"num_people": 2,
	"date_from": "2026-06-01",
	"date_to": "2026-06-10",
	"client_uuid": "3f1b9a52-0d9e-4e5f-8f7a-1c2d3e4f5a6b"
}`

func TestInterestController_Create_New(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{created: true})

	req := httptest.NewRequest(http.MethodPost, "/interests", strings.NewReader(createInterestBody))
	w := httptest.NewRecorder()
	ctrl.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}

func TestInterestController_Create_Replay(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{created: false})

	req := httptest.NewRequest(http.MethodPost, "/interests", strings.NewReader(createInterestBody))
	w := httptest.NewRecorder()
	ctrl.Create(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d for replay, got %d", http.StatusOK, w.Code)
	}
}

func TestInterestController_Create_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing fields", `{"user_name": "Ana"}`},
		{"bad date", strings.Replace(createInterestBody, "2026-06-01", "June 1st", 1)},
		{"zero people", strings.Replace(createInterestBody, `"num_people": 2`, `"num_people": 0`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewInterestController(testLogger(), &mockInterestService{created: true})
			req := httptest.NewRequest(http.MethodPost, "/interests", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			ctrl.Create(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestInterestController_Create_InvalidInput(t *testing.T) {
	svc := &mockInterestService{err: fmt.Errorf("%w: unknown destination", domain.ErrInvalidInput)}
	ctrl := NewInterestController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/interests", strings.NewReader(createInterestBody))
	w := httptest.NewRecorder()
	ctrl.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %v", resp.Error)
	}
}

func TestInterestController_Create_ServiceError(t *testing.T) {
	ctrl := NewInterestController(testLogger(), &mockInterestService{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodPost, "/interests", strings.NewReader(createInterestBody))
	w := httptest.NewRecorder()
	ctrl.Create(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestInterestController_List(t *testing.T) {
	svc := &mockInterestService{
		interests: []*domain.Interest{
			{ID: "int-1", DestinationID: "dest-1", Status: domain.InterestStatusOpen},
			{ID: "int-2", DestinationID: "dest-1", Status: domain.InterestStatusMatched},
		},
	}
	ctrl := NewInterestController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/interests?destination_id=dest-1", nil)
	w := httptest.NewRecorder()
	ctrl.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data  InterestListResponse `json:"data"`
		Error *helpers.APIError    `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data.Interests) != 2 {
		t.Errorf("expected 2 interests, got %d", len(resp.Data.Interests))
	}
	if resp.Data.Pagination.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Data.Pagination.Total)
	}
}
