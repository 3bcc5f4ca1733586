package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"groupgetaway/internal/domain"
)

func activeDestination(store *memStore) *domain.Destination {
	return store.addDestination(&domain.Destination{
		Name:               "Lisbon",
		Country:            "Portugal",
		BasePrice:          45000,
		Currency:           "EUR",
		MinGroupSize:       4,
		MaxGroupSize:       12,
		MaxDiscount:        0.25,
		DiscountPerMember:  0.03,
		ConfirmationWindow: 72 * time.Hour,
		Active:             true,
	})
}

func validInterest(destID, clientUUID string) *domain.Interest {
	return &domain.Interest{
		DestinationID: destID,
		UserName:      "Ana",
		UserEmail:     "Ana@Example.com",
		NumPeople:     2,
		DateFrom:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:        time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		ClientUUID:    clientUUID,
	}
}

const clientUUID1 = "3f1b9a52-0d9e-4e5f-8f7a-1c2d3e4f5a6b"

func TestInterestService_Submit(t *testing.T) {
	store := newMemStore()
	dest := activeDestination(store)
	svc := NewInterestService(&memInterestRepo{store: store}, &memDestinationRepo{store: store})

	in := validInterest(dest.ID, clientUUID1)
	created, err := svc.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for first submission")
	}
	if in.Status != domain.InterestStatusOpen {
		t.Errorf("expected status open, got %s", in.Status)
	}
	if in.UserEmail != "ana@example.com" {
		t.Errorf("expected normalized email, got %q", in.UserEmail)
	}
	if in.ID == "" {
		t.Error("expected ID to be set")
	}
}

func TestInterestService_Submit_Idempotent(t *testing.T) {
	store := newMemStore()
	dest := activeDestination(store)
	svc := NewInterestService(&memInterestRepo{store: store}, &memDestinationRepo{store: store})

	first := validInterest(dest.ID, clientUUID1)
	created, err := svc.Submit(context.Background(), first)
	if err != nil || !created {
		t.Fatalf("first submit: created=%v err=%v", created, err)
	}

	second := validInterest(dest.ID, clientUUID1)
	created, err = svc.Submit(context.Background(), second)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if created {
		t.Fatal("expected created=false for resubmission with the same client_uuid")
	}
	if second.ID != first.ID {
		t.Errorf("expected the stored row back, got %q vs %q", second.ID, first.ID)
	}
	if _, total, _ := (&memInterestRepo{store: store}).List(context.Background(), domain.InterestFilter{}, domain.PaginationParams{Page: 1, PageSize: 10}); total != 1 {
		t.Errorf("expected exactly one stored interest, got %d", total)
	}
}

func TestInterestService_Submit_Validation(t *testing.T) {
	store := newMemStore()
	dest := activeDestination(store)
	inactive := store.addDestination(&domain.Destination{Name: "Closed", Active: false})
	svc := NewInterestService(&memInterestRepo{store: store}, &memDestinationRepo{store: store})

	budget := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		mutate func(in *domain.Interest)
	}{
		{"missing destination", func(in *domain.Interest) { in.DestinationID = "" }},
		{"unknown destination", func(in *domain.Interest) { in.DestinationID = "dest-missing" }},
		{"inactive destination", func(in *domain.Interest) { in.DestinationID = inactive.ID }},
		{"missing name", func(in *domain.Interest) { in.UserName = "  " }},
		{"bad email", func(in *domain.Interest) { in.UserEmail = "not-an-email" }},
		{"zero people", func(in *domain.Interest) { in.NumPeople = 0 }},
		{"missing dates", func(in *domain.Interest) { in.DateFrom = time.Time{} }},
		{"inverted dates", func(in *domain.Interest) { in.DateFrom, in.DateTo = in.DateTo, in.DateFrom }},
		{"negative budget", func(in *domain.Interest) { in.BudgetMin = budget(-1) }},
		{"inverted budget", func(in *domain.Interest) { in.BudgetMin = budget(500); in.BudgetMax = budget(100) }},
		{"bad client uuid", func(in *domain.Interest) { in.ClientUUID = "not-a-uuid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInterest(dest.ID, clientUUID1)
			tt.mutate(in)
			_, err := svc.Submit(context.Background(), in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	// Nothing malformed entered the pool.
	if _, total, _ := (&memInterestRepo{store: store}).List(context.Background(), domain.InterestFilter{}, domain.PaginationParams{Page: 1, PageSize: 50}); total != 0 {
		t.Errorf("expected no stored interests, got %d", total)
	}
}
