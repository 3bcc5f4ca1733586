package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"groupgetaway/internal/domain"
)

type destinationRepository struct {
	DB *sql.DB
}

func NewDestinationRepository(db *sql.DB) domain.DestinationRepository {
	return &destinationRepository{
		DB: db,
	}
}

const destinationColumns = `id, name, country, base_price, currency, min_group_size,
		max_group_size, max_discount, discount_per_member, confirmation_window_hours,
		itinerary, active, created_at, updated_at`

func scanDestination(row interface{ Scan(...any) error }) (*domain.Destination, error) {
	d := &domain.Destination{}
	var windowHours int
	var itineraryRaw []byte
	err := row.Scan(
		&d.ID, &d.Name, &d.Country, &d.BasePrice, &d.Currency, &d.MinGroupSize,
		&d.MaxGroupSize, &d.MaxDiscount, &d.DiscountPerMember, &windowHours,
		&itineraryRaw, &d.Active, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.ConfirmationWindow = time.Duration(windowHours) * time.Hour
	if len(itineraryRaw) > 0 {
		if err := json.Unmarshal(itineraryRaw, &d.Itinerary); err != nil {
			return nil, fmt.Errorf("unmarshal itinerary: %w", err)
		}
	}
	if d.Itinerary == nil {
		d.Itinerary = []domain.ItineraryDay{}
	}
	return d, nil
}

func (r *destinationRepository) Create(ctx context.Context, d *domain.Destination) error {
	itineraryRaw, err := json.Marshal(d.Itinerary)
	if err != nil {
		return fmt.Errorf("marshal itinerary: %w", err)
	}
	query := `
		INSERT INTO destinations (name, country, base_price, currency, min_group_size,
			max_group_size, max_discount, discount_per_member, confirmation_window_hours,
			itinerary, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		d.Name, d.Country, d.BasePrice, d.Currency, d.MinGroupSize,
		d.MaxGroupSize, d.MaxDiscount, d.DiscountPerMember, int(d.ConfirmationWindow.Hours()),
		itineraryRaw, d.Active, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
}

func (r *destinationRepository) GetByID(ctx context.Context, id string) (*domain.Destination, error) {
	query := fmt.Sprintf(`SELECT %s FROM destinations WHERE id = $1`, destinationColumns)
	d, err := scanDestination(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *destinationRepository) ListActive(ctx context.Context) ([]*domain.Destination, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM destinations
		WHERE active = true
		ORDER BY name ASC
	`, destinationColumns)
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	destinations := make([]*domain.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}
