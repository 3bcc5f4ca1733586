package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"groupgetaway/internal/domain"
)

type interestRepository struct {
	DB *sql.DB
}

func NewInterestRepository(db *sql.DB) domain.InterestRepository {
	return &interestRepository{
		DB: db,
	}
}

const interestColumns = `id, destination_id, user_name, user_email, user_phone, num_people,
		date_from, date_to, budget_min, budget_max, special_requests, client_uuid,
		status, group_id, created_at, updated_at`

func scanInterest(row interface{ Scan(...any) error }) (*domain.Interest, error) {
	in := &domain.Interest{}
	var phoneNull, requestsNull, groupIDNull sql.NullString
	var budgetMinNull, budgetMaxNull sql.NullFloat64
	err := row.Scan(
		&in.ID, &in.DestinationID, &in.UserName, &in.UserEmail, &phoneNull, &in.NumPeople,
		&in.DateFrom, &in.DateTo, &budgetMinNull, &budgetMaxNull, &requestsNull, &in.ClientUUID,
		&in.Status, &groupIDNull, &in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phoneNull.Valid {
		in.UserPhone = &phoneNull.String
	}
	if requestsNull.Valid {
		in.SpecialRequests = &requestsNull.String
	}
	if groupIDNull.Valid {
		in.GroupID = &groupIDNull.String
	}
	if budgetMinNull.Valid {
		in.BudgetMin = &budgetMinNull.Float64
	}
	if budgetMaxNull.Valid {
		in.BudgetMax = &budgetMaxNull.Float64
	}
	return in, nil
}

// Create inserts the interest; client_uuid carries a unique constraint so a
// resubmission does not insert a second row. On conflict the stored row is
// loaded back into in and created=false is returned.
func (r *interestRepository) Create(ctx context.Context, in *domain.Interest) (bool, error) {
	query := `
		INSERT INTO interests (destination_id, user_name, user_email, user_phone, num_people,
			date_from, date_to, budget_min, budget_max, special_requests, client_uuid,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (client_uuid) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		in.DestinationID, in.UserName, in.UserEmail, in.UserPhone, in.NumPeople,
		in.DateFrom, in.DateTo, in.BudgetMin, in.BudgetMax, in.SpecialRequests, in.ClientUUID,
		in.Status, in.CreatedAt, in.UpdatedAt,
	).Scan(&in.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	existing, err := r.getByClientUUID(ctx, in.ClientUUID)
	if err != nil {
		return false, err
	}
	*in = *existing
	return false, nil
}

func (r *interestRepository) getByClientUUID(ctx context.Context, clientUUID string) (*domain.Interest, error) {
	query := fmt.Sprintf(`SELECT %s FROM interests WHERE client_uuid = $1`, interestColumns)
	in, err := scanInterest(r.DB.QueryRowContext(ctx, query, clientUUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return in, nil
}

func (r *interestRepository) GetByID(ctx context.Context, id string) (*domain.Interest, error) {
	query := fmt.Sprintf(`SELECT %s FROM interests WHERE id = $1`, interestColumns)
	in, err := scanInterest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return in, nil
}

func (r *interestRepository) ListOpenByDestination(ctx context.Context, destinationID string) ([]*domain.Interest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM interests
		WHERE destination_id = $1 AND status = $2
		ORDER BY created_at ASC
	`, interestColumns)
	rows, err := r.DB.QueryContext(ctx, query, destinationID, domain.InterestStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interests := make([]*domain.Interest, 0)
	for rows.Next() {
		in, err := scanInterest(rows)
		if err != nil {
			return nil, err
		}
		interests = append(interests, in)
	}
	return interests, rows.Err()
}

func (r *interestRepository) List(ctx context.Context, filter domain.InterestFilter, p domain.PaginationParams) ([]*domain.Interest, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	n := 1
	if filter.DestinationID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("destination_id = $%d", n))
		args = append(args, filter.DestinationID)
		n++
	}
	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, filter.Status)
		n++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM interests WHERE %s`, where)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM interests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, interestColumns, where, n, n+1)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	interests := make([]*domain.Interest, 0)
	for rows.Next() {
		in, err := scanInterest(rows)
		if err != nil {
			return nil, 0, err
		}
		interests = append(interests, in)
	}
	return interests, total, rows.Err()
}

func (r *interestRepository) Release(ctx context.Context, id string) error {
	query := `
		UPDATE interests
		SET status = $1, group_id = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	result, err := r.DB.ExecContext(ctx, query, domain.InterestStatusOpen, id, domain.InterestStatusMatched)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *interestRepository) MarkConverted(ctx context.Context, id string) error {
	query := `
		UPDATE interests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	result, err := r.DB.ExecContext(ctx, query, domain.InterestStatusConverted, id, domain.InterestStatusMatched)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
