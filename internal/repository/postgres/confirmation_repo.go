package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"groupgetaway/internal/domain"
)

type confirmationRepository struct {
	DB *sql.DB
}

func NewConfirmationRepository(db *sql.DB) domain.ConfirmationRepository {
	return &confirmationRepository{
		DB: db,
	}
}

const confirmationColumns = `id, group_id, interest_id, token, user_name, user_email,
		num_people, confirmed, payment_status, decline_reason, expires_at, responded_at,
		created_at, updated_at`

func scanConfirmation(row interface{ Scan(...any) error }) (*domain.Confirmation, error) {
	c := &domain.Confirmation{}
	var confirmedNull sql.NullBool
	var reasonNull sql.NullString
	var respondedNull sql.NullTime
	err := row.Scan(
		&c.ID, &c.GroupID, &c.InterestID, &c.Token, &c.UserName, &c.UserEmail,
		&c.NumPeople, &confirmedNull, &c.PaymentStatus, &reasonNull, &c.ExpiresAt, &respondedNull,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if confirmedNull.Valid {
		c.Confirmed = &confirmedNull.Bool
	}
	if reasonNull.Valid {
		c.DeclineReason = &reasonNull.String
	}
	if respondedNull.Valid {
		c.RespondedAt = &respondedNull.Time
	}
	return c, nil
}

func (r *confirmationRepository) GetByToken(ctx context.Context, token string) (*domain.Confirmation, error) {
	query := fmt.Sprintf(`SELECT %s FROM confirmations WHERE token = $1`, confirmationColumns)
	c, err := scanConfirmation(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *confirmationRepository) GetByID(ctx context.Context, id string) (*domain.Confirmation, error) {
	query := fmt.Sprintf(`SELECT %s FROM confirmations WHERE id = $1`, confirmationColumns)
	c, err := scanConfirmation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *confirmationRepository) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Confirmation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM confirmations
		WHERE group_id = $1
		ORDER BY created_at ASC
	`, confirmationColumns)
	return r.list(ctx, query, groupID)
}

func (r *confirmationRepository) ListPendingByGroupID(ctx context.Context, groupID string) ([]*domain.Confirmation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM confirmations
		WHERE group_id = $1 AND confirmed IS NULL
		ORDER BY created_at ASC
	`, confirmationColumns)
	return r.list(ctx, query, groupID)
}

func (r *confirmationRepository) ListExpiredPending(ctx context.Context, now time.Time) ([]*domain.Confirmation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM confirmations
		WHERE confirmed IS NULL AND expires_at < $1
		ORDER BY group_id, created_at ASC
	`, confirmationColumns)
	return r.list(ctx, query, now)
}

func (r *confirmationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Confirmation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	confs := make([]*domain.Confirmation, 0)
	for rows.Next() {
		c, err := scanConfirmation(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

// SetResponse records the answer once. The confirmed IS NULL guard makes two
// racing responses resolve to exactly one winner at the database level.
func (r *confirmationRepository) SetResponse(ctx context.Context, id string, confirmed bool, declineReason *string, respondedAt time.Time) error {
	query := `
		UPDATE confirmations
		SET confirmed = $1, decline_reason = $2, responded_at = $3, updated_at = NOW()
		WHERE id = $4 AND confirmed IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, confirmed, declineReason, respondedAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAlreadyResponded
	}
	return nil
}

func (r *confirmationRepository) SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	query := `
		UPDATE confirmations
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
