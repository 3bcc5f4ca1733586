package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"groupgetaway/internal/domain"
)

type groupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) domain.GroupRepository {
	return &groupRepository{
		DB: db,
	}
}

const groupColumns = `id, destination_id, name, date_from, date_to, min_size, max_size,
		current_size, base_price, final_price_per_person, breakdown, status, admin_notes,
		confirm_deadline, version, created_at, updated_at`

func scanGroup(row interface{ Scan(...any) error }) (*domain.Group, error) {
	g := &domain.Group{}
	var notesNull sql.NullString
	var breakdownRaw []byte
	err := row.Scan(
		&g.ID, &g.DestinationID, &g.Name, &g.DateFrom, &g.DateTo, &g.MinSize, &g.MaxSize,
		&g.CurrentSize, &g.BasePrice, &g.FinalPricePerPerson, &breakdownRaw, &g.Status, &notesNull,
		&g.ConfirmDeadline, &g.Version, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notesNull.Valid {
		g.AdminNotes = &notesNull.String
	}
	if len(breakdownRaw) > 0 {
		if err := json.Unmarshal(breakdownRaw, &g.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown: %w", err)
		}
	}
	return g, nil
}

// CreateWithMembers creates the group, claims its member interests, and inserts
// the pending confirmations in one transaction. The claim updates only rows
// still in status open; if another clustering run claimed any member first the
// row count comes up short, the transaction is rolled back, and
// ErrConcurrentMutation is returned.
func (r *groupRepository) CreateWithMembers(ctx context.Context, g *domain.Group, interestIDs []string, confs []*domain.Confirmation) error {
	breakdownRaw, err := json.Marshal(g.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	groupQuery := `
		INSERT INTO groups (destination_id, name, date_from, date_to, min_size, max_size,
			current_size, base_price, final_price_per_person, breakdown, status,
			confirm_deadline, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, groupQuery,
		g.DestinationID, g.Name, g.DateFrom, g.DateTo, g.MinSize, g.MaxSize,
		g.CurrentSize, g.BasePrice, g.FinalPricePerPerson, breakdownRaw, g.Status,
		g.ConfirmDeadline, g.Version, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
	if err != nil {
		return err
	}

	claimQuery := `
		UPDATE interests
		SET status = $1, group_id = $2, updated_at = NOW()
		WHERE id = ANY($3) AND status = $4
	`
	result, err := tx.ExecContext(ctx, claimQuery,
		domain.InterestStatusMatched, g.ID, pq.Array(interestIDs), domain.InterestStatusOpen)
	if err != nil {
		return err
	}
	claimed, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if claimed != int64(len(interestIDs)) {
		return domain.ErrConcurrentMutation
	}

	confQuery := `
		INSERT INTO confirmations (group_id, interest_id, token, user_name, user_email,
			num_people, payment_status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	for _, c := range confs {
		c.GroupID = g.ID
		err = tx.QueryRowContext(ctx, confQuery,
			c.GroupID, c.InterestID, c.Token, c.UserName, c.UserEmail,
			c.NumPeople, c.PaymentStatus, c.ExpiresAt, c.CreatedAt, c.UpdatedAt,
		).Scan(&c.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM groups WHERE id = $1`, groupColumns)
	g, err := scanGroup(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *groupRepository) List(ctx context.Context, filter domain.GroupFilter, p domain.PaginationParams) ([]*domain.Group, int, error) {
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
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM groups WHERE %s`, where)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM groups
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, groupColumns, where, n, n+1)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	groups := make([]*domain.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	return groups, total, rows.Err()
}

func (r *groupRepository) UpdateStatusAndSize(ctx context.Context, id string, status domain.GroupStatus, currentSize, version int) error {
	query := `
		UPDATE groups
		SET status = $1, current_size = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
	`
	result, err := r.DB.ExecContext(ctx, query, status, currentSize, id, version)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrConcurrentMutation
	}
	return nil
}
