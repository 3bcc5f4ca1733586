package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"groupgetaway/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var interestCols = []string{
	"id", "destination_id", "user_name", "user_email", "user_phone", "num_people",
	"date_from", "date_to", "budget_min", "budget_max", "special_requests", "client_uuid",
	"status", "group_id", "created_at", "updated_at",
}

func TestInterestRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	newInterest := func() *domain.Interest {
		return &domain.Interest{
			DestinationID: "dest-1",
			UserName:      "Ana",
			UserEmail:     "ana@example.com",
			NumPeople:     2,
			DateFrom:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			DateTo:        time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
			ClientUUID:    "3f1b9a52-0d9e-4e5f-8f7a-1c2d3e4f5a6b",
			Status:        domain.InterestStatusOpen,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	t.Run("inserts new interest", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO interests`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("int-1"))

		repo := NewInterestRepository(db)
		in := newInterest()
		created, err := repo.Create(ctx, in)
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, "int-1", in.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("resubmission with same client_uuid returns stored row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		in := newInterest()
		// ON CONFLICT DO NOTHING yields no row, then the existing row is fetched.
		mock.ExpectQuery(`INSERT INTO interests`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM interests WHERE client_uuid = \$1`).
			WithArgs(in.ClientUUID).
			WillReturnRows(sqlmock.NewRows(interestCols).
				AddRow("int-existing", "dest-1", "Ana", "ana@example.com", nil, 2,
					in.DateFrom, in.DateTo, nil, nil, nil, in.ClientUUID,
					string(domain.InterestStatusOpen), nil, now, now))

		repo := NewInterestRepository(db)
		created, err := repo.Create(ctx, in)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, "int-existing", in.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO interests`).
			WillReturnError(sql.ErrConnDone)

		repo := NewInterestRepository(db)
		_, err = repo.Create(ctx, newInterest())
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInterestRepository_ListOpenByDestination(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns open interests in created order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(interestCols).
			AddRow("int-1", "dest-1", "Ana", "ana@example.com", nil, 2,
				now, now.AddDate(0, 0, 7), 1000.0, 2000.0, nil, "uuid-1",
				string(domain.InterestStatusOpen), nil, now, now).
			AddRow("int-2", "dest-1", "Ben", "ben@example.com", nil, 1,
				now, now.AddDate(0, 0, 5), nil, nil, nil, "uuid-2",
				string(domain.InterestStatusOpen), nil, now, now)
		mock.ExpectQuery(`SELECT (.+) FROM interests`).
			WithArgs("dest-1", string(domain.InterestStatusOpen)).
			WillReturnRows(rows)

		repo := NewInterestRepository(db)
		got, err := repo.ListOpenByDestination(ctx, "dest-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "int-1", got[0].ID)
		require.NotNil(t, got[0].BudgetMin)
		require.Equal(t, 1000.0, *got[0].BudgetMin)
		require.Nil(t, got[1].BudgetMax)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty pool", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM interests`).
			WithArgs("dest-1", string(domain.InterestStatusOpen)).
			WillReturnRows(sqlmock.NewRows(interestCols))

		repo := NewInterestRepository(db)
		got, err := repo.ListOpenByDestination(ctx, "dest-1")
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInterestRepository_Release(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "matched interest returns to open",
			id:   "int-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE interests`).
					WithArgs(string(domain.InterestStatusOpen), "int-1", string(domain.InterestStatusMatched)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not matched anymore",
			id:   "int-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE interests`).
					WithArgs(string(domain.InterestStatusOpen), "int-2", string(domain.InterestStatusMatched)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "int-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE interests`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewInterestRepository(db)
			err = repo.Release(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInterestRepository_MarkConverted(t *testing.T) {
	ctx := context.Background()

	t.Run("matched interest converts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE interests`).
			WithArgs(string(domain.InterestStatusConverted), "int-1", string(domain.InterestStatusMatched)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewInterestRepository(db)
		require.NoError(t, repo.MarkConverted(ctx, "int-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already converted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE interests`).
			WithArgs(string(domain.InterestStatusConverted), "int-1", string(domain.InterestStatusMatched)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewInterestRepository(db)
		err = repo.MarkConverted(ctx, "int-1")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
