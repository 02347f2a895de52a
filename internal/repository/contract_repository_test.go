package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-id/tutor-api/internal/models"
)

func newContractRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func contractRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "parent_id", "child_id", "package_id", "main_tutor_id", "start_date", "end_date",
		"day_mask", "start_time", "end_time", "is_online", "status", "created_at", "updated_at",
	}).AddRow("c1", "p1", "ch1", "pkg1", nil,
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		21, "15:00", "16:30", true, "active", time.Now(), time.Now())
}

func TestContractRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM contracts WHERE id = \\$1").
		WithArgs("c1").
		WillReturnRows(contractRow())

	contract, err := repo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", contract.ID)
	assert.Equal(t, models.WeekdayMask(21), contract.DayMask)
	assert.Equal(t, models.ContractStatusActive, contract.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM contracts WHERE id = \\$1").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryGetByIDWithPackage(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "parent_id", "child_id", "package_id", "main_tutor_id", "start_date", "end_date",
		"day_mask", "start_time", "end_time", "is_online", "status", "created_at", "updated_at",
		"session_count", "max_reschedules", "duration_days",
	}).AddRow("c1", "p1", "ch1", "pkg1", nil,
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		21, "15:00", "16:30", true, "active", time.Now(), time.Now(),
		24, 2, 90)

	mock.ExpectQuery("SELECT (.+) FROM contracts c\\s+JOIN payment_packages p").
		WithArgs("c1").
		WillReturnRows(rows)

	contract, err := repo.GetByIDWithPackage(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 24, contract.SessionCount)
	assert.Equal(t, 2, contract.MaxReschedules)
	require.NotNil(t, contract.DurationDays)
	assert.Equal(t, 90, *contract.DurationDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryAdd(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectExec("INSERT INTO contracts").
		WillReturnResult(sqlmock.NewResult(1, 1))

	contract := &models.Contract{
		ParentID:  "p1",
		ChildID:   "ch1",
		PackageID: "pkg1",
		StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		DayMask:   models.WeekdayMask(21),
		StartTime: "15:00",
		EndTime:   "16:30",
		Status:    models.ContractStatusPending,
	}
	require.NoError(t, repo.Add(context.Background(), contract))
	assert.NotEmpty(t, contract.ID)
	assert.False(t, contract.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryUpdateStatusAndAssignTutor(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectExec("UPDATE contracts SET status = \\$2").
		WithArgs("c1", models.ContractStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), "c1", models.ContractStatusActive))

	mock.ExpectExec("UPDATE contracts SET main_tutor_id = \\$2").
		WithArgs("c1", "tutor-9", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.AssignMainTutor(context.Background(), "c1", "tutor-9"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow("active", 7).
		AddRow("pending", 3)
	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) AS total FROM contracts GROUP BY status").
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, counts[models.ContractStatusActive])
	assert.Equal(t, 3, counts[models.ContractStatusPending])
	assert.NoError(t, mock.ExpectationsWereMet())
}
