package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-id/tutor-api/internal/models"
)

func newUnitRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUnitRepositoryGetActiveByCurriculumID(t *testing.T) {
	db, mock, cleanup := newUnitRepoMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	rows := sqlmock.NewRows([]string{"id", "curriculum_id", "name", "order_index", "active", "created_at", "updated_at"}).
		AddRow("u1", "cur1", "Fractions", 1, true, time.Now(), time.Now()).
		AddRow("u2", "cur1", "Decimals", 2, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM units WHERE curriculum_id = \\$1 AND active = TRUE ORDER BY order_index ASC").
		WithArgs("cur1").
		WillReturnRows(rows)

	units, err := repo.GetActiveByCurriculumID(context.Background(), "cur1")
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, 1, units[0].OrderIndex)
	assert.Equal(t, 2, units[1].OrderIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryGetMaxUnitOrder(t *testing.T) {
	db, mock, cleanup := newUnitRepoMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(order_index), 0) FROM units WHERE curriculum_id = $1")).
		WithArgs("cur1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5))

	max, err := repo.GetMaxUnitOrder(context.Background(), "cur1")
	require.NoError(t, err)
	assert.Equal(t, 5, max)

	// Empty curriculum coalesces to zero.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(order_index), 0) FROM units WHERE curriculum_id = $1")).
		WithArgs("cur2").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	max, err = repo.GetMaxUnitOrder(context.Background(), "cur2")
	require.NoError(t, err)
	assert.Zero(t, max)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newUnitRepoMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM units WHERE curriculum_id = $1 AND name = $2 LIMIT 1")).
		WithArgs("cur1", "Fractions").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByName(context.Background(), "cur1", "Fractions")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM units WHERE curriculum_id = $1 AND name = $2 LIMIT 1")).
		WithArgs("cur1", "Algebra").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsByName(context.Background(), "cur1", "Algebra")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryAddAndUpdate(t *testing.T) {
	db, mock, cleanup := newUnitRepoMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	mock.ExpectExec("INSERT INTO units").
		WillReturnResult(sqlmock.NewResult(1, 1))

	unit := &models.Unit{CurriculumID: "cur1", Name: "Percentages", OrderIndex: 3, Active: true}
	require.NoError(t, repo.Add(context.Background(), unit))
	assert.NotEmpty(t, unit.ID)

	mock.ExpectExec("UPDATE units SET name = ").
		WillReturnResult(sqlmock.NewResult(1, 1))

	unit.Name = "Percentages and Ratios"
	require.NoError(t, repo.Update(context.Background(), unit))
	assert.False(t, unit.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryGetCurriculumByID(t *testing.T) {
	db, mock, cleanup := newUnitRepoMock(t)
	defer cleanup()
	repo := NewUnitRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "created_at"}).
		AddRow("cur1", "Math Grade 5", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at FROM curricula WHERE id = $1")).
		WithArgs("cur1").
		WillReturnRows(rows)

	curriculum, err := repo.GetCurriculumByID(context.Background(), "cur1")
	require.NoError(t, err)
	assert.Equal(t, "Math Grade 5", curriculum.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
