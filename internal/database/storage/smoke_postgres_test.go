package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smokeColumns = []string{
	"id", "user_id", "recipe_title", "date", "smoker_type", "weather", "details", "rating",
	"created_at", "updated_at", "user.id", "user.username",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func smokeRow(rows *sqlmock.Rows, id, owner uuid.UUID, title, weather string, rating int) *sqlmock.Rows {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(id.String(), owner.String(), title, ts, "offset", weather, "low and slow", rating,
		ts, ts, owner.String(), "pitmaster")
}

func TestSmokeStorage_GetSmokeByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM smokes s\s+JOIN users u ON u.id = s.user_id\s+WHERE s.id = \$1 LIMIT 1`).
		WithArgs(id).
		WillReturnRows(smokeRow(sqlmock.NewRows(smokeColumns), id, owner, "Brisket", "Sunny", 8))

	got, err := s.GetSmokeByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, owner, got.UserID)
	assert.Equal(t, "Brisket", got.RecipeTitle)
	assert.Equal(t, 8, got.Rating)
	assert.Equal(t, domain.UserSummary{ID: owner, Username: "pitmaster"}, got.User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSmokeStorage_GetSmokeByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())

	mock.ExpectQuery(`WHERE s.id = \$1`).WillReturnRows(sqlmock.NewRows(smokeColumns))

	_, err := s.GetSmokeByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSmokeStorage_GetSmokeByID_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())

	mock.ExpectQuery(`WHERE s.id = \$1`).WillReturnError(errors.New("connection reset"))

	_, err := s.GetSmokeByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestSmokeStorage_ListSmokes_FiltersAndOrder(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	owner := uuid.New()

	q := domain.NewSmokeQuery(owner, domain.ListParams{
		SortBy:      "rating",
		SortOrder:   "asc",
		Weather:     "Sunny",
		RecipeTitle: "Ribs",
	})

	rows := sqlmock.NewRows(smokeColumns)
	smokeRow(rows, uuid.New(), owner, "Ribs", "Sunny", 6)
	smokeRow(rows, uuid.New(), owner, "Ribs", "Sunny", 9)

	mock.ExpectQuery(`WHERE s.user_id = \$1 AND s.weather = \$2 AND s.recipe_title = \$3 ORDER BY s.rating ASC`).
		WithArgs(owner, "Sunny", "Ribs").
		WillReturnRows(rows)

	got, err := s.ListSmokes(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 6, got[0].Rating)
	assert.Equal(t, 9, got[1].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSmokeStorage_ListSmokes_EmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	owner := uuid.New()

	mock.ExpectQuery(`WHERE s.user_id = \$1 ORDER BY s.date DESC`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(smokeColumns))

	got, err := s.ListSmokes(context.Background(), domain.NewSmokeQuery(owner, domain.ListParams{}))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSmokeStorage_ListRecipeTitles(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	owner := uuid.New()

	mock.ExpectQuery(`SELECT DISTINCT recipe_title FROM smokes WHERE user_id = \$1 ORDER BY recipe_title ASC`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"recipe_title"}).AddRow("Brisket").AddRow("Ribs"))

	got, err := s.ListRecipeTitles(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brisket", "Ribs"}, got)
}

func TestSmokeStorage_CreateSmoke(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	owner := uuid.New()

	smoke := &domain.Smoke{UserID: owner}
	domain.SmokeFields{
		RecipeTitle: "Brisket",
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		SmokerType:  "offset",
		Weather:     "Sunny",
		Details:     "low and slow",
		Rating:      8,
	}.Apply(smoke)

	mock.ExpectExec(`INSERT INTO smokes`).
		WithArgs(sqlmock.AnyArg(), owner, "Brisket", sqlmock.AnyArg(), "offset", "Sunny", "low and slow", 8,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE s.id = \$1`).
		WillReturnRows(smokeRow(sqlmock.NewRows(smokeColumns), uuid.New(), owner, "Brisket", "Sunny", 8))

	got, err := s.CreateSmoke(context.Background(), smoke)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, smoke.ID)
	assert.Equal(t, "pitmaster", got.User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSmokeStorage_UpdateSmoke(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	id, owner := uuid.New(), uuid.New()
	fields := domain.SmokeFields{RecipeTitle: "Pork butt", SmokerType: "kamado", Weather: "Rainy", Details: "d", Rating: 7}

	mock.ExpectExec(`UPDATE smokes\s+SET .+ WHERE id = \$8 AND user_id = \$9`).
		WithArgs("Pork butt", sqlmock.AnyArg(), "kamado", "Rainy", "d", 7, sqlmock.AnyArg(), id, owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE s.id = \$1`).
		WithArgs(id).
		WillReturnRows(smokeRow(sqlmock.NewRows(smokeColumns), id, owner, "Pork butt", "Rainy", 7))

	got, err := s.UpdateSmoke(context.Background(), owner, id, fields)
	require.NoError(t, err)
	assert.Equal(t, "Pork butt", got.RecipeTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSmokeStorage_UpdateSmoke_GoneMeansNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())

	mock.ExpectExec(`UPDATE smokes`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.UpdateSmoke(context.Background(), uuid.New(), uuid.New(), domain.SmokeFields{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSmokeStorage_DeleteSmoke(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	id, owner := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM smokes WHERE id = \$1 AND user_id = \$2`).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.DeleteSmoke(context.Background(), owner, id))

	mock.ExpectExec(`DELETE FROM smokes`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.DeleteSmoke(context.Background(), owner, id), domain.ErrNotFound)

	mock.ExpectExec(`DELETE FROM smokes`).WillReturnError(errors.New("boom"))
	assert.ErrorIs(t, s.DeleteSmoke(context.Background(), owner, id), domain.ErrStorageUnavailable)
}

func TestSmokeStorage_DeadlineIsStorageUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSmokeStorage(db, logger.Discard())
	owner := uuid.New()

	mock.ExpectQuery(`WHERE s.id = \$1`).
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows(smokeColumns))
	mock.ExpectQuery(`WHERE s.user_id = \$1`).
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows(smokeColumns))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.GetSmokeByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.ListSmokes(ctx, domain.NewSmokeQuery(owner, domain.ListParams{}))
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
