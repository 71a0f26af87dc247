package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smokelog.db")
	db, err := Open(sqlite.Open(fmt.Sprintf("%s?_foreign_keys=on", path)), logger.Discard())
	require.NoError(t, err)
	require.NoError(t, DefineTables(db))
	return db
}

func seedUser(t *testing.T, users *GormUserStorage, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, users.CreateUser(context.Background(), u))
	return u
}

func fields(title, weather string, rating int, day int) domain.SmokeFields {
	return domain.SmokeFields{
		RecipeTitle: title,
		Date:        time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		SmokerType:  "offset",
		Weather:     weather,
		Details:     "details",
		Rating:      rating,
	}
}

func create(t *testing.T, s *GormSmokeStorage, owner uuid.UUID, f domain.SmokeFields) *domain.Smoke {
	t.Helper()
	smoke := &domain.Smoke{UserID: owner}
	f.Apply(smoke)
	got, err := s.CreateSmoke(context.Background(), smoke)
	require.NoError(t, err)
	return got
}

func TestGormUserStorage(t *testing.T) {
	ctx := context.Background()
	users := NewGormUserStorage(newTestDB(t), logger.Discard())

	u := seedUser(t, users, "pitmaster")

	byEmail, err := users.GetUserByEmail(ctx, "pitmaster@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "pitmaster", byID.Username)

	_, err = users.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = users.CreateUser(ctx, &domain.User{Username: "pitmaster", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGormSmokeStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewGormUserStorage(db, logger.Discard())
	s := NewGormSmokeStorage(db, logger.Discard())
	owner := seedUser(t, users, "pitmaster")

	created := create(t, s, owner.ID, fields("Brisket", "Sunny", 8, 1))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, domain.UserSummary{ID: owner.ID, Username: "pitmaster"}, created.User)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), created.Date)

	updated, err := s.UpdateSmoke(ctx, owner.ID, created.ID, fields("Ribs", "Rainy", 6, 2))
	require.NoError(t, err)
	assert.Equal(t, "Ribs", updated.RecipeTitle)
	assert.Equal(t, 6, updated.Rating)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	// чужой владелец не может ни обновить, ни удалить
	_, err = s.UpdateSmoke(ctx, uuid.New(), created.ID, fields("X", "Y", 1, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSmoke(ctx, uuid.New(), created.ID), domain.ErrNotFound)

	require.NoError(t, s.DeleteSmoke(ctx, owner.ID, created.ID))
	_, err = s.GetSmokeByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSmoke(ctx, owner.ID, created.ID), domain.ErrNotFound)
}

func TestGormSmokeStorage_ListSmokes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewGormUserStorage(db, logger.Discard())
	s := NewGormSmokeStorage(db, logger.Discard())
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")

	create(t, s, alice.ID, fields("Brisket", "Sunny", 8, 1))
	create(t, s, alice.ID, fields("Ribs", "Rainy", 5, 3))
	create(t, s, alice.ID, fields("Brisket", "Rainy", 9, 2))
	create(t, s, bob.ID, fields("Brisket", "Sunny", 10, 4))

	all, err := s.ListSmokes(ctx, domain.NewSmokeQuery(alice.ID, domain.ListParams{}))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].Date.Day())
	assert.Equal(t, 1, all[2].Date.Day())
	for _, sm := range all {
		assert.Equal(t, alice.ID, sm.UserID)
		assert.Equal(t, "alice", sm.User.Username)
	}

	byRating, err := s.ListSmokes(ctx, domain.NewSmokeQuery(alice.ID, domain.ListParams{SortBy: "rating", SortOrder: "asc"}))
	require.NoError(t, err)
	assert.Equal(t, []int{5, 8, 9}, []int{byRating[0].Rating, byRating[1].Rating, byRating[2].Rating})

	filtered, err := s.ListSmokes(ctx, domain.NewSmokeQuery(alice.ID, domain.ListParams{Weather: "Rainy", RecipeTitle: "Brisket"}))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 9, filtered[0].Rating)

	none, err := s.ListSmokes(ctx, domain.NewSmokeQuery(uuid.New(), domain.ListParams{}))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	titles, err := s.ListRecipeTitles(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brisket", "Ribs"}, titles)
}

func TestGormSmokeStorage_ListSmokes_Ties(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewGormUserStorage(db, logger.Discard())
	s := NewGormSmokeStorage(db, logger.Discard())
	alice := seedUser(t, users, "alice")

	want := []uuid.UUID{
		create(t, s, alice.ID, fields("Brisket", "Sunny", 7, 1)).ID,
		create(t, s, alice.ID, fields("Ribs", "Rainy", 7, 2)).ID,
		create(t, s, alice.ID, fields("Pork Butt", "Windy", 7, 3)).ID,
	}
	top := create(t, s, alice.ID, fields("Chicken", "Sunny", 10, 4))

	got, err := s.ListSmokes(ctx, domain.NewSmokeQuery(alice.ID, domain.ListParams{SortBy: "rating", SortOrder: "desc"}))
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, top.ID, got[0].ID)

	// Порядок среди записей с равным рейтингом не определен: сравниваем только множество
	ties := make([]uuid.UUID, 0, 3)
	for _, sm := range got[1:] {
		assert.Equal(t, 7, sm.Rating)
		ties = append(ties, sm.ID)
	}
	assert.ElementsMatch(t, want, ties)
}
