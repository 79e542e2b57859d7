package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) UserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewUserRepo(db)
}

func newUser(email string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Name:         "Jane",
		Email:        email,
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUserRepoCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newUser("jane@example.com")
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", byID.Email)
	assert.WithinDuration(t, u.CreatedAt, byID.CreatedAt, time.Second)
	assert.Equal(t, models.RoleUser, byID.Role)

	byEmail, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, utils.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("jane@example.com")))
	err := repo.Create(ctx, newUser("jane@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepoGetByIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, b := newUser("a@example.com"), newUser("b@example.com")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByIDs(ctx, []string{a.ID, b.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "a@example.com", got[a.ID].Email)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepoUpdateAvatarAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := newUser("jane@example.com")
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.UpdateAvatar(ctx, u.ID, "https://cdn/a.png"))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a.png", got.Avatar)
	assert.ErrorIs(t, repo.UpdateAvatar(ctx, uuid.NewString(), "x"), utils.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), utils.ErrNotFound)
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
