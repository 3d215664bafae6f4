package repositories_test

import (
	"context"
	"testing"

	"landora/internal/models"
	"landora/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runUserRepositoryContract(t *testing.T, repo repositories.UserRepository) {
	ctx := context.Background()

	user := &models.User{Username: "admin", Email: "admin@example.com", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin", byEmail.Username)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed", byID.Password)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	assert.Error(t, repo.Create(ctx, &models.User{Username: "admin", Email: "other@example.com", Password: "x"}))
}

func TestMockUserRepository(t *testing.T) {
	runUserRepositoryContract(t, repositories.NewMockUserRepository())
}

func TestGORMUserRepository(t *testing.T) {
	db := newSQLiteDB(t)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	runUserRepositoryContract(t, repositories.NewGORMUserRepository(db))
}
