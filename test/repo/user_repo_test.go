package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexkit/lexdoc/internal/model"
	appErr "github.com/lexkit/lexdoc/internal/pkg/errors"
	"github.com/lexkit/lexdoc/internal/pkg/timeutil"
	"github.com/lexkit/lexdoc/internal/repo"
	"github.com/lexkit/lexdoc/test/testutil"
)

func TestUserRepoCreateAndConflict(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	users := repo.NewUserRepo(db)
	now := timeutil.NowUnix()
	email := newTestID(t) + "@example.com"
	user := &model.User{
		ID:           newTestID(t),
		Email:        email,
		PasswordHash: "hash",
		Ctime:        now,
		Mtime:        now,
	}
	require.NoError(t, users.Create(context.Background(), user))

	fetched, err := users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	require.Equal(t, user.ID, fetched.ID)

	byID, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, email, byID.Email)

	dup := &model.User{
		ID:           newTestID(t),
		Email:        email,
		PasswordHash: "hash2",
		Ctime:        now,
		Mtime:        now,
	}
	require.ErrorIs(t, users.Create(context.Background(), dup), appErr.ErrConflict)

	_, err = users.GetByEmail(context.Background(), "missing-"+email)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
