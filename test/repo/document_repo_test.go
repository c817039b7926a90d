package repo_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexkit/lexdoc/internal/model"
	appErr "github.com/lexkit/lexdoc/internal/pkg/errors"
	"github.com/lexkit/lexdoc/internal/pkg/timeutil"
	"github.com/lexkit/lexdoc/internal/repo"
	"github.com/lexkit/lexdoc/test/testutil"
)

func newTestID(t *testing.T) string {
	t.Helper()
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return hex.EncodeToString(buf)
}

func TestDocumentRepoCRUDAndIsolation(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	docs := repo.NewDocumentRepo(db)
	userID := newTestID(t)
	otherID := newTestID(t)
	docID := newTestID(t)
	now := timeutil.NowUnix()
	doc := &model.Document{
		ID:      docID,
		UserID:  userID,
		Title:   "lease agreement",
		Content: "the tenant shall pay rent",
		State:   repo.DocumentStateNormal,
		Ctime:   now,
		Mtime:   now,
	}
	require.NoError(t, docs.Create(context.Background(), doc))

	fetched, err := docs.GetByID(context.Background(), userID, docID)
	require.NoError(t, err)
	require.Equal(t, "lease agreement", fetched.Title)

	// other users cannot see the document
	_, err = docs.GetByID(context.Background(), otherID, docID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	doc.Title = "amended lease"
	doc.Mtime = timeutil.NowUnix()
	require.NoError(t, docs.Update(context.Background(), doc))

	found, err := docs.SearchLike(context.Background(), userID, "tenant", 10, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, docID, found[0].ID)

	require.NoError(t, docs.Delete(context.Background(), userID, docID, timeutil.NowUnix()))
	_, err = docs.GetByID(context.Background(), userID, docID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	// deleting twice reports not found
	err = docs.Delete(context.Background(), userID, docID, timeutil.NowUnix())
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestDocumentSummaryRepoUpsertAndAttach(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	docs := repo.NewDocumentRepo(db)
	summaries := repo.NewDocumentSummaryRepo(db)
	userID := newTestID(t)
	docID := newTestID(t)
	now := timeutil.NowUnix()
	require.NoError(t, docs.Create(context.Background(), &model.Document{
		ID:      docID,
		UserID:  userID,
		Title:   "contract",
		Content: "content",
		State:   repo.DocumentStateNormal,
		Ctime:   now,
		Mtime:   now,
	}))

	require.NoError(t, summaries.Upsert(context.Background(), userID, docID, "first", "medium", "smart", now))
	stored, err := summaries.GetByDocID(context.Background(), userID, docID)
	require.NoError(t, err)
	require.Equal(t, "first", stored.Summary)
	require.Equal(t, "smart", stored.Engine)

	// second upsert replaces the row
	require.NoError(t, summaries.Upsert(context.Background(), userID, docID, "second", "short", "manual", now+1))
	stored, err = summaries.GetByDocID(context.Background(), userID, docID)
	require.NoError(t, err)
	require.Equal(t, "second", stored.Summary)
	require.Equal(t, "manual", stored.Engine)

	byID, err := summaries.ListByDocIDs(context.Background(), userID, []string{docID, "missing"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{docID: "second"}, byID)

	require.NoError(t, summaries.Delete(context.Background(), userID, docID))
	_, err = summaries.GetByDocID(context.Background(), userID, docID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestDocumentSummaryRepoListPending(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	docs := repo.NewDocumentRepo(db)
	summaries := repo.NewDocumentSummaryRepo(db)
	userID := newTestID(t)
	docID := newTestID(t)
	now := timeutil.NowUnix()
	require.NoError(t, docs.Create(context.Background(), &model.Document{
		ID:      docID,
		UserID:  userID,
		Title:   "pending",
		Content: "needs a summary",
		State:   repo.DocumentStateNormal,
		Ctime:   now - 100,
		Mtime:   now - 100,
	}))

	pending, err := summaries.ListPendingDocuments(context.Background(), 1000, now)
	require.NoError(t, err)
	ids := make(map[string]bool)
	for _, doc := range pending {
		ids[doc.ID] = true
	}
	require.True(t, ids[docID])

	// a fresh summary removes it from the pending set
	require.NoError(t, summaries.Upsert(context.Background(), userID, docID, "done", "medium", "smart", now))
	pending, err = summaries.ListPendingDocuments(context.Background(), 1000, now)
	require.NoError(t, err)
	for _, doc := range pending {
		require.NotEqual(t, docID, doc.ID)
	}
}
