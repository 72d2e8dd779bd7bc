package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/anurag24-26/openup/internal/bucket/domain"
	"github.com/anurag24-26/openup/internal/bucket/store"
	"github.com/anurag24-26/openup/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func makeUser(name string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     name,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func makeItem(ownerID, text string) domain.Item {
	now := time.Now().UTC()
	return domain.Item{
		ID:        idx.New().String(),
		Text:      text,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUsersRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)
	user := makeUser("ana")
	require.NoError(t, st.Users().CreateUser(ctx, user))

	byID, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, byID.Username)
	require.Equal(t, user.PasswordHash, byID.PasswordHash)

	byName, err := st.Users().GetUserByUsername(ctx, "ana")
	require.NoError(t, err)
	require.Equal(t, user.ID, byName.ID)
}

func TestUsersDuplicateUsername(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)
	require.NoError(t, st.Users().CreateUser(ctx, makeUser("ana")))

	err := st.Users().CreateUser(ctx, makeUser("ana"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)

	_, err := st.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListUsersOldestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)
	ana := makeUser("ana")
	bob := makeUser("bob")
	require.NoError(t, st.Users().CreateUser(ctx, ana))
	require.NoError(t, st.Users().CreateUser(ctx, bob))

	users, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, ana.ID, users[0].ID)
	require.Equal(t, bob.ID, users[1].ID)
}

func TestItemsJoinOwnerName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)
	ana := makeUser("ana")
	require.NoError(t, st.Users().CreateUser(ctx, ana))

	item := makeItem(ana.ID, "Visit Kyoto")
	item.Description = "cherry blossoms"
	item.Image = "https://cdn/x.jpg"
	require.NoError(t, st.Items().CreateItem(ctx, item))

	got, err := st.Items().GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, "Visit Kyoto", got.Text)
	require.Equal(t, "cherry blossoms", got.Description)
	require.Equal(t, "https://cdn/x.jpg", got.Image)
	require.Equal(t, ana.ID, got.OwnerID)
	require.Equal(t, "ana", got.CreatedBy, "owner name is resolved at read time")
	require.False(t, got.Completed)
}

func TestItemsForeignKeyEnforced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)

	err := st.Items().CreateItem(ctx, makeItem(idx.New().String(), "orphan"))
	require.Error(t, err, "items without a valid owner must be rejected")
}

func TestMarkItemCompletedIsOneWay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)
	ana := makeUser("ana")
	require.NoError(t, st.Users().CreateUser(ctx, ana))

	item := makeItem(ana.ID, "Run a marathon")
	require.NoError(t, st.Items().CreateItem(ctx, item))

	require.NoError(t, st.Items().MarkItemCompleted(ctx, item.ID))

	first, err := st.Items().GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, first.Completed)

	// Second completion leaves updated_at untouched.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, st.Items().MarkItemCompleted(ctx, item.ID))

	second, err := st.Items().GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)
	ana := makeUser("ana")
	require.NoError(t, st.Users().CreateUser(ctx, ana))

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Items().CreateItem(ctx, makeItem(ana.ID, "doomed")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	items, err := st.Items().ListItems(ctx)
	require.NoError(t, err)
	require.Empty(t, items, "failed transaction must leave no rows")
}

func TestWithTxCommits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)
	ana := makeUser("ana")
	require.NoError(t, st.Users().CreateUser(ctx, ana))

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Items().CreateItem(ctx, makeItem(ana.ID, "kept"))
	})
	require.NoError(t, err)

	items, err := st.Items().ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "kept", items[0].Text)
}
