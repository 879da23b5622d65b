package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gestion/internal/model"
	"github.com/roach88/gestion/internal/store"
	"github.com/roach88/gestion/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestClients_AddAndGet(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 0)

	c, err := clients.Add(ctx, model.ClientFields{
		Name:  "  Ana  ",
		Email: "ana@example.com",
		Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.Positive(t, c.ID)
	assert.Equal(t, "Ana", c.Name, "name is trimmed")

	got, err := clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestClients_AddRequiresName(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 0)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := clients.Add(ctx, model.ClientFields{Name: name, Email: "x@example.com"})
		require.Error(t, err)
		assert.True(t, model.IsValidation(err), "name %q: got %v", name, err)
	}

	all, err := store.Collect(clients.List(ctx))
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClients_AddNormalizesToNFC(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 0)

	c, err := clients.Add(ctx, model.ClientFields{Name: "Jose\u0301"})
	require.NoError(t, err)
	assert.Equal(t, "Jos\u00e9", c.Name)
}

func TestClients_GetNotFound(t *testing.T) {
	clients := NewClients(testutil.NewStore(t), 0)

	_, err := clients.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestClients_ListOrderedAndRestartable(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 2)

	names := []string{"Ana", "Luis", "Marta", "Pedro", "Sofía"}
	for _, n := range names {
		_, err := clients.Add(ctx, model.ClientFields{Name: n})
		require.NoError(t, err)
	}

	seq := clients.List(ctx)
	all, err := store.Collect(seq)
	require.NoError(t, err)
	require.Len(t, all, len(names))
	for i := range all {
		assert.Equal(t, names[i], all[i].Name)
		if i > 0 {
			assert.Greater(t, all[i].ID, all[i-1].ID)
		}
	}

	_, err = clients.Add(ctx, model.ClientFields{Name: "Zoe"})
	require.NoError(t, err)

	again, err := store.Collect(seq)
	require.NoError(t, err)
	assert.Len(t, again, len(names)+1, "ranging again reflects current state")
}

func TestClients_EditOverwritesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 0)

	c, err := clients.Add(ctx, model.ClientFields{Name: "Ana", Email: "ana@example.com", Phone: "1"})
	require.NoError(t, err)

	edited, err := clients.Edit(ctx, c.ID, model.ClientPatch{Phone: strPtr("2"), Note: strPtr("vip")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", edited.Name)
	assert.Equal(t, "ana@example.com", edited.Email)
	assert.Equal(t, "2", edited.Phone)
	assert.Equal(t, "vip", edited.Note)

	got, err := clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, edited, got)
}

func TestClients_EditCanClearOptionalField(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 0)

	c, err := clients.Add(ctx, model.ClientFields{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	edited, err := clients.Edit(ctx, c.ID, model.ClientPatch{Email: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, edited.Email)
}

func TestClients_EditErrors(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 0)

	_, err := clients.Edit(ctx, 7, model.ClientPatch{Name: strPtr("X")})
	assert.True(t, model.IsNotFound(err), "got %v", err)

	c, err := clients.Add(ctx, model.ClientFields{Name: "Ana"})
	require.NoError(t, err)
	_, err = clients.Edit(ctx, c.ID, model.ClientPatch{Name: strPtr(" ")})
	assert.True(t, model.IsValidation(err), "got %v", err)

	got, err := clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name, "failed edit leaves record unchanged")
}

func TestClients_DeleteAndIDsNotReused(t *testing.T) {
	ctx := context.Background()
	clients := NewClients(testutil.NewStore(t), 0)

	a, err := clients.Add(ctx, model.ClientFields{Name: "Ana"})
	require.NoError(t, err)
	b, err := clients.Add(ctx, model.ClientFields{Name: "Luis"})
	require.NoError(t, err)

	require.NoError(t, clients.Delete(ctx, b.ID))
	_, err = clients.Get(ctx, b.ID)
	assert.True(t, model.IsNotFound(err))

	c, err := clients.Add(ctx, model.ClientFields{Name: "Marta"})
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID)

	all, err := store.Collect(clients.List(ctx))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, c.ID, all[1].ID)
}

func TestClients_DeleteNotFound(t *testing.T) {
	clients := NewClients(testutil.NewStore(t), 0)

	err := clients.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestClients_ClosedStoreIsUnavailable(t *testing.T) {
	s := testutil.NewStore(t)
	clients := NewClients(s, 0)
	require.NoError(t, s.Close())

	_, err := clients.Add(context.Background(), model.ClientFields{Name: "Ana"})
	assert.True(t, model.IsStorageUnavailable(err), "got %v", err)

	_, err = clients.Get(context.Background(), 1)
	assert.True(t, model.IsStorageUnavailable(err), "got %v", err)

	_, err = store.Collect(clients.List(context.Background()))
	assert.True(t, model.IsStorageUnavailable(err), "got %v", err)
}
