package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCheckpointManager(t *testing.T) (*SQLiteStorage, *CheckpointManager) {
	t.Helper()
	store := createTestStorage(t)

	cm, err := store.NewCheckpointManager()
	require.NoError(t, err)
	return store, cm
}

func TestCheckpointManager_Create(t *testing.T) {
	ctx := context.Background()
	store, cm := setupCheckpointManager(t)

	_, err := store.AddExpense(ctx, dec("10"), nil)
	require.NoError(t, err)

	t.Run("create with tag", func(t *testing.T) {
		info, err := cm.Create(ctx, "test-checkpoint", "Test checkpoint")
		require.NoError(t, err)
		assert.Equal(t, "test-checkpoint", info.ID)
		assert.Equal(t, "Test checkpoint", info.Description)
		assert.False(t, info.IsAuto)
		assert.Equal(t, 1, info.Expenses)
		assert.Equal(t, 5, info.Categories)
		assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
		assert.Positive(t, info.FileSize)

		_, err = os.Stat(filepath.Join(filepath.Dir(store.Path()), "checkpoints", "test-checkpoint.db"))
		assert.NoError(t, err)
	})

	t.Run("create without tag", func(t *testing.T) {
		info, err := cm.Create(ctx, "", "Auto-named")
		require.NoError(t, err)
		assert.Contains(t, info.ID, "checkpoint-")
	})

	t.Run("duplicate tag", func(t *testing.T) {
		_, err := cm.Create(ctx, "test-checkpoint", "Again")
		assert.ErrorIs(t, err, ErrCheckpointExists)
	})

	t.Run("invalid tag", func(t *testing.T) {
		for _, tag := range []string{"../escape", "a/b", `a\b`} {
			_, err := cm.Create(ctx, tag, "")
			assert.ErrorIs(t, err, ErrInvalidCheckpointID, tag)
		}
	})
}

func TestCheckpointManager_List(t *testing.T) {
	ctx := context.Background()
	_, cm := setupCheckpointManager(t)

	list, err := cm.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = cm.Create(ctx, "first", "")
	require.NoError(t, err)
	_, err = cm.Create(ctx, "second", "")
	require.NoError(t, err)

	// Unreadable metadata is skipped
	require.NoError(t, os.WriteFile(cm.metadataPath("broken"), []byte("{"), 0600))

	list, err = cm.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].ID)
	assert.Equal(t, "first", list[1].ID)
}

func TestCheckpointManager_Restore(t *testing.T) {
	ctx := context.Background()
	store, cm := setupCheckpointManager(t)

	require.NoError(t, store.UpdateSnapshot(ctx, snapshot("1000", "10", "100")))
	_, err := store.AddExpense(ctx, dec("25"), nil)
	require.NoError(t, err)

	_, err = cm.Create(ctx, "before", "")
	require.NoError(t, err)

	require.NoError(t, store.UpdateSnapshot(ctx, snapshot("5", "0", "0")))
	_, err = store.AddExpense(ctx, dec("99"), nil)
	require.NoError(t, err)

	require.NoError(t, cm.Restore(ctx, "before"))

	snap, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Income.Equal(dec("1000")))

	expenses, err := store.GetExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(dec("25")))

	_, err = os.Stat(store.Path() + ".restore-backup")
	assert.True(t, os.IsNotExist(err))
}

func TestCheckpointManager_RestoreErrors(t *testing.T) {
	ctx := context.Background()
	_, cm := setupCheckpointManager(t)

	assert.ErrorIs(t, cm.Restore(ctx, "missing"), ErrCheckpointNotFound)
	assert.ErrorIs(t, cm.Restore(ctx, "../x"), ErrInvalidCheckpointID)

	_, err := cm.Create(ctx, "damaged", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cm.dataPath("damaged"), []byte("not a database at all, just text"), 0600))

	assert.Error(t, cm.Restore(ctx, "damaged"))
}

func TestCheckpointManager_Delete(t *testing.T) {
	ctx := context.Background()
	_, cm := setupCheckpointManager(t)

	_, err := cm.Create(ctx, "doomed", "")
	require.NoError(t, err)

	require.NoError(t, cm.Delete(ctx, "doomed"))
	assert.ErrorIs(t, cm.Delete(ctx, "doomed"), ErrCheckpointNotFound)

	list, err := cm.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckpointManager_GetCheckpointInfo(t *testing.T) {
	ctx := context.Background()
	_, cm := setupCheckpointManager(t)

	_, err := cm.Create(ctx, "before-march", "march statements")
	require.NoError(t, err)

	info, err := cm.GetCheckpointInfo(ctx, "before-march")
	require.NoError(t, err)
	assert.Equal(t, "before-march", info.ID)
	assert.Equal(t, "march statements", info.Description)
	assert.False(t, info.IsAuto)

	_, err = cm.GetCheckpointInfo(ctx, "missing")
	assert.ErrorIs(t, err, ErrCheckpointNotFound)

	_, err = cm.GetCheckpointInfo(ctx, "../escape")
	assert.ErrorIs(t, err, ErrInvalidCheckpointID)
}

func TestCheckpointManager_AutoCheckpointPrunes(t *testing.T) {
	ctx := context.Background()
	_, cm := setupCheckpointManager(t)

	_, err := cm.Create(ctx, "manual", "kept")
	require.NoError(t, err)

	for i := 0; i < cm.maxAuto+2; i++ {
		info, err := cm.AutoCheckpoint(ctx, "import")
		require.NoError(t, err)
		assert.True(t, info.IsAuto)
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)

	autos := 0
	manual := false
	for _, cp := range list {
		if cp.IsAuto {
			autos++
		}
		if cp.ID == "manual" {
			manual = true
		}
	}
	assert.Equal(t, cm.maxAuto, autos)
	assert.True(t, manual)
}
