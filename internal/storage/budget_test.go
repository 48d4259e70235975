package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

func TestUpdateSnapshot(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		wantErr error
		name    string
		snap    model.Snapshot
	}{
		{name: "typical", snap: snapshot("3000", "10", "250.75")},
		{name: "zeroes", snap: snapshot("0", "0", "0")},
		{name: "negative cash allowed", snap: snapshot("1000", "5", "-40")},
		{name: "savings above 100 allowed", snap: snapshot("1000", "150", "0")},
		{name: "negative income", snap: snapshot("-1", "10", "0"), wantErr: common.ErrInvalidInput},
		{name: "negative savings", snap: snapshot("1000", "-0.5", "0"), wantErr: common.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)

			err := store.UpdateSnapshot(ctx, tt.snap)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				current, getErr := store.GetSnapshot(ctx)
				require.NoError(t, getErr)
				assert.True(t, current.Income.IsZero(), "rejected update must not be stored")
				return
			}
			require.NoError(t, err)

			got, err := store.GetSnapshot(ctx)
			require.NoError(t, err)
			assert.True(t, got.Income.Equal(tt.snap.Income), "income = %s", got.Income)
			assert.True(t, got.Savings.Equal(tt.snap.Savings), "savings = %s", got.Savings)
			assert.True(t, got.Cash.Equal(tt.snap.Cash), "cash = %s", got.Cash)
		})
	}
}

func TestUpdateSnapshot_OutOfRangeRejected(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.UpdateSnapshot(ctx, snapshot("100", "10", "5")))

	huge := snapshot("100", "10", "5")
	huge.Cash = decimal.New(-1, 400)
	err := store.UpdateSnapshot(ctx, huge)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	snap, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Cash.Equal(dec("5")))
}

func TestSnapshot_MissingRow(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := rawDB(t, store).Exec(`DELETE FROM budget`)
	require.NoError(t, err)

	_, err = store.GetSnapshot(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.UpdateSnapshot(ctx, snapshot("1", "1", "1"))
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.Initialize(ctx))
	_, err = store.GetSnapshot(ctx)
	assert.NoError(t, err)
}
