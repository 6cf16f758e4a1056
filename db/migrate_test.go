package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrier-engagement/dao"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "", 0)
	assert.ErrorContains(t, err, `unsupported database driver "postgres"`)
}

func TestMigrateAndSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, "sqlite", ":memory:", 0)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn))
	require.NoError(t, Migrate(ctx, conn))

	loads := dao.NewLoadRepository(conn)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	n, err := Seed(ctx, loads, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Seed(ctx, loads, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := loads.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSampleLoads(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	loads := SampleLoads(now)
	require.Len(t, loads, 2)

	for _, l := range loads {
		assert.True(t, l.PickupDatetime.After(now), l.LoadID)
		assert.True(t, l.DeliveryDatetime.After(l.PickupDatetime), l.LoadID)
		assert.Positive(t, l.LoadboardRate, l.LoadID)
	}
	assert.Equal(t, "Reefer", loads[1].EquipmentType)
}
