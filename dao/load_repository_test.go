package dao_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrier-engagement/dao"
	"carrier-engagement/db"
	"carrier-engagement/model"
)

func seededLoads(t *testing.T) *dao.LoadRepository {
	t.Helper()
	repo := dao.NewLoadRepository(openTestDB(t))
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	n, err := db.Seed(context.Background(), repo, now)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return repo
}

func TestLoadRepository_GetByID(t *testing.T) {
	repo := seededLoads(t)
	ctx := context.Background()

	l, err := repo.GetByID(ctx, "LOAD002")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "Los Angeles, CA", l.Origin)
	assert.Equal(t, 3200.0, l.LoadboardRate)
	assert.Equal(t, 1015.0, *l.Miles)
	assert.Equal(t, 1, *l.NumOfPieces)
	assert.True(t, l.PickupDatetime.Equal(time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)))

	missing, err := repo.GetByID(ctx, "LOAD404")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLoadRepository_Search(t *testing.T) {
	repo := seededLoads(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		criteria model.LoadCriteria
		want     []string
	}{
		{"no filter", model.LoadCriteria{}, []string{"LOAD001", "LOAD002"}},
		{"origin case-insensitive", model.LoadCriteria{Origin: "chicago"}, []string{"LOAD001"}},
		{"destination substring", model.LoadCriteria{Destination: "CO"}, []string{"LOAD002"}},
		{"equipment", model.LoadCriteria{EquipmentType: "reefer"}, []string{"LOAD002"}},
		{"combined miss", model.LoadCriteria{Origin: "Chicago", EquipmentType: "Reefer"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loads, err := repo.Search(ctx, tt.criteria)
			require.NoError(t, err)
			var ids []string
			for _, l := range loads {
				ids = append(ids, l.LoadID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
