package service_test

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-import-service/internal/importer/model"
	"order-import-service/internal/importer/service"
)

func order(id int64, tracking, siteID, seller, desc string) model.Order {
	return model.Order{
		ID: id,
		Record: model.Record{
			TrackingNumber: tracking,
			SiteOrderID:    siteID,
			Seller:         seller,
			Description:    desc,
		},
	}
}

func TestIndexTierPriority(t *testing.T) {
	idx := service.BuildIndex([]model.Order{
		order(1, "TRK-AAA", "", "", "Cuffie Bluetooth"),
		order(2, "", "S9", "", "Cavo USB"),
	})

	// tracking matches order 1, site id matches order 2: tracking wins
	cands, tier := idx.Candidates(model.Record{TrackingNumber: "TRK-AAA", SiteOrderID: "S9"})
	require.Len(t, cands, 1)
	assert.Equal(t, int64(1), cands[0].ID)
	assert.Equal(t, service.TierTracking, tier)
}

func TestIndexSiteIDGroupsLineItems(t *testing.T) {
	idx := service.BuildIndex([]model.Order{
		order(1, "", "S1", "Shop", "USB Cable Black"),
		order(2, "", "S1", "Shop", "USB Cable White"),
		order(3, "", "S2", "Shop", "HDMI Adapter"),
	})

	cands, tier := idx.Candidates(model.Record{SiteOrderID: "S1"})
	assert.Len(t, cands, 2)
	assert.Equal(t, service.TierSiteID, tier)
}

func TestIndexEmptyKeysContributeNothing(t *testing.T) {
	idx := service.BuildIndex([]model.Order{
		order(1, "", "", "", "Tastiera meccanica"),
	})

	cands, _ := idx.Candidates(model.Record{})
	assert.Empty(t, cands)
}

func TestIndexTrackingCaseInsensitive(t *testing.T) {
	idx := service.BuildIndex([]model.Order{
		order(1, "trk-abc", "", "", ""),
	})
	cands, _ := idx.Candidates(model.Record{TrackingNumber: "TRK-ABC"})
	assert.Len(t, cands, 1)
}

func TestIndexDescCandidates(t *testing.T) {
	idx := service.BuildIndex([]model.Order{
		order(1, "", "", "", "Lampada da scrivania LED"),
		order(2, "", "", "", "Zaino impermeabile 30L"),
	})

	cands := idx.DescCandidates("Lampada da scrivania LED")
	require.NotEmpty(t, cands)
	assert.Equal(t, int64(1), cands[0].ID)
}

func TestIndexLargeDatasetLookup(t *testing.T) {
	gofakeit.Seed(42)

	orders := make([]model.Order, 0, 2000)
	for i := 0; i < 2000; i++ {
		orders = append(orders, order(
			int64(i+1),
			fmt.Sprintf("TRK-%s", gofakeit.UUID()),
			fmt.Sprintf("S-%06d", i),
			gofakeit.Company(),
			gofakeit.ProductName(),
		))
	}
	idx := service.BuildIndex(orders)

	// every order must be found by its own tracking number
	for _, o := range orders {
		cands, tier := idx.Candidates(model.Record{TrackingNumber: o.TrackingNumber})
		require.Len(t, cands, 1)
		assert.Equal(t, o.ID, cands[0].ID)
		assert.Equal(t, service.TierTracking, tier)
	}
}
