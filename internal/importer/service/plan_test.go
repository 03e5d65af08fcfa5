package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-import-service/internal/importer/model"
	"order-import-service/internal/importer/service"
)

func TestPlanInsertAppliesDefaults(t *testing.T) {
	rec := model.Record{Row: 2, Quantity: 1}
	p := service.Plan(rec, service.Resolution{}, ref)

	assert.Equal(t, model.DecisionInsert, p.Decision)
	assert.Equal(t, "2026-02-17", p.Record.OrderDate)
	assert.Equal(t, service.PlatformUnknown, p.Record.Platform)
	assert.Equal(t, "Articolo importato (riga 3)", p.Record.Description)
	assert.Equal(t, 1, p.Record.Quantity)
}

func TestPlanFillsOnlyEmptyFields(t *testing.T) {
	price := 9.99
	target := model.Order{
		ID: 11,
		Record: model.Record{
			SiteOrderID: "S1",
			Description: "Cuffie Bluetooth con custodia",
			Seller:      "", // gap
			Status:      "In Transito",
		},
	}
	rec := model.Record{
		Row:         0,
		SiteOrderID: "S1",
		Description: "Cuffie BT",       // target already has one: kept
		Seller:      "AudioStore",      // fills the gap
		Status:      "Consegnato",      // never overwrites
		Carrier:     "GLS",             // fills the gap
		Price:       &price,            // fills the gap
	}

	p := service.Plan(rec, service.Resolution{Target: &target}, ref)

	assert.Equal(t, model.DecisionMerge, p.Decision)
	assert.Equal(t, int64(11), p.TargetID)
	assert.ElementsMatch(t,
		[]string{model.FieldSeller, model.FieldCarrier, model.FieldPrice},
		p.Changed,
	)
	assert.NotContains(t, p.Changed, model.FieldDescription)
	assert.NotContains(t, p.Changed, model.FieldStatus)
}

func TestPlanDegradesToSkipWhenNothingChanges(t *testing.T) {
	target := model.Order{
		ID: 4,
		Record: model.Record{
			SiteOrderID: "S1",
			Description: "Cavo USB",
			Seller:      "Shop",
		},
	}
	rec := model.Record{
		SiteOrderID: "S1",
		Description: "Cavo USB con connettori dorati", // populated on target
		Seller:      "Shop",
	}

	p := service.Plan(rec, service.Resolution{Target: &target}, ref)

	assert.Equal(t, model.DecisionSkip, p.Decision)
	assert.Equal(t, int64(4), p.TargetID)
	assert.Empty(t, p.Changed)
}

func TestPlanEmptyIncomingFieldNeverListed(t *testing.T) {
	target := model.Order{ID: 1, Record: model.Record{SiteOrderID: "S1", Description: "X"}}
	rec := model.Record{SiteOrderID: "S1"} // everything else empty

	p := service.Plan(rec, service.Resolution{Target: &target}, ref)
	require.Equal(t, model.DecisionSkip, p.Decision)
}
