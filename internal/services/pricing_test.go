package services

import (
	"math"
	"testing"

	"procurement-system/internal/authz"
	"procurement-system/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func uptr(v uint64) *uint64   { return &v }
func sptr(v string) *string   { return &v }

func TestComputeOfferFullInput(t *testing.T) {
	in := OfferPriceInput{
		SupplierPrice: fptr(100),
		FxRate:        fptr(1.1),
		LogisticsCost: fptr(20),
		MarkupPct:     fptr(10),
		MarkupAbs:     fptr(5),
	}

	fields := ComputeOffer(in, nil, nil)

	require.NotNil(t, fields.ClientPrice)
	assert.InDelta(t, (100*1.1+20)*1.10+5, *fields.ClientPrice, 1e-9)
	assert.InDelta(t, 1.1, *fields.FxRate, 1e-9)
	assert.InDelta(t, 20, *fields.LogisticsCost, 1e-9)
}

func TestComputeOfferDefaults(t *testing.T) {
	// совсем пустой вход: курс 1, всё остальное нули
	fields := ComputeOffer(OfferPriceInput{}, nil, nil)

	require.NotNil(t, fields.ClientPrice)
	assert.Zero(t, *fields.ClientPrice)
	assert.InDelta(t, 1, *fields.FxRate, 1e-9)
	assert.Zero(t, *fields.SupplierPrice)
}

func TestComputeOfferInheritsFromPrevious(t *testing.T) {
	prev := &entities.Offer{
		SupplierPrice: fptr(200),
		FxRate:        fptr(2),
		LogisticsCost: fptr(50),
		MarkupPct:     fptr(25),
		MarkupAbs:     fptr(10),
	}

	// прислана только новая цена поставщика, остальное — от прежнего оффера
	fields := ComputeOffer(OfferPriceInput{SupplierPrice: fptr(300)}, prev, nil)

	require.NotNil(t, fields.ClientPrice)
	assert.InDelta(t, (300*2+50)*1.25+10, *fields.ClientPrice, 1e-9)
}

// Пересчёт с теми же входами даёт ту же цену.
func TestComputeOfferIdempotent(t *testing.T) {
	in := OfferPriceInput{
		SupplierPrice: fptr(100),
		FxRate:        fptr(1.5),
		LogisticsCost: fptr(30),
		MarkupPct:     fptr(12),
	}

	first := ComputeOffer(in, nil, nil)

	prev := &entities.Offer{
		SupplierPrice: first.SupplierPrice,
		FxRate:        first.FxRate,
		LogisticsCost: first.LogisticsCost,
		MarkupPct:     first.MarkupPct,
		MarkupAbs:     first.MarkupAbs,
		ClientPrice:   first.ClientPrice,
	}
	second := ComputeOffer(OfferPriceInput{}, prev, nil)

	require.NotNil(t, second.ClientPrice)
	assert.InDelta(t, *first.ClientPrice, *second.ClientPrice, 1e-9)
}

// Явный client_price побеждает формулу и не перетирается пересчётом компонентов.
func TestComputeOfferExplicitClientPriceWins(t *testing.T) {
	in := OfferPriceInput{
		SupplierPrice: fptr(100),
		FxRate:        fptr(1.1),
		ClientPrice:   fptr(999.99),
	}

	fields := ComputeOffer(in, nil, nil)

	require.NotNil(t, fields.ClientPrice)
	assert.InDelta(t, 999.99, *fields.ClientPrice, 1e-9)
}

func TestComputeOfferRouteFillsLogisticsAndEta(t *testing.T) {
	route := &entities.LogisticsRoute{
		ID:      3,
		Name:    "Гуанчжоу — Москва, авто",
		Cost:    fptr(40),
		EtaDays: iptr(25),
	}
	in := OfferPriceInput{
		SupplierPrice: fptr(100),
		LeadTimeDays:  iptr(10),
	}

	fields := ComputeOffer(in, nil, route)

	require.NotNil(t, fields.ClientPrice)
	assert.InDelta(t, 100.0+40, *fields.ClientPrice, 1e-9)
	require.NotNil(t, fields.EtaDaysEffective)
	assert.Equal(t, 35, *fields.EtaDaysEffective)
}

// Явно присланная логистика сильнее стоимости маршрута.
func TestComputeOfferExplicitLogisticsBeatsRoute(t *testing.T) {
	route := &entities.LogisticsRoute{Cost: fptr(40)}
	in := OfferPriceInput{
		SupplierPrice: fptr(100),
		LogisticsCost: fptr(15),
	}

	fields := ComputeOffer(in, nil, route)
	require.NotNil(t, fields.LogisticsCost)
	assert.InDelta(t, 15, *fields.LogisticsCost, 1e-9)
}

// Нефинитные значения не доходят ни до ответа, ни до БД.
func TestComputeOfferNonFiniteBecomesAbsent(t *testing.T) {
	fields := ComputeOffer(OfferPriceInput{
		SupplierPrice: fptr(math.Inf(1)),
		FxRate:        fptr(2),
	}, nil, nil)

	assert.Nil(t, fields.SupplierPrice)
	assert.Nil(t, fields.ClientPrice)

	fields = ComputeOffer(OfferPriceInput{ClientPrice: fptr(math.NaN())}, nil, nil)
	assert.Nil(t, fields.ClientPrice)
}

func TestMaskOfferForViewer(t *testing.T) {
	offer := entities.Offer{
		SupplierID:         uptr(42),
		SupplierName:       sptr("ООО Поставщик"),
		SupplierPublicCode: sptr("SUP-42"),
		SupplierPrice:      fptr(100),
		ClientPrice:        fptr(148),
		LeadTimeDays:       iptr(14),
	}

	t.Run("менеджер не видит личность поставщика", func(t *testing.T) {
		masked := MaskOfferForViewer(offer, authz.Principal{Role: "manager", RoleID: uptr(3)})
		assert.Nil(t, masked.SupplierID)
		assert.Nil(t, masked.SupplierName)
		// коммерческие условия остаются
		assert.Equal(t, sptr("SUP-42"), masked.SupplierPublicCode)
		assert.Equal(t, fptr(100), masked.SupplierPrice)
		assert.Equal(t, fptr(148), masked.ClientPrice)
		assert.Equal(t, iptr(14), masked.LeadTimeDays)
	})

	t.Run("исходный оффер не мутирует", func(t *testing.T) {
		_ = MaskOfferForViewer(offer, authz.Principal{Role: "manager", RoleID: uptr(3)})
		assert.NotNil(t, offer.SupplierID)
		assert.NotNil(t, offer.SupplierName)
	})

	t.Run("привилегированные роли видят всё", func(t *testing.T) {
		for _, role := range []string{"buyer", "BUYER", "procurement", "закупщик", "Снабженец"} {
			masked := MaskOfferForViewer(offer, authz.Principal{Role: role, RoleID: uptr(2)})
			assert.NotNil(t, masked.SupplierID, role)
			assert.NotNil(t, masked.SupplierName, role)
		}
		masked := MaskOfferForViewer(offer, authz.Principal{Admin: true})
		assert.NotNil(t, masked.SupplierID)
	})
}
