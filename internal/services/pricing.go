package services

import (
	"math"
	"strings"

	"procurement-system/internal/authz"
	"procurement-system/internal/entities"
)

// OfferPriceInput — входные компоненты цены, как их прислал вызывающий.
// nil означает "не прислано": тогда берётся значение прежнего оффера,
// затем ноль (для курса — единица).
type OfferPriceInput struct {
	SupplierPrice    *float64
	FxRate           *float64
	LogisticsCost    *float64
	LogisticsRouteID *uint64
	LeadTimeDays     *int
	MarkupPct        *float64
	MarkupAbs        *float64
	ClientPrice      *float64
}

// OfferFields — вычисленные поля, которые уходят в хранилище.
type OfferFields struct {
	SupplierPrice    *float64
	FxRate           *float64
	LogisticsCost    *float64
	LeadTimeDays     *int
	EtaDaysEffective *int
	MarkupPct        *float64
	MarkupAbs        *float64
	ClientPrice      *float64
}

func resolveFloat(requested *float64, previous *float64, fallback float64) float64 {
	if requested != nil {
		return *requested
	}
	if previous != nil {
		return *previous
	}
	return fallback
}

func resolveInt(requested *int, previous *int, fallback int) int {
	if requested != nil {
		return *requested
	}
	if previous != nil {
		return *previous
	}
	return fallback
}

// finiteOrNil отсекает NaN и бесконечности: наружу и в БД они не попадают,
// нефинитный результат считается отсутствующим.
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ComputeOffer — единственное место, где считается клиентская цена.
// Порядок разрешения каждого входа: значение запроса → значение прежнего
// оффера → умолчание. Формула:
//
//	client_price = (supplier_price*fx + logistics) * (1 + markup_pct/100) + markup_abs
//
// Явно присланный client_price побеждает формулу всегда: однажды
// зафиксированную руками цену пересчёт компонентов не перетирает.
func ComputeOffer(in OfferPriceInput, prev *entities.Offer, route *entities.LogisticsRoute) OfferFields {
	var prevSupplierPrice, prevFx, prevLogistics, prevMarkupPct, prevMarkupAbs *float64
	var prevLeadTime, prevEta *int
	if prev != nil {
		prevSupplierPrice = prev.SupplierPrice
		prevFx = prev.FxRate
		prevLogistics = prev.LogisticsCost
		prevMarkupPct = prev.MarkupPct
		prevMarkupAbs = prev.MarkupAbs
		prevLeadTime = prev.LeadTimeDays
		prevEta = prev.EtaDaysEffective
	}

	fx := resolveFloat(in.FxRate, prevFx, 1)
	supplierPrice := resolveFloat(in.SupplierPrice, prevSupplierPrice, 0)
	base := supplierPrice * fx

	// Маршрут с известной стоимостью перекрывает умолчания, но не явно
	// присланную логистику.
	var logistics float64
	if route != nil && route.Cost != nil && in.LogisticsCost == nil {
		logistics = *route.Cost
	} else {
		logistics = resolveFloat(in.LogisticsCost, prevLogistics, 0)
	}

	leadTime := resolveInt(in.LeadTimeDays, prevLeadTime, 0)

	var eta *int
	if route != nil && route.EtaDays != nil {
		etaDays := leadTime + *route.EtaDays
		eta = &etaDays
	} else {
		eta = prevEta
	}

	markupPct := resolveFloat(in.MarkupPct, prevMarkupPct, 0)
	markupAbs := resolveFloat(in.MarkupAbs, prevMarkupAbs, 0)

	computed := (base + logistics) * (1 + markupPct/100) + markupAbs

	clientPrice := finiteOrNil(computed)
	if in.ClientPrice != nil {
		clientPrice = finiteOrNil(*in.ClientPrice)
	}

	return OfferFields{
		SupplierPrice:    finiteOrNil(supplierPrice),
		FxRate:           finiteOrNil(fx),
		LogisticsCost:    finiteOrNil(logistics),
		LeadTimeDays:     &leadTime,
		EtaDaysEffective: eta,
		MarkupPct:        finiteOrNil(markupPct),
		MarkupAbs:        finiteOrNil(markupAbs),
		ClientPrice:      clientPrice,
	}
}

// buyerRoles — роли закупки, которым видна личность поставщика.
// Слаги исторические, сравниваются без учёта регистра.
var buyerRoles = map[string]struct{}{
	"buyer":       {},
	"procurement": {},
	"закупщик":    {},
	"снабженец":   {},
	"снабжение":   {},
}

func isBuyer(p authz.Principal) bool {
	_, ok := buyerRoles[strings.ToLower(strings.TrimSpace(p.Role))]
	return ok
}

// MaskOfferForViewer — пополевая редакция: непривилегированный зритель теряет
// личность поставщика (supplier_id, supplier_name), но сохраняет коммерческие
// условия — цену, срок и публичный код поставщика.
func MaskOfferForViewer(offer entities.Offer, p authz.Principal) entities.Offer {
	if authz.IsAdmin(p) || isBuyer(p) {
		return offer
	}

	masked := offer
	masked.SupplierID = nil
	masked.SupplierName = nil
	return masked
}

// CanSeeSupplierIdentity — тот же критерий, что у MaskOfferForViewer.
func CanSeeSupplierIdentity(p authz.Principal) bool {
	return authz.IsAdmin(p) || isBuyer(p)
}
