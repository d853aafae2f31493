package services

import (
	"context"

	"procurement-system/internal/authz"
	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ClientOrderServiceInterface interface {
	GetClientOrders(ctx context.Context, filter types.Filter) ([]dto.ClientOrderDTO, uint64, error)
	FindClientOrder(ctx context.Context, p authz.Principal, id uint64) (*dto.ClientOrderDTO, error)
	CreateOrder(ctx context.Context, p authz.Principal, in dto.CreateClientOrderDTO) (*dto.ClientOrderDTO, error)
	UpdateOrder(ctx context.Context, p authz.Principal, id uint64, in dto.UpdateClientOrderDTO) (*dto.ClientOrderDTO, error)
	DeleteOrder(ctx context.Context, p authz.Principal, id uint64) error

	CreateItem(ctx context.Context, p authz.Principal, orderID uint64, in dto.CreateOrderItemDTO) (*dto.OrderItemDTO, error)
	UpdateItem(ctx context.Context, p authz.Principal, itemID uint64, in dto.UpdateOrderItemDTO) (*dto.OrderItemDTO, error)
	DeleteItem(ctx context.Context, p authz.Principal, itemID uint64) error
	Decide(ctx context.Context, p authz.Principal, itemID uint64, in dto.DecisionDTO) (*dto.OrderItemDTO, error)

	CreateOffer(ctx context.Context, p authz.Principal, itemID uint64, in dto.CreateOfferDTO) (*dto.OfferDTO, error)
	UpdateOffer(ctx context.Context, p authz.Principal, offerID uint64, in dto.UpdateOfferDTO) (*dto.OfferDTO, error)
	DeleteOffer(ctx context.Context, p authz.Principal, offerID uint64) error
	GetOffersByItem(ctx context.Context, p authz.Principal, itemID uint64) ([]dto.OfferDTO, error)
}

type ClientOrderService struct {
	orderRepo repositories.ClientOrderRepositoryInterface
	itemRepo  repositories.OrderItemRepositoryInterface
	offerRepo repositories.OfferRepositoryInterface
	routeRepo repositories.LogisticsRouteRepositoryInterface
	txManager repositories.TxManagerInterface
	audit     AuditServiceInterface
	fxService FxRateServiceInterface
	logger    *zap.Logger
}

func NewClientOrderService(
	orderRepo repositories.ClientOrderRepositoryInterface,
	itemRepo repositories.OrderItemRepositoryInterface,
	offerRepo repositories.OfferRepositoryInterface,
	routeRepo repositories.LogisticsRouteRepositoryInterface,
	txManager repositories.TxManagerInterface,
	audit AuditServiceInterface,
	fxService FxRateServiceInterface,
	logger *zap.Logger,
) ClientOrderServiceInterface {
	return &ClientOrderService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		offerRepo: offerRepo,
		routeRepo: routeRepo,
		txManager: txManager,
		audit:     audit,
		fxService: fxService,
		logger:    logger,
	}
}

func (s *ClientOrderService) GetClientOrders(ctx context.Context, filter types.Filter) ([]dto.ClientOrderDTO, uint64, error) {
	orders, total, err := s.orderRepo.GetClientOrders(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.ClientOrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, dto.ClientOrderToDTO(o))
	}
	return dtos, total, nil
}

// FindClientOrder отдаёт заказ целиком: строки и офферы по каждой строке.
// Офферы проходят через пополевую редакцию под зрителя.
func (s *ClientOrderService) FindClientOrder(ctx context.Context, p authz.Principal, id uint64) (*dto.ClientOrderDTO, error) {
	order, err := s.orderRepo.FindClientOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.GetItemsByOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	offers, err := s.offerRepo.GetOffersByOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	offersByItem := make(map[uint64][]dto.OfferDTO, len(items))
	for _, offer := range offers {
		masked := MaskOfferForViewer(offer, p)
		offersByItem[offer.OrderItemID] = append(offersByItem[offer.OrderItemID], dto.OfferToDTO(masked))
	}

	result := dto.ClientOrderToDTO(*order)
	result.Items = make([]dto.OrderItemDTO, 0, len(items))
	for _, it := range items {
		itemDTO := dto.OrderItemToDTO(it)
		itemDTO.Offers = offersByItem[it.ID]
		result.Items = append(result.Items, itemDTO)
	}
	return &result, nil
}

func (s *ClientOrderService) CreateOrder(ctx context.Context, p authz.Principal, in dto.CreateClientOrderDTO) (*dto.ClientOrderDTO, error) {
	status := in.Status
	if status == "" {
		status = entities.OrderStatusDraft
	}

	order := entities.ClientOrder{
		OrderNumber:       in.OrderNumber,
		ClientID:          in.ClientID,
		Status:            status,
		ResponsibleUserID: in.ResponsibleUserID,
		Currency:          in.Currency,
		Incoterms:         in.Incoterms.Ptr(),
		PaymentTerms:      in.PaymentTerms.Ptr(),
		ContactName:       in.ContactName.Ptr(),
		ContactEmail:      in.ContactEmail.Ptr(),
		ContactPhone:      in.ContactPhone.Ptr(),
	}

	var orderID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.orderRepo.CreateOrderInTx(ctx, tx, order)
		if err != nil {
			return err
		}
		orderID = id

		for _, itemIn := range in.Items {
			item := entities.OrderItem{
				OrderID:        orderID,
				OriginalPartID: itemIn.OriginalPartID,
				RequestedQty:   itemIn.RequestedQty,
				Uom:            itemIn.Uom,
				Status:         entities.OrderItemStatusOpen,
			}
			if _, err := s.itemRepo.CreateItemInTx(ctx, tx, item); err != nil {
				return err
			}
		}

		return s.audit.Record(ctx, tx, entities.OrderEvent{
			OrderID:   orderID,
			Type:      entities.EventOrderCreated,
			ToStatus:  &status,
			Payload:   map[string]interface{}{"order_number": in.OrderNumber, "items": len(in.Items)},
			CreatedBy: p.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.FindClientOrder(ctx, p, orderID)
}

func (s *ClientOrderService) UpdateOrder(ctx context.Context, p authz.Principal, id uint64, in dto.UpdateClientOrderDTO) (*dto.ClientOrderDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.orderRepo.FindClientOrderTx(ctx, tx, id)
		if err != nil {
			return err
		}

		updated := *current
		changed := map[string]interface{}{}

		if in.Status.Valid && in.Status.String != current.Status {
			updated.Status = in.Status.String
		}
		if in.ResponsibleUserID.Valid {
			updated.ResponsibleUserID = in.ResponsibleUserID.Ptr()
			changed["responsible_user_id"] = in.ResponsibleUserID.Uint64
		}
		if in.Currency.Valid && in.Currency.String != current.Currency {
			updated.Currency = in.Currency.String
			changed["currency"] = in.Currency.String
		}
		if in.Incoterms.Valid {
			updated.Incoterms = in.Incoterms.Ptr()
			changed["incoterms"] = in.Incoterms.String
		}
		if in.PaymentTerms.Valid {
			updated.PaymentTerms = in.PaymentTerms.Ptr()
			changed["payment_terms"] = in.PaymentTerms.String
		}
		if in.ContactName.Valid {
			updated.ContactName = in.ContactName.Ptr()
			changed["contact_name"] = in.ContactName.String
		}
		if in.ContactEmail.Valid {
			updated.ContactEmail = in.ContactEmail.Ptr()
			changed["contact_email"] = in.ContactEmail.String
		}
		if in.ContactPhone.Valid {
			updated.ContactPhone = in.ContactPhone.Ptr()
			changed["contact_phone"] = in.ContactPhone.String
		}

		if err := s.orderRepo.UpdateOrderInTx(ctx, tx, id, updated); err != nil {
			return err
		}

		// Переход статуса фиксируется только при реальной смене значения.
		if updated.Status != current.Status {
			from := current.Status
			to := updated.Status
			if err := s.audit.Record(ctx, tx, entities.OrderEvent{
				OrderID:    id,
				Type:       entities.EventOrderStatusChange,
				FromStatus: &from,
				ToStatus:   &to,
				CreatedBy:  p.UserID,
			}); err != nil {
				return err
			}
		}

		if len(changed) > 0 {
			if err := s.audit.Record(ctx, tx, entities.OrderEvent{
				OrderID:   id,
				Type:      entities.EventFieldDiff,
				Payload:   changed,
				CreatedBy: p.UserID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindClientOrder(ctx, p, id)
}

// DeleteOrder помечает заказ удалённым и убирает его строки; офферы остаются
// в хранилище ради истории.
func (s *ClientOrderService) DeleteOrder(ctx context.Context, p authz.Principal, id uint64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.orderRepo.FindClientOrderTx(ctx, tx, id); err != nil {
			return err
		}
		return s.orderRepo.SoftDeleteOrderInTx(ctx, tx, id)
	})
}

func (s *ClientOrderService) CreateItem(ctx context.Context, p authz.Principal, orderID uint64, in dto.CreateOrderItemDTO) (*dto.OrderItemDTO, error) {
	var itemID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.orderRepo.FindClientOrderTx(ctx, tx, orderID); err != nil {
			return err
		}

		id, err := s.itemRepo.CreateItemInTx(ctx, tx, entities.OrderItem{
			OrderID:        orderID,
			OriginalPartID: in.OriginalPartID,
			RequestedQty:   in.RequestedQty,
			Uom:            in.Uom,
			Status:         entities.OrderItemStatusOpen,
		})
		if err != nil {
			return err
		}
		itemID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result := dto.OrderItemToDTO(*item)
	return &result, nil
}

func (s *ClientOrderService) UpdateItem(ctx context.Context, p authz.Principal, itemID uint64, in dto.UpdateOrderItemDTO) (*dto.OrderItemDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.itemRepo.FindItemTx(ctx, tx, itemID)
		if err != nil {
			return err
		}

		updated := *current
		if in.OriginalPartID.Valid {
			updated.OriginalPartID = in.OriginalPartID.Uint64
		}
		if qty := in.RequestedQty.Ptr(); qty != nil {
			if *qty <= 0 {
				return apperrors.NewBadRequestError("количество должно быть больше нуля")
			}
			updated.RequestedQty = *qty
		}
		if in.Uom.Valid {
			updated.Uom = in.Uom.String
		}
		if in.Status.Valid {
			updated.Status = in.Status.String
		}

		if err := s.itemRepo.UpdateItemInTx(ctx, tx, itemID, updated); err != nil {
			return err
		}

		if updated.Status != current.Status {
			from := current.Status
			to := updated.Status
			return s.audit.Record(ctx, tx, entities.OrderEvent{
				OrderID:     current.OrderID,
				OrderItemID: &itemID,
				Type:        entities.EventItemStatusChange,
				FromStatus:  &from,
				ToStatus:    &to,
				CreatedBy:   p.UserID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result := dto.OrderItemToDTO(*item)
	return &result, nil
}

func (s *ClientOrderService) DeleteItem(ctx context.Context, p authz.Principal, itemID uint64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.itemRepo.FindItemTx(ctx, tx, itemID); err != nil {
			return err
		}
		return s.itemRepo.DeleteItemInTx(ctx, tx, itemID)
	})
}

// Decide — выбор оффера по строке заказа. Оффер обязан принадлежать именно
// этой строке: чужой оффер отвергается как несуществующий, без единой записи
// в БД. Выбор, статус строки, видимость оффера и событие журнала коммитятся
// одной транзакцией.
func (s *ClientOrderService) Decide(ctx context.Context, p authz.Principal, itemID uint64, in dto.DecisionDTO) (*dto.OrderItemDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		item, err := s.itemRepo.FindItemTx(ctx, tx, itemID)
		if err != nil {
			return err
		}

		offer, err := s.offerRepo.FindOfferTx(ctx, tx, in.OfferID)
		if err != nil {
			return err
		}
		if offer.OrderItemID != itemID {
			return apperrors.NewNotFoundError("оффер не найден у этой строки заказа")
		}

		if err := s.itemRepo.SetDecisionInTx(ctx, tx, itemID, in.OfferID, entities.OrderItemStatusApproved); err != nil {
			return err
		}
		if err := s.offerRepo.SetClientVisibleInTx(ctx, tx, in.OfferID, true); err != nil {
			return err
		}

		from := item.Status
		to := entities.OrderItemStatusApproved
		return s.audit.Record(ctx, tx, entities.OrderEvent{
			OrderID:     item.OrderID,
			OrderItemID: &itemID,
			OfferID:     &in.OfferID,
			Type:        entities.EventOfferSelected,
			FromStatus:  &from,
			ToStatus:    &to,
			Payload:     map[string]interface{}{"offer_id": in.OfferID},
			CreatedBy:   p.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	offers, err := s.offerRepo.GetOffersByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result := dto.OrderItemToDTO(*item)
	result.Offers = make([]dto.OfferDTO, 0, len(offers))
	for _, offer := range offers {
		result.Offers = append(result.Offers, dto.OfferToDTO(MaskOfferForViewer(offer, p)))
	}
	return &result, nil
}

// lookupFxRate подставляет курс из справочника, когда его не прислали и не от
// чего унаследовать. Отказ справочника не валит создание оффера: движок цены
// возьмёт единицу.
func (s *ClientOrderService) lookupFxRate(ctx context.Context, from, to *string) *float64 {
	if from == nil || to == nil || *from == "" || *to == "" || *from == *to {
		return nil
	}
	rate, err := s.fxService.GetRate(ctx, *from, *to, false)
	if err != nil {
		s.logger.Warn("курс валют не найден, берём 1",
			zap.String("from", *from), zap.String("to", *to), zap.Error(err))
		return nil
	}
	return &rate
}

func (s *ClientOrderService) CreateOffer(ctx context.Context, p authz.Principal, itemID uint64, in dto.CreateOfferDTO) (*dto.OfferDTO, error) {
	var offerID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		item, err := s.itemRepo.FindItemTx(ctx, tx, itemID)
		if err != nil {
			return err
		}
		order, err := s.orderRepo.FindClientOrderTx(ctx, tx, item.OrderID)
		if err != nil {
			return err
		}

		var route *entities.LogisticsRoute
		if in.LogisticsRouteID.Valid {
			route, err = s.routeRepo.FindRoute(ctx, in.LogisticsRouteID.Uint64)
			if err != nil {
				return err
			}
		}

		input := OfferPriceInput{
			SupplierPrice:    in.SupplierPrice.Ptr(),
			FxRate:           in.FxRate.Ptr(),
			LogisticsCost:    in.LogisticsCost.Ptr(),
			LogisticsRouteID: in.LogisticsRouteID.Ptr(),
			LeadTimeDays:     in.LeadTimeDays.Ptr(),
			MarkupPct:        in.MarkupPct.Ptr(),
			MarkupAbs:        in.MarkupAbs.Ptr(),
			ClientPrice:      in.ClientPrice.Ptr(),
		}
		if input.FxRate == nil {
			input.FxRate = s.lookupFxRate(ctx, in.SupplierCurrency.Ptr(), &order.Currency)
		}

		fields := ComputeOffer(input, nil, route)

		status := entities.OfferStatusDraft
		if in.Status.Valid {
			status = in.Status.String
		}
		clientCurrency := order.Currency

		offer := entities.Offer{
			OrderItemID:        itemID,
			SupplierID:         in.SupplierID.Ptr(),
			SupplierPartID:     in.SupplierPartID.Ptr(),
			SupplierPublicCode: in.SupplierPublicCode.Ptr(),
			SupplierPrice:      fields.SupplierPrice,
			SupplierCurrency:   in.SupplierCurrency.Ptr(),
			FxRate:             fields.FxRate,
			LogisticsCost:      fields.LogisticsCost,
			LogisticsRouteID:   in.LogisticsRouteID.Ptr(),
			LeadTimeDays:       fields.LeadTimeDays,
			EtaDaysEffective:   fields.EtaDaysEffective,
			MarkupPct:          fields.MarkupPct,
			MarkupAbs:          fields.MarkupAbs,
			ClientPrice:        fields.ClientPrice,
			ClientCurrency:     &clientCurrency,
			Status:             status,
			ClientVisible:      in.ClientVisible.Bool,
			CreatedByUserID:    p.UserID,
		}
		if in.ClientCurrency.Valid {
			offer.ClientCurrency = in.ClientCurrency.Ptr()
		}

		id, err := s.offerRepo.CreateOfferInTx(ctx, tx, offer)
		if err != nil {
			return err
		}
		offerID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	offer, err := s.offerRepo.FindOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	result := dto.OfferToDTO(MaskOfferForViewer(*offer, p))
	return &result, nil
}

// UpdateOffer — частичное обновление с пересчётом цены. Непересланные
// компоненты наследуются от текущего оффера; явный client_price фиксирует
// цену поверх формулы.
func (s *ClientOrderService) UpdateOffer(ctx context.Context, p authz.Principal, offerID uint64, in dto.UpdateOfferDTO) (*dto.OfferDTO, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		prev, err := s.offerRepo.FindOfferTx(ctx, tx, offerID)
		if err != nil {
			return err
		}

		routeID := prev.LogisticsRouteID
		if in.LogisticsRouteID.Valid {
			routeID = in.LogisticsRouteID.Ptr()
		}
		var route *entities.LogisticsRoute
		if routeID != nil {
			route, err = s.routeRepo.FindRoute(ctx, *routeID)
			if err != nil {
				return err
			}
		}

		input := OfferPriceInput{
			SupplierPrice:    in.SupplierPrice.Ptr(),
			FxRate:           in.FxRate.Ptr(),
			LogisticsCost:    in.LogisticsCost.Ptr(),
			LogisticsRouteID: routeID,
			LeadTimeDays:     in.LeadTimeDays.Ptr(),
			MarkupPct:        in.MarkupPct.Ptr(),
			MarkupAbs:        in.MarkupAbs.Ptr(),
			ClientPrice:      in.ClientPrice.Ptr(),
		}
		fields := ComputeOffer(input, prev, route)

		updated := *prev
		if in.SupplierID.Valid {
			updated.SupplierID = in.SupplierID.Ptr()
		}
		if in.SupplierPartID.Valid {
			updated.SupplierPartID = in.SupplierPartID.Ptr()
		}
		if in.SupplierPublicCode.Valid {
			updated.SupplierPublicCode = in.SupplierPublicCode.Ptr()
		}
		if in.SupplierCurrency.Valid {
			updated.SupplierCurrency = in.SupplierCurrency.Ptr()
		}
		if in.ClientCurrency.Valid {
			updated.ClientCurrency = in.ClientCurrency.Ptr()
		}
		if in.Status.Valid {
			updated.Status = in.Status.String
		}
		if in.ClientVisible.Valid {
			updated.ClientVisible = in.ClientVisible.Bool
		}
		updated.LogisticsRouteID = routeID
		updated.SupplierPrice = fields.SupplierPrice
		updated.FxRate = fields.FxRate
		updated.LogisticsCost = fields.LogisticsCost
		updated.LeadTimeDays = fields.LeadTimeDays
		updated.EtaDaysEffective = fields.EtaDaysEffective
		updated.MarkupPct = fields.MarkupPct
		updated.MarkupAbs = fields.MarkupAbs
		updated.ClientPrice = fields.ClientPrice

		if err := s.offerRepo.UpdateOfferInTx(ctx, tx, offerID, updated); err != nil {
			return err
		}

		if updated.Status != prev.Status {
			item, err := s.itemRepo.FindItemTx(ctx, tx, prev.OrderItemID)
			if err != nil {
				return err
			}
			from := prev.Status
			to := updated.Status
			return s.audit.Record(ctx, tx, entities.OrderEvent{
				OrderID:     item.OrderID,
				OrderItemID: &prev.OrderItemID,
				OfferID:     &offerID,
				Type:        entities.EventOfferStatusChange,
				FromStatus:  &from,
				ToStatus:    &to,
				CreatedBy:   p.UserID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	offer, err := s.offerRepo.FindOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	result := dto.OfferToDTO(MaskOfferForViewer(*offer, p))
	return &result, nil
}

func (s *ClientOrderService) DeleteOffer(ctx context.Context, p authz.Principal, offerID uint64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.offerRepo.FindOfferTx(ctx, tx, offerID); err != nil {
			return err
		}
		return s.offerRepo.DeleteOfferInTx(ctx, tx, offerID)
	})
}

func (s *ClientOrderService) GetOffersByItem(ctx context.Context, p authz.Principal, itemID uint64) ([]dto.OfferDTO, error) {
	if _, err := s.itemRepo.FindItem(ctx, itemID); err != nil {
		return nil, err
	}

	offers, err := s.offerRepo.GetOffersByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.OfferDTO, 0, len(offers))
	for _, offer := range offers {
		dtos = append(dtos, dto.OfferToDTO(MaskOfferForViewer(offer, p)))
	}
	return dtos, nil
}
