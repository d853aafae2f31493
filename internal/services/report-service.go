package services

import (
	"context"
	"fmt"

	"procurement-system/internal/authz"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	"procurement-system/pkg/utils"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	BuildOffersReport(ctx context.Context, p authz.Principal, orderID uint64) (*excelize.File, string, error)
}

type ReportService struct {
	orderRepo repositories.ClientOrderRepositoryInterface
	itemRepo  repositories.OrderItemRepositoryInterface
	offerRepo repositories.OfferRepositoryInterface
	logger    *zap.Logger
}

func NewReportService(
	orderRepo repositories.ClientOrderRepositoryInterface,
	itemRepo repositories.OrderItemRepositoryInterface,
	offerRepo repositories.OfferRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{orderRepo: orderRepo, itemRepo: itemRepo, offerRepo: offerRepo, logger: logger}
}

var offersReportHeader = []string{
	"№ строки", "Деталь", "Кол-во", "Ед.", "Поставщик", "Код поставщика",
	"Цена поставщика", "Валюта", "Курс", "Логистика", "Срок, дн.",
	"Наценка, %", "Наценка, абс.", "Цена клиента", "Валюта клиента", "Статус",
}

// BuildOffersReport собирает XLSX по всем офферам заказа. Для зрителя без
// права видеть поставщиков колонки с их личностью остаются пустыми — та же
// редакция, что и в API.
func (s *ReportService) BuildOffersReport(ctx context.Context, p authz.Principal, orderID uint64) (*excelize.File, string, error) {
	order, err := s.orderRepo.FindClientOrder(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	items, err := s.itemRepo.GetItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	lineByItem := make(map[uint64]entities.OrderItem, len(items))
	for _, it := range items {
		lineByItem[it.ID] = it
	}

	offers, err := s.offerRepo.GetOffersByOrder(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	const sheet = "Офферы"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range offersReportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", fmt.Errorf("ошибка формирования отчёта: %w", err)
		}
	}

	for rowIdx, offer := range offers {
		masked := MaskOfferForViewer(offer, p)
		item := lineByItem[offer.OrderItemID]

		row := []interface{}{
			item.LineNumber,
			item.OriginalPartID,
			item.RequestedQty,
			item.Uom,
			utils.SafeDeref(masked.SupplierName),
			utils.SafeDeref(masked.SupplierPublicCode),
			utils.SafeDeref(masked.SupplierPrice),
			utils.SafeDeref(masked.SupplierCurrency),
			utils.SafeDeref(masked.FxRate),
			utils.SafeDeref(masked.LogisticsCost),
			utils.SafeDeref(masked.LeadTimeDays),
			utils.SafeDeref(masked.MarkupPct),
			utils.SafeDeref(masked.MarkupAbs),
			utils.SafeDeref(masked.ClientPrice),
			utils.SafeDeref(masked.ClientCurrency),
			masked.Status,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("ошибка формирования отчёта: %w", err)
			}
		}
	}

	filename := fmt.Sprintf("offers_%s_%s.xlsx", order.OrderNumber, uuid.NewString()[:8])
	return f, filename, nil
}
