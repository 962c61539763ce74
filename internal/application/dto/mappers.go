package dto

import (
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/inventory"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// ToProductResponse mapea la entidad con is_low_stock y profit_margin calculados.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Category:      p.Category,
		Brand:         p.Brand,
		Description:   p.Description,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		StockQuantity: p.StockQuantity,
		MinStock:      p.MinStock,
		IsActive:      p.IsActive,
		IsLowStock:    p.IsLowStock(),
		ProfitMargin:  p.ProfitMargin(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToProductList(list []*entity.Product, limit, offset int) *ProductListResponse {
	items := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &ProductListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset}}
}

func ToStockMovementResponse(m *entity.StockMovement) *StockMovementResponse {
	if m == nil {
		return nil
	}
	return &StockMovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		PreviousQuantity:  m.PreviousQuantity,
		ResultingQuantity: m.ResultingQuantity,
		Reason:            m.Reason,
		Reference:         m.Reference,
		PerformedBy:       m.PerformedBy,
		CreatedAt:         m.CreatedAt,
	}
}

func ToStockMovementList(list []*entity.StockMovement, limit, offset int) *StockMovementListResponse {
	items := make([]StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToStockMovementResponse(m))
	}
	return &StockMovementListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset}}
}

func ToStockAlertResponse(a inventory.StockAlert) *StockAlertResponse {
	return &StockAlertResponse{
		TotalProducts: a.TotalProducts,
		LowStock:      a.LowStock,
		OutOfStock:    a.OutOfStock,
		HasAlerts:     a.HasAlerts(),
	}
}

// ToServiceOrderResponse mapea la orden; total y subtotales se recalculan aquí.
func ToServiceOrderResponse(o *entity.ServiceOrder) *ServiceOrderResponse {
	if o == nil {
		return nil
	}
	items := make([]ServiceOrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, ServiceOrderItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			ItemType:    it.Type,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
			CreatedAt:   it.CreatedAt,
		})
	}
	return &ServiceOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		VehicleID:    o.VehicleID,
		CustomerID:   o.CustomerID,
		Status:       o.Status,
		Observations: o.Observations,
		Items:        items,
		Total:        o.Total(),
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		CompletedAt:  o.CompletedAt,
		CompletedBy:  o.CompletedBy,
		CancelledAt:  o.CancelledAt,
		CancelledBy:  o.CancelledBy,
	}
}

func ToServiceOrderList(list []*entity.ServiceOrder, limit, offset int) *ServiceOrderListResponse {
	items := make([]ServiceOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToServiceOrderResponse(o))
	}
	return &ServiceOrderListResponse{Items: items, Page: PageResponse{Limit: limit, Offset: offset}}
}

func ToServiceOrderStatsResponse(s *repository.ServiceOrderStats) *ServiceOrderStatsResponse {
	if s == nil {
		return &ServiceOrderStatsResponse{}
	}
	return &ServiceOrderStatsResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Completed: s.Completed,
		Cancelled: s.Cancelled,
		Revenue:   s.Revenue,
	}
}
