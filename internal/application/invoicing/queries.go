package invoicing

import (
	"context"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/google/uuid"
)

// QueryService serves read-only payer and order lookups. Each call runs in its own
// unit of work, which is closed without committing.
type QueryService struct {
	uowFactory UnitOfWorkFactory
}

// NewQueryService creates a QueryService
func NewQueryService(uowFactory UnitOfWorkFactory) *QueryService {
	return &QueryService{uowFactory: uowFactory}
}

// PayerList is the response of ListPayers
type PayerList struct {
	Payers []invoicing.PayerView `json:"payers"`
}

// OrderList is the response of ListOrders
type OrderList struct {
	Orders []invoicing.OrderView `json:"orders"`
}

// GetPayer returns the payer with the given id, or nil
func (s *QueryService) GetPayer(ctx context.Context, id uuid.UUID) (*invoicing.PayerView, error) {
	var view *invoicing.PayerView
	err := WithUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		payer, err := uow.Payers().GetByID(ctx, id)
		if err != nil || payer == nil {
			return err
		}
		v := payer.View()
		view = &v
		return nil
	})
	return view, err
}

// ListPayers returns every payer whose name contains name, ignoring case.
// An empty name lists all payers.
func (s *QueryService) ListPayers(ctx context.Context, name string) (*PayerList, error) {
	list := &PayerList{Payers: []invoicing.PayerView{}}
	err := WithUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		payers, err := uow.Payers().ListAll(ctx)
		if err != nil {
			return err
		}
		for i := range payers {
			if name == "" || invoicing.ContainsFold(payers[i].Name, name) {
				list.Payers = append(list.Payers, payers[i].View())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetOrder returns the order with the given id, or nil
func (s *QueryService) GetOrder(ctx context.Context, id uuid.UUID) (*invoicing.OrderView, error) {
	var view *invoicing.OrderView
	err := WithUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		order, err := uow.Orders().GetByID(ctx, id)
		if err != nil || order == nil {
			return err
		}
		v := order.View()
		view = &v
		return nil
	})
	return view, err
}

// ListOrders returns every order whose payer name contains payerName, ignoring case.
// An empty payerName lists all orders.
func (s *QueryService) ListOrders(ctx context.Context, payerName string) (*OrderList, error) {
	list := &OrderList{Orders: []invoicing.OrderView{}}
	err := WithUnitOfWork(ctx, s.uowFactory, func(uow UnitOfWork) error {
		orders, err := uow.Orders().ListAll(ctx)
		if err != nil {
			return err
		}
		for i := range orders {
			if payerName == "" || invoicing.ContainsFold(orders[i].PayerName, payerName) {
				list.Orders = append(list.Orders, orders[i].View())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
