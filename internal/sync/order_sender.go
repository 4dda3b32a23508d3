package sync

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"tradesync/internal/config"
	"tradesync/internal/models"
	"tradesync/internal/repositories"
	"tradesync/internal/trademaster"
)

// CartSubmitter is the slice of the vendor API order submission consumes.
type CartSubmitter interface {
	SubmitCart(ctx context.Context, cart trademaster.Cart) (string, error)
}

// Mailer sends the order confirmation to the customer. Implementations are
// expected to no-op when no template is configured.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, products []*models.Product) error
}

// OrderSender pushes a locally created order to the vendor and records the
// vendor-assigned order number. Re-entry on an already-submitted order is a
// no-op with the cancelled outcome, which makes duplicate triggers safe.
type OrderSender struct {
	client   CartSubmitter
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	mailer   Mailer // optional
	tm       config.TradeMasterConfig
}

// NewOrderSender wires an order sender. mailer may be nil.
func NewOrderSender(client CartSubmitter, orders repositories.OrderRepository,
	products repositories.ProductRepository, mailer Mailer, cfg *config.Config) *OrderSender {
	return &OrderSender{
		client:   client,
		orders:   orders,
		products: products,
		mailer:   mailer,
		tm:       cfg.TradeMaster,
	}
}

// Send submits one order. The outcome is exactly one of done, failed or
// cancelled; on failure the order keeps a nil external id and remains
// submittable later. The cancelled outcome carries ErrAlreadySubmitted so
// callers can tell it apart with errors.Is; it is not a failure.
func (s *OrderSender) Send(ctx context.Context, orderID uuid.UUID) (Outcome, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("%w: %s: %v", ErrOrderNotFound, orderID, err)
	}
	if order.Submitted() {
		log.Printf("order: %s already submitted as %s", order.ID, *order.ExternalID)
		return OutcomeCancelled, fmt.Errorf("%w: %s", ErrAlreadySubmitted, *order.ExternalID)
	}

	products, err := s.loadProducts(ctx, order)
	if err != nil {
		return OutcomeFailed, err
	}

	// Line items the vendor cannot identify are silently left out; the cart
	// is submitted even when that leaves it empty.
	items := make([]trademaster.CartItem, 0, len(products))
	for _, p := range products {
		if p.ExternalID == "" {
			continue
		}
		quantity := order.List[p.ID]
		items = append(items, trademaster.CartItem{
			ID:       p.ExternalID,
			Name:     p.Title,
			Quantity: quantity,
			Price:    p.Price * float64(quantity),
		})
	}

	number, err := s.client.SubmitCart(ctx, trademaster.Cart{
		Storage:        s.tm.Storage,
		Legal:          s.tm.Legal,
		Checkout:       s.tm.Checkout,
		Contractor:     s.tm.Contractor,
		Scheme:         s.tm.Scheme,
		Currency:       s.tm.Currency,
		UserID:         s.tm.UserID,
		ContactName:    order.Delivery.Client,
		ContactAddress: order.Delivery.Address,
		ContactPhone:   order.Phone,
		ContactEmail:   order.Email,
		DeliveryDate:   order.ShippingDate,
		Comment:        order.Comment,
		Items:          items,
	})
	if err != nil {
		return OutcomeFailed, err
	}
	if number == "" {
		return OutcomeFailed, fmt.Errorf("vendor rejected order %s", order.ID)
	}

	if err := s.orders.SetExternalID(ctx, order.ID, number); err != nil {
		return OutcomeFailed, fmt.Errorf("record order number %s: %w", number, err)
	}
	order.ExternalID = &number
	log.Printf("order: %s submitted as %s", order.ID, number)

	if s.mailer != nil && order.Email != "" && s.tm.ClientMailTemplate != "" {
		if err := s.mailer.SendOrderConfirmation(ctx, order, products); err != nil {
			log.Printf("order: confirmation mail for %s: %v", order.ID, err)
		}
	}
	return OutcomeDone, nil
}

func (s *OrderSender) loadProducts(ctx context.Context, order *models.Order) ([]*models.Product, error) {
	ids := make([]uuid.UUID, 0, len(order.List))
	for id := range order.List {
		ids = append(ids, id)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load order products: %w", err)
	}
	return products, nil
}
