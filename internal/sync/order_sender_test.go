package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradesync/internal/config"
	"tradesync/internal/models"
	"tradesync/internal/trademaster"
)

func testOrderSender(client *MockCartSubmitter, orders *MockOrderRepo, products *MockProductRepo) *OrderSender {
	return NewOrderSender(client, orders, products, nil, &config.Config{
		TradeMaster: config.TradeMasterConfig{
			Storage:  7,
			Currency: "RUB",
		},
	})
}

func TestSendUnknownOrderFails(t *testing.T) {
	orders := new(MockOrderRepo)
	id := uuid.New()
	orders.On("GetByID", mock.Anything, id).Return(nil, errors.New("no rows"))

	sender := testOrderSender(new(MockCartSubmitter), orders, new(MockProductRepo))
	outcome, err := sender.Send(context.Background(), id)

	assert.Equal(t, OutcomeFailed, outcome)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSendAlreadySubmittedIsCancelled(t *testing.T) {
	number := "555"
	order := &models.Order{ID: uuid.New(), ExternalID: &number}

	orders := new(MockOrderRepo)
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	client := new(MockCartSubmitter)

	sender := testOrderSender(client, orders, new(MockProductRepo))
	outcome, err := sender.Send(context.Background(), order.ID)

	assert.Equal(t, OutcomeCancelled, outcome)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	client.AssertNotCalled(t, "SubmitCart", mock.Anything, mock.Anything)
}

func TestSendSkipsItemsWithoutExternalID(t *testing.T) {
	known := &models.Product{ID: uuid.New(), ExternalID: "100", Title: "Widget", Price: 10}
	unknown := &models.Product{ID: uuid.New(), Title: "Local only", Price: 99}
	order := &models.Order{
		ID: uuid.New(),
		List: map[uuid.UUID]int{
			known.ID:   3,
			unknown.ID: 1,
		},
	}

	orders := new(MockOrderRepo)
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("SetExternalID", mock.Anything, order.ID, "777").Return(nil)
	products := new(MockProductRepo)
	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]*models.Product{known, unknown}, nil)

	var gotCart trademaster.Cart
	client := new(MockCartSubmitter)
	client.On("SubmitCart", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		gotCart = args.Get(1).(trademaster.Cart)
	}).Return("777", nil)

	sender := testOrderSender(client, orders, products)
	outcome, err := sender.Send(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	require.Len(t, gotCart.Items, 1)
	assert.Equal(t, "100", gotCart.Items[0].ID)
	assert.Equal(t, 3, gotCart.Items[0].Quantity)
	assert.Equal(t, 30.0, gotCart.Items[0].Price) // unit price times quantity
	orders.AssertExpectations(t)
}

func TestSendSubmitsEmptyCart(t *testing.T) {
	unknown := &models.Product{ID: uuid.New(), Title: "Local only"}
	order := &models.Order{ID: uuid.New(), List: map[uuid.UUID]int{unknown.ID: 1}}

	orders := new(MockOrderRepo)
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("SetExternalID", mock.Anything, order.ID, "777").Return(nil)
	products := new(MockProductRepo)
	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]*models.Product{unknown}, nil)

	client := new(MockCartSubmitter)
	client.On("SubmitCart", mock.Anything, mock.MatchedBy(func(cart trademaster.Cart) bool {
		return len(cart.Items) == 0
	})).Return("777", nil)

	sender := testOrderSender(client, orders, products)
	outcome, err := sender.Send(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	client.AssertExpectations(t)
}

func TestSendVendorFailureKeepsOrderUnsent(t *testing.T) {
	order := &models.Order{ID: uuid.New(), List: map[uuid.UUID]int{}}

	orders := new(MockOrderRepo)
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	products := new(MockProductRepo)
	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]*models.Product{}, nil)

	client := new(MockCartSubmitter)
	client.On("SubmitCart", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	sender := testOrderSender(client, orders, products)
	outcome, err := sender.Send(context.Background(), order.ID)

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Error(t, err)
	assert.Nil(t, order.ExternalID)
	orders.AssertNotCalled(t, "SetExternalID", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendEmptyOrderNumberFails(t *testing.T) {
	order := &models.Order{ID: uuid.New(), List: map[uuid.UUID]int{}}

	orders := new(MockOrderRepo)
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	products := new(MockProductRepo)
	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]*models.Product{}, nil)

	client := new(MockCartSubmitter)
	client.On("SubmitCart", mock.Anything, mock.Anything).Return("", nil)

	sender := testOrderSender(client, orders, products)
	outcome, err := sender.Send(context.Background(), order.ID)

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Error(t, err)
	orders.AssertNotCalled(t, "SetExternalID", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendRecordsVendorNumber(t *testing.T) {
	known := &models.Product{ID: uuid.New(), ExternalID: "100", Price: 5}
	order := &models.Order{ID: uuid.New(), List: map[uuid.UUID]int{known.ID: 2}}

	orders := new(MockOrderRepo)
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("SetExternalID", mock.Anything, order.ID, "888").Return(nil)
	products := new(MockProductRepo)
	products.On("GetByIDs", mock.Anything, mock.Anything).Return([]*models.Product{known}, nil)

	client := new(MockCartSubmitter)
	client.On("SubmitCart", mock.Anything, mock.Anything).Return("888", nil)

	sender := testOrderSender(client, orders, products)
	outcome, err := sender.Send(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, OutcomeDone, outcome)
	require.NotNil(t, order.ExternalID)
	assert.Equal(t, "888", *order.ExternalID)
	orders.AssertExpectations(t)
}
