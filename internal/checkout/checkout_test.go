package checkout

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kugihands/internal/kvstore"
	"kugihands/internal/models"
	"kugihands/internal/store"
)

var testNow = time.Date(2026, time.August, 29, 15, 4, 5, 0, time.UTC)

const (
	yesterday = "2026-08-28"
	today     = "2026-08-29"
	tomorrow  = "2026-08-30"
)

type fixture struct {
	kv       kvstore.Store
	auth     *store.Auth
	cart     *store.Cart
	orders   *store.Orders
	checkout *Checkout
}

func newFixture(kv kvstore.Store) *fixture {
	f := &fixture{
		kv:   kv,
		auth: store.NewAuth(kv, nil),
		cart: store.NewCart(),
	}
	f.orders = store.NewOrders(kv, nil)
	f.checkout = New(f.cart, f.auth, f.orders)
	f.checkout.now = func() time.Time { return testNow }
	return f
}

func (f *fixture) fillPersonalInfo() {
	f.checkout.Form.FirstName = "Maria"
	f.checkout.Form.LastName = "Santos"
	f.checkout.Form.Email = "maria@example.com"
	f.checkout.Form.Phone = "09171234567"
}

func (f *fixture) fillDelivery(date string) {
	f.checkout.Form.Address = "12 Rose St"
	f.checkout.Form.DeliveryDate = date
}

func (f *fixture) loadCart() {
	f.cart.AddItem(models.CartLine{ID: "a", Name: "Fresh Flowers", Set: "Set A",
		Price: models.NewPrice(380), Quantity: 2, DeliveryOption: models.OptionDelivery})
	f.cart.AddItem(models.CartLine{ID: "b", Name: "Mixed Flowers", Set: "Set C",
		Price: models.PriceFromString("₱300.00"), Quantity: 1, DeliveryOption: models.OptionPickup})
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.loadCart()

	require.Equal(t, StepPersonalInfo, f.checkout.Step())
	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())
	require.Equal(t, StepDeliveryAndPayment, f.checkout.Step())

	f.fillDelivery(tomorrow)
	require.True(t, f.checkout.Next())
	require.Equal(t, StepReview, f.checkout.Step())

	order, err := f.checkout.Submit()
	require.NoError(t, err)

	assert.Equal(t, 1060.0, order.Subtotal)
	assert.Equal(t, 50.0, order.DeliveryFee, "one Delivery line triggers the flat surcharge")
	assert.Equal(t, 1110.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, fmt.Sprintf("ORDER-%d", testNow.UnixMilli()), order.ID)
	assert.Equal(t, models.GuestUserID, order.UserID)
	assert.Len(t, order.Items, 2)

	assert.True(t, f.cart.IsEmpty(), "cart clears after a successful order")
	assert.Equal(t, StepPersonalInfo, f.checkout.Step(), "process resets for re-opening")

	persisted := f.orders.List()
	require.Len(t, persisted, 1)
	assert.Equal(t, order.ID, persisted[0].ID)
}

func TestCheckoutPickupOnlyHasNoFee(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.cart.AddItem(models.CartLine{ID: "b", Price: models.NewPrice(300), Quantity: 2,
		DeliveryOption: models.OptionPickup})

	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())
	f.fillDelivery(today)
	require.True(t, f.checkout.Next(), "a delivery date of today is allowed")

	order, err := f.checkout.Submit()
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 600.0, order.Total)
}

func TestPersonalInfoValidation(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.checkout.Form.Email = "not-an-email"

	assert.False(t, f.checkout.Next())
	assert.Equal(t, StepPersonalInfo, f.checkout.Step())

	errs := f.checkout.Errors()
	assert.Equal(t, "First name is required", errs["firstName"])
	assert.Equal(t, "Last name is required", errs["lastName"])
	assert.Equal(t, "Email is invalid", errs["email"])
	assert.Equal(t, "Phone number is required", errs["phone"])
}

func TestDeliveryValidation(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.loadCart()
	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())

	t.Run("missing fields", func(t *testing.T) {
		assert.False(t, f.checkout.Next())
		errs := f.checkout.Errors()
		assert.Equal(t, "Address is required", errs["address"])
		assert.Equal(t, "Delivery date is required", errs["deliveryDate"])
	})

	t.Run("past date stays in step two", func(t *testing.T) {
		f.fillDelivery(yesterday)
		assert.False(t, f.checkout.Next())
		assert.Equal(t, StepDeliveryAndPayment, f.checkout.Step())
		assert.Equal(t, "Delivery date cannot be in the past", f.checkout.Errors()["deliveryDate"])
		assert.Empty(t, f.orders.List(), "no order may be created")
	})

	t.Run("unparseable date", func(t *testing.T) {
		f.fillDelivery("soon")
		assert.False(t, f.checkout.Next())
		assert.Equal(t, "Delivery date is invalid", f.checkout.Errors()["deliveryDate"])
	})
}

func TestSubmitRevalidatesDelivery(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.loadCart()
	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())
	f.fillDelivery(tomorrow)
	require.True(t, f.checkout.Next())

	// the form slid backwards between review and submit
	f.checkout.Form.DeliveryDate = yesterday

	_, err := f.checkout.Submit()
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Delivery date cannot be in the past", verr.Fields["deliveryDate"])
	assert.False(t, f.cart.IsEmpty())
	assert.Empty(t, f.orders.List())
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())
	f.fillDelivery(tomorrow)
	require.True(t, f.checkout.Next())

	_, err := f.checkout.Submit()
	assert.Error(t, err)
	assert.Equal(t, "Your cart is empty.", f.checkout.Errors()["general"])
}

func TestSubmitWithoutParseableTotal(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.cart.AddItem(models.CartLine{ID: "custom", Price: models.PriceFromString("Price may vary"),
		Quantity: 1, DeliveryOption: models.OptionDelivery})

	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())
	f.fillDelivery(tomorrow)
	require.True(t, f.checkout.Next())

	_, err := f.checkout.Submit()
	assert.Error(t, err)
	assert.Contains(t, f.checkout.Errors()["general"], "total could not be computed")
	assert.False(t, f.cart.IsEmpty())
}

type flakyStore struct {
	*kvstore.Memory
	failKey string
}

func (s *flakyStore) Set(key, value string) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.Memory.Set(key, value)
}

func TestSubmitPersistenceFailureLeavesCartIntact(t *testing.T) {
	f := newFixture(&flakyStore{Memory: kvstore.NewMemory(), failKey: "kugihands-orders"})
	f.loadCart()
	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())
	f.fillDelivery(tomorrow)
	require.True(t, f.checkout.Next())

	_, err := f.checkout.Submit()
	require.Error(t, err)
	assert.Contains(t, f.checkout.Errors()["general"], "Please try again")
	assert.False(t, f.cart.IsEmpty(), "the triggering mutation must not be applied")
	assert.Equal(t, StepReview, f.checkout.Step())
	assert.Empty(t, f.orders.List())
}

func TestOpenPrefillsFromSession(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	_, err := f.auth.Register(store.Registration{
		Email:     "maria@example.com",
		Password:  "flowers123",
		FirstName: "Maria",
		LastName:  "Santos",
		Phone:     "09171234567",
		Address:   "12 Rose St",
	})
	require.NoError(t, err)

	f.checkout.Open()
	assert.Equal(t, "Maria", f.checkout.Form.FirstName)
	assert.Equal(t, "maria@example.com", f.checkout.Form.Email)
	assert.Equal(t, "12 Rose St", f.checkout.Form.Address)
	assert.Equal(t, DefaultCity, f.checkout.Form.City)
	assert.Equal(t, models.PaymentCashOnDelivery, f.checkout.Form.PaymentMethod)

	// the order belongs to the session identity, not guest
	f.cart.AddItem(models.CartLine{ID: "a", Price: models.NewPrice(380), Quantity: 1,
		DeliveryOption: models.OptionPickup})
	require.True(t, f.checkout.Next())
	f.checkout.Form.DeliveryDate = tomorrow
	require.True(t, f.checkout.Next())

	order, err := f.checkout.Submit()
	require.NoError(t, err)
	assert.Equal(t, f.auth.Current().ID, order.UserID)
}

func TestBackAndClose(t *testing.T) {
	f := newFixture(kvstore.NewMemory())
	f.fillPersonalInfo()
	require.True(t, f.checkout.Next())

	f.checkout.Back()
	assert.Equal(t, StepPersonalInfo, f.checkout.Step())
	f.checkout.Back()
	assert.Equal(t, StepPersonalInfo, f.checkout.Step())

	require.True(t, f.checkout.Next())
	f.checkout.Close()
	assert.Equal(t, StepPersonalInfo, f.checkout.Step())
	assert.Empty(t, f.checkout.Errors())
}

func TestSummary(t *testing.T) {
	order := &models.Order{
		ID: "ORDER-1",
		Items: []models.CartLine{
			{Name: "Fresh Flowers", Set: "Set A", Price: models.NewPrice(380), Quantity: 2},
			{Name: "Crochet Flowers", Set: "Customized", Price: models.PriceFromString("Price may vary"), Quantity: 1},
		},
		Subtotal:    760,
		DeliveryFee: 50,
		Total:       810,
	}
	text := Summary(order)
	assert.Contains(t, text, "Fresh Flowers (Set A) - Qty: 2 - ₱760.00")
	assert.Contains(t, text, "Crochet Flowers (Customized) - Qty: 1 - Price may vary")
	assert.Contains(t, text, "Total: ₱810.00")
}
