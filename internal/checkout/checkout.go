// Package checkout drives the staged order flow: collect personal info,
// collect delivery and payment details, review, submit. Each stage gates
// the next behind validation, and submitting materializes an immutable
// order from the cart before clearing it.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"kugihands/internal/models"
	"kugihands/internal/store"
)

type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepDeliveryAndPayment
	StepReview
)

// DeliveryFee is the flat per-order surcharge applied when any line asks
// for delivery. Pick-up-only orders pay nothing.
const DeliveryFee = 50

const DefaultCity = "Cagayan de Oro"

// Preferred delivery windows.
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
)

// Form holds everything the checkout collects across its steps. Fields
// are pre-filled from the active session on Open but stay editable.
type Form struct {
	FirstName           string
	LastName            string
	Email               string
	Phone               string
	Address             string
	City                string
	DeliveryDate        string // 2006-01-02
	DeliveryTime        string
	SpecialInstructions string
	PaymentMethod       string
}

// Checkout is the staged state machine. It reads the cart and the auth
// session, and on submit appends to the order log and clears the cart;
// it never touches identity or favorites state.
type Checkout struct {
	cart   *store.Cart
	auth   *store.Auth
	orders *store.Orders

	Form Form
	step Step
	errs map[string]string
	now  func() time.Time
}

func New(cart *store.Cart, auth *store.Auth, orders *store.Orders) *Checkout {
	c := &Checkout{cart: cart, auth: auth, orders: orders, now: time.Now}
	c.Open()
	return c
}

// Open resets the process to the first step with a fresh form, pre-filled
// from the active session when one exists.
func (c *Checkout) Open() {
	c.step = StepPersonalInfo
	c.errs = nil
	c.Form = Form{
		City:          DefaultCity,
		DeliveryTime:  TimeMorning,
		PaymentMethod: models.PaymentCashOnDelivery,
	}
	if identity := c.auth.Current(); identity != nil {
		c.Form.FirstName = identity.FirstName
		c.Form.LastName = identity.LastName
		c.Form.Email = identity.Email
		c.Form.Phone = identity.Phone
		c.Form.Address = identity.Address
	}
}

// Close cancels the process; the next Open starts over at step one.
func (c *Checkout) Close() {
	c.Open()
}

func (c *Checkout) Step() Step { return c.step }

// Errors returns the field-keyed messages from the last failed validation;
// the "general" key carries step-scoped failures.
func (c *Checkout) Errors() map[string]string { return c.errs }

// Next validates the current step and advances on success. On failure the
// step is unchanged and Errors reports what to fix.
func (c *Checkout) Next() bool {
	var errs map[string]string
	switch c.step {
	case StepPersonalInfo:
		errs = c.validatePersonalInfo()
	case StepDeliveryAndPayment:
		errs = c.validateDelivery()
	case StepReview:
		return true
	}
	if len(errs) > 0 {
		c.errs = errs
		return false
	}
	c.errs = nil
	c.step++
	return true
}

// Back returns to the previous step without validating.
func (c *Checkout) Back() {
	if c.step > StepPersonalInfo {
		c.step--
	}
	c.errs = nil
}

func (c *Checkout) personalInfo() models.PersonalInfo {
	return models.PersonalInfo{
		FirstName: c.Form.FirstName,
		LastName:  c.Form.LastName,
		Email:     c.Form.Email,
		Phone:     c.Form.Phone,
	}
}

func (c *Checkout) validatePersonalInfo() map[string]string {
	return models.FieldErrors(c.personalInfo())
}

func (c *Checkout) validateDelivery() map[string]string {
	errs := make(map[string]string)
	if c.Form.Address == "" {
		errs["address"] = "Address is required"
	}
	if c.Form.DeliveryDate == "" {
		errs["deliveryDate"] = "Delivery date is required"
	} else if date, err := time.Parse("2006-01-02", c.Form.DeliveryDate); err != nil {
		errs["deliveryDate"] = "Delivery date is invalid"
	} else {
		now := c.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(today) {
			errs["deliveryDate"] = "Delivery date cannot be in the past"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

const generalFailureMessage = "An error occurred while placing your order. Please try again."

// Submit re-validates the delivery step, builds the order, appends it to
// the order log and clears the cart. On any failure the cart is left
// intact and Errors explains why; persistence faults come back wrapped.
func (c *Checkout) Submit() (*models.Order, error) {
	if errs := c.validateDelivery(); len(errs) > 0 {
		c.errs = errs
		return nil, &models.ValidationError{Fields: errs}
	}
	if c.cart.IsEmpty() {
		c.errs = map[string]string{"general": "Your cart is empty."}
		return nil, errors.New("checkout: cart is empty")
	}
	if !c.cart.HasParseablePrice() {
		c.errs = map[string]string{"general": "Your order total could not be computed. Please set a price for custom items."}
		return nil, errors.New("checkout: no parseable total")
	}

	items := c.cart.Lines()
	subtotal := c.cart.TotalPrice()
	fee := decimal.Zero
	for _, line := range items {
		if line.DeliveryOption == models.OptionDelivery {
			fee = decimal.NewFromInt(DeliveryFee)
			break
		}
	}

	userID := models.GuestUserID
	if identity := c.auth.Current(); identity != nil {
		userID = identity.ID
	}

	now := c.now()
	order := models.Order{
		ID:           fmt.Sprintf("ORDER-%d", now.UnixMilli()),
		UserID:       userID,
		Items:        items,
		PersonalInfo: c.personalInfo(),
		DeliveryInfo: models.DeliveryInfo{
			Address:             c.Form.Address,
			City:                c.Form.City,
			DeliveryDate:        c.Form.DeliveryDate,
			DeliveryTime:        c.Form.DeliveryTime,
			SpecialInstructions: c.Form.SpecialInstructions,
		},
		PaymentMethod: c.Form.PaymentMethod,
		Subtotal:      subtotal.InexactFloat64(),
		DeliveryFee:   fee.InexactFloat64(),
		Total:         subtotal.Add(fee).InexactFloat64(),
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
	}

	if err := c.orders.Append(order); err != nil {
		c.errs = map[string]string{"general": generalFailureMessage}
		return nil, err
	}

	c.cart.Clear()
	c.Open()
	return &order, nil
}
