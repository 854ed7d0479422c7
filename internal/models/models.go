package models

import "time"

// Identity is a registered account as stored in the all-identities
// collection. The password hash is stripped before an identity is
// activated as the session snapshot, see Sanitized.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy safe to hand to callers and to persist as the
// active-session snapshot.
func (i Identity) Sanitized() Identity {
	i.PasswordHash = ""
	return i
}

// FavoriteEntry is a product snapshot taken at the time of favoriting.
type FavoriteEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Set      string `json:"set"`
	Price    Price  `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

// Delivery options a cart line can carry.
const (
	OptionDelivery = "Delivery"
	OptionPickup   = "Pick-up"
)

type CartLine struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Set            string `json:"set"`
	Price          Price  `json:"price"`
	Image          string `json:"image"`
	Category       string `json:"category"`
	Quantity       int    `json:"quantity"`
	DeliveryOption string `json:"deliveryOption"`
}

type PersonalInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

type DeliveryInfo struct {
	Address             string `json:"address"`
	City                string `json:"city"`
	DeliveryDate        string `json:"deliveryDate"`
	DeliveryTime        string `json:"deliveryTime"`
	SpecialInstructions string `json:"specialInstructions"`
}

const (
	PaymentCashOnDelivery = "cod"
	PaymentGCash          = "gcash"
)

const (
	OrderStatusPending = "pending"
	GuestUserID        = "guest"
)

// Order is immutable once created; the order log only ever appends.
type Order struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Items         []CartLine   `json:"items"`
	PersonalInfo  PersonalInfo `json:"personalInfo"`
	DeliveryInfo  DeliveryInfo `json:"deliveryInfo"`
	PaymentMethod string       `json:"paymentMethod"`
	Subtotal      float64      `json:"subtotal"`
	DeliveryFee   float64      `json:"deliveryFee"`
	Total         float64      `json:"total"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
}
