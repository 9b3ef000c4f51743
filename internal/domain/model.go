package domain

import "time"

const WalletActive = "active"

const (
	DeliveryCreated         = "created"
	DeliveryAccepted        = "accepted"
	DeliveryCompleted       = "completed"
	DeliveryFailed          = "failed"
	DeliveryReturnCompleted = "return_completed"
)

// InitialBalance is granted to every wallet at registration.
const InitialBalance = 100

type User struct {
	ID           int64
	FullName     string
	Email        string
	Password     string
	Roles        []string
	Wallet       Wallet
	RegisteredAt time.Time
}

type Wallet struct {
	Available float64
	Escrow    float64
	Disputed  float64
	Status    string
}

type Delivery struct {
	ID          int64
	RequesterID int64
	CourierID   *int64
	Status      string
	Amount      float64
	Origin      string
	Destination string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	FullName *string
	Email    *string
	Password *string
}

func (p UserPatch) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.Password == nil
}

// DeliveryFilter narrows a delivery listing. AvailableOnly restricts the
// result to unclaimed deliveries posted by other users.
type DeliveryFilter struct {
	Status        string
	AvailableOnly bool
}
