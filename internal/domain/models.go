package domain

import (
	"time"

	"pizza-store/internal/apperr"
)

// Role is the authorization level attached to a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleManager  Role = "manager"
)

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleDriver, RoleManager:
		return Role(s), nil
	}
	return "", apperr.Validationf("unknown role %q", s)
}

type User struct {
	Login         string
	Password      string
	PhoneNum      string
	Role          Role
	FavoriteItems string
}

type Store struct {
	ID          int
	Address     string
	City        string
	State       string
	ReviewScore string
	IsOpen      string
}

type MenuItem struct {
	Name        string
	Ingredients string
	Category    string
	Price       float64
	Description string
}

type Order struct {
	ID         int64
	Login      string
	StoreID    int
	TotalPrice float64
	Timestamp  time.Time
	Status     string
}

type OrderLine struct {
	OrderID  int64
	ItemName string
	Quantity int
}

// CartLine is one add-to-cart action: quantity, item and the extended price
// at the moment the item was added.
type CartLine struct {
	Quantity  int
	ItemName  string
	LineTotal float64
}
