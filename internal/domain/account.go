// Package domain provides definitions of all ledger entities.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUsernameAlreadyExists indicates that an account with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrUserNotFound indicates that no account matches the given username.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given username.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidAmount indicates a zero or negative amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates that the balance is lower than the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account holds a registered user together with the balance.
type Account struct {
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Age            int             `json:"age"`
	Phone          string          `json:"phone"`
	HashedPassword string          `json:"hashed_password"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	Username       string
	Email          string
	Age            int
	Phone          string
	HashedPassword string
}

// AccountWithoutPassword is Account data excluding password data.
type AccountWithoutPassword struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Age       int             `json:"age"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAccountWithoutPassword returns account with removed sensitive data.
func NewAccountWithoutPassword(a Account) AccountWithoutPassword {
	return AccountWithoutPassword{
		Username:  a.Username,
		Email:     a.Email,
		Age:       a.Age,
		Phone:     a.Phone,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
}
