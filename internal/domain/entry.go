package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry holds balance change data for an account.
type Entry struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Amount    decimal.Decimal `json:"amount"` // positive for deposits, negative for withdrawals
	CreatedAt time.Time       `json:"created_at"`
}
