// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/abc-bank/internal/domain"
)

// RepoMem keeps accounts and their balance entries in process memory.
//
// Every method runs as a single critical section, so a RepoMem can be shared
// between goroutines. Nothing is persisted.
type RepoMem struct {
	mu          sync.Mutex
	accounts    map[string]*domain.Account
	entries     map[string][]domain.Entry
	nextEntryID int64
	now         func() time.Time
}

// New returns an empty RepoMem.
func New() *RepoMem {
	return &RepoMem{
		accounts: make(map[string]*domain.Account),
		entries:  make(map[string][]domain.Entry),
		now:      time.Now,
	}
}

// Create inserts the account with zero balance and then returns it.
func (r *RepoMem) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[arg.Username]; ok {
		l.Info().Str("username", arg.Username).Err(domain.ErrUsernameAlreadyExists).Send()
		return domain.Account{}, domain.ErrUsernameAlreadyExists
	}

	a := &domain.Account{
		Username:       arg.Username,
		Email:          arg.Email,
		Age:            arg.Age,
		Phone:          arg.Phone,
		HashedPassword: arg.HashedPassword,
		Balance:        decimal.Zero,
		CreatedAt:      r.now().UTC(),
	}
	r.accounts[a.Username] = a

	return *a, nil
}

// Get returns the account with the given username.
func (r *RepoMem) Get(ctx context.Context, username string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[username]
	if !ok {
		return domain.Account{}, domain.ErrUserNotFound
	}

	return *a, nil
}

// AddBalance changes the account's balance by amount, records the entry and
// returns the changed account. A change that would leave the balance negative
// is rejected with domain.ErrInsufficientFunds and nothing is modified.
func (r *RepoMem) AddBalance(ctx context.Context, username string, amount decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[username]
	if !ok {
		return domain.Account{}, domain.ErrUserNotFound
	}

	newBalance := a.Balance.Add(amount)
	if newBalance.IsNegative() {
		l.Info().
			Str("username", username).
			Str("balance", a.Balance.String()).
			Str("amount", amount.String()).
			Err(domain.ErrInsufficientFunds).
			Send()

		return domain.Account{}, domain.ErrInsufficientFunds
	}

	a.Balance = newBalance

	r.nextEntryID++
	r.entries[username] = append(r.entries[username], domain.Entry{
		ID:        r.nextEntryID,
		Username:  username,
		Amount:    amount,
		CreatedAt: r.now().UTC(),
	})

	return *a, nil
}

// ListEntries returns the specified number of balance entries for the given
// username, oldest first.
func (r *RepoMem) ListEntries(ctx context.Context, username string, limit, offset int32) ([]domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[username]; !ok {
		return nil, domain.ErrUserNotFound
	}

	all := r.entries[username]
	items := []domain.Entry{}

	if offset < 0 || limit <= 0 || int(offset) >= len(all) {
		return items, nil
	}

	end := int(offset) + int(limit)
	if end > len(all) {
		end = len(all)
	}

	items = append(items, all[offset:end]...)

	return items, nil
}
