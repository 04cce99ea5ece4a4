// Package accountservice manages business logic layer of the account ledger.
package accountservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/abc-bank/internal/domain"
	"github.com/go-petr/abc-bank/pkg/errorspkg"
	"github.com/go-petr/abc-bank/pkg/passpkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, username string) (domain.Account, error)
	AddBalance(ctx context.Context, username string, amount decimal.Decimal) (domain.Account, error)
	ListEntries(ctx context.Context, username string, limit, offset int32) ([]domain.Entry, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage the ledger business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// SignUp creates the account with zero balance.
//
// The only rule enforced here is username uniqueness; format checks belong to the caller.
func (s *Service) SignUp(ctx context.Context, username, email string, age int, phone, password string) (domain.AccountWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.AccountWithoutPassword

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateAccountParams{
		Username:       username,
		Email:          email,
		Age:            age,
		Phone:          phone,
		HashedPassword: hashedPassword,
	}

	created, err := s.repo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	l.Info().Str("username", username).Msg("account created")

	return domain.NewAccountWithoutPassword(created), nil
}

// Login checks that username and password exactly match a stored account.
func (s *Service) Login(ctx context.Context, username, password string) (domain.AccountWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.AccountWithoutPassword

	a, err := s.repo.Get(ctx, username)
	if err != nil {
		return result, err
	}

	if err := passpkg.Check(password, a.HashedPassword); err != nil {
		l.Warn().Str("username", username).Err(err).Send()
		return result, domain.ErrWrongPassword
	}

	return domain.NewAccountWithoutPassword(a), nil
}

// Deposit increases the balance by amount and returns the changed account.
func (s *Service) Deposit(ctx context.Context, username string, amount decimal.Decimal) (domain.AccountWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.AccountWithoutPassword

	if amount.LessThanOrEqual(decimal.Zero) {
		l.Info().Str("amount", amount.String()).Err(domain.ErrInvalidAmount).Send()
		return result, domain.ErrInvalidAmount
	}

	a, err := s.repo.AddBalance(ctx, username, amount)
	if err != nil {
		return result, err
	}

	return domain.NewAccountWithoutPassword(a), nil
}

// Withdraw decreases the balance by amount and returns the changed account.
//
// The failure reasons are checked in order: invalid amount, user not found,
// insufficient funds. A failed withdrawal never changes the balance.
func (s *Service) Withdraw(ctx context.Context, username string, amount decimal.Decimal) (domain.AccountWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.AccountWithoutPassword

	if amount.LessThanOrEqual(decimal.Zero) {
		l.Info().Str("amount", amount.String()).Err(domain.ErrInvalidAmount).Send()
		return result, domain.ErrInvalidAmount
	}

	a, err := s.repo.Get(ctx, username)
	if err != nil {
		return result, err
	}

	if a.Balance.LessThan(amount) {
		l.Info().
			Str("balance", a.Balance.String()).
			Str("amount", amount.String()).
			Err(domain.ErrInsufficientFunds).
			Send()

		return result, domain.ErrInsufficientFunds
	}

	// The repo re-checks the balance under its lock, a concurrent withdrawal
	// between Get and AddBalance still ends in ErrInsufficientFunds.
	a, err = s.repo.AddBalance(ctx, username, amount.Neg())
	if err != nil {
		return result, err
	}

	return domain.NewAccountWithoutPassword(a), nil
}

// ViewBalance returns the current balance, or zero when no such account exists.
func (s *Service) ViewBalance(ctx context.Context, username string) decimal.Decimal {
	l := zerolog.Ctx(ctx)

	a, err := s.repo.Get(ctx, username)
	if err != nil {
		l.Warn().Str("username", username).Err(err).Msg("balance of unknown account reported as zero")
		return decimal.Zero
	}

	return a.Balance
}

// Get returns the account for the given username.
func (s *Service) Get(ctx context.Context, username string) (domain.AccountWithoutPassword, error) {
	a, err := s.repo.Get(ctx, username)
	if err != nil {
		return domain.AccountWithoutPassword{}, err
	}

	return domain.NewAccountWithoutPassword(a), nil
}

// ListEntries returns a page of balance entries of the given account.
func (s *Service) ListEntries(ctx context.Context, username string, pageSize, pageID int32) ([]domain.Entry, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	entries, err := s.repo.ListEntries(ctx, username, limit, offset)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
