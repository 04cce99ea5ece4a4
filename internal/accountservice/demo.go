package accountservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-petr/abc-bank/internal/domain"
)

// Demo account credentials shown by the console.
const (
	DemoUsername = "Joe.Doe"
	DemoPassword = "Password123"
	DemoEmail    = "joe.doe@example.com"
	DemoAge      = 30
	DemoPhone    = "123-456-7890"
)

// SeedDemo signs up the demo account. An already seeded ledger is left as is.
func (s *Service) SeedDemo(ctx context.Context) error {
	_, err := s.SignUp(ctx, DemoUsername, DemoEmail, DemoAge, DemoPhone, DemoPassword)
	if err != nil && !errors.Is(err, domain.ErrUsernameAlreadyExists) {
		return fmt.Errorf("seeding demo account: %w", err)
	}

	return nil
}
