// Package console drives the ledger through the interactive numbered menus of the bank.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/abc-bank/internal/accountservice"
	"github.com/go-petr/abc-bank/internal/domain"
	"github.com/go-petr/abc-bank/pkg/configpkg"
	"github.com/go-petr/abc-bank/pkg/moneypkg"
)

// MaxLoginAttempts is the number of failed logins after which the console returns to the main menu.
const MaxLoginAttempts = 3

// errQuit ends the session from a nested menu.
var errQuit = errors.New("quit")

// Service provides service layer interface needed by the console.
type Service interface {
	SignUp(ctx context.Context, username, email string, age int, phone, password string) (domain.AccountWithoutPassword, error)
	Login(ctx context.Context, username, password string) (domain.AccountWithoutPassword, error)
	Deposit(ctx context.Context, username string, amount decimal.Decimal) (domain.AccountWithoutPassword, error)
	Withdraw(ctx context.Context, username string, amount decimal.Decimal) (domain.AccountWithoutPassword, error)
	ViewBalance(ctx context.Context, username string) decimal.Decimal
}

// Console reads menu choices from in and writes prompts and results to out.
type Console struct {
	service Service
	in      *bufio.Scanner
	out     io.Writer
	config  configpkg.Config
}

// New returns a console over the given ledger service.
func New(service Service, in io.Reader, out io.Writer, config configpkg.Config) *Console {
	return &Console{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
		config:  config,
	}
}

// Run shows the main menu until the user quits or the input ends.
func (c *Console) Run(ctx context.Context) error {
	err := c.mainMenu(ctx)
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("console session ended")
		return nil
	}

	return err
}

func (c *Console) mainMenu(ctx context.Context) error {
	for {
		c.println("Welcome to " + c.config.BankName)
		c.println("1: Login")
		c.println("2: Signup")
		c.println("3: Show Demo Credentials")
		c.println("4: Quit")

		choice, err := c.readLine("Select Option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.login(ctx)
		case "2":
			err = c.signUp(ctx)
		case "3":
			c.showDemoCredentials()
		case "4":
			return errQuit
		default:
			c.println("Invalid option. Please try again.")
		}

		if err != nil {
			return err
		}
	}
}

func (c *Console) showDemoCredentials() {
	c.println("\n--- Demo Account ---")
	c.println("Username: " + accountservice.DemoUsername)
	c.println("Password: " + accountservice.DemoPassword)
	c.println("-------------------\n")
}

func (c *Console) login(ctx context.Context) error {
	l := zerolog.Ctx(ctx)

	for attempts := 0; attempts < MaxLoginAttempts; {
		username, err := c.readLine("Enter username: ")
		if err != nil {
			return err
		}

		password, err := c.readLine("Enter your password: ")
		if err != nil {
			return err
		}

		if username != "" && password != "" {
			_, err = c.service.Login(ctx, username, password)
			if err == nil {
				c.println("Welcome " + username)
				return c.bankMenu(ctx, username)
			}

			l.Debug().Str("username", username).Err(err).Msg("login failed")
		}

		c.println("Invalid username or password")

		attempts++
		if attempts >= MaxLoginAttempts {
			c.println("You have exceeded the maximum number of login attempts.")
			break
		}

		c.println("1: Try again")
		c.println("2: Main menu")
		c.println("3: Quit")

		choice, err := c.readLine("Select option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "2":
			return nil
		case "3":
			return errQuit
		}
	}

	return nil
}

func (c *Console) signUp(ctx context.Context) error {
	fields := []struct {
		prompt string
		value  string
	}{
		{prompt: "Enter Username: "},
		{prompt: "Enter Email: "},
		{prompt: "Enter Age: "},
		{prompt: "Enter Phone: "},
		{prompt: "Enter Password: "},
	}

	missing := false

	for i := range fields {
		value, err := c.readLine(fields[i].prompt)
		if err != nil {
			return err
		}

		fields[i].value = value
		missing = missing || value == ""
	}

	if missing {
		c.println("All fields are required. Please try again.")
		return nil
	}

	username, email, ageInput, phone, password := fields[0].value, fields[1].value, fields[2].value, fields[3].value, fields[4].value

	age, err := strconv.Atoi(ageInput)
	if err != nil {
		c.println("Invalid age. Please enter a valid number.")
		return nil
	}

	_, err = c.service.SignUp(ctx, username, email, age, phone, password)
	switch {
	case err == nil:
		c.println("Signup successful. You can now log in with your new credentials.")
	case errors.Is(err, domain.ErrUsernameAlreadyExists):
		c.println("Username already exists. Please choose a different username.")
	default:
		c.println("Signup failed: " + err.Error())
	}

	return nil
}

func (c *Console) bankMenu(ctx context.Context, username string) error {
	for {
		c.println("\n=== Banking Menu ===")
		c.println("1: View Balance")
		c.println("2: Deposit")
		c.println("3: Withdraw")
		c.println("4: Transfer")
		c.println("5: Quit")

		choice, err := c.readLine("Select option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.println("\nYour current balance is: " + moneypkg.Format(c.service.ViewBalance(ctx, username)))
		case "2":
			err = c.deposit(ctx, username)
		case "3":
			err = c.withdraw(ctx, username)
		case "4":
			c.println("Transfer feature will be available in future updates.")
		case "5":
			c.println("Thank you for using " + c.config.BankName + ". Goodbye!")
			return nil
		default:
			c.println("Invalid option. Please try again.")
		}

		if err != nil {
			return err
		}
	}
}

func (c *Console) deposit(ctx context.Context, username string) error {
	amount, ok, err := c.readAmount("Enter amount to deposit: ")
	if err != nil || !ok {
		return err
	}

	if _, err := c.service.Deposit(ctx, username, amount); err != nil {
		c.println("Deposit failed. Please enter a positive amount.")
		return nil
	}

	c.println("Successfully deposited " + moneypkg.Format(amount))
	c.println("Your new balance is: " + moneypkg.Format(c.service.ViewBalance(ctx, username)))

	return nil
}

func (c *Console) withdraw(ctx context.Context, username string) error {
	amount, ok, err := c.readAmount("Enter amount to withdraw: ")
	if err != nil || !ok {
		return err
	}

	if _, err := c.service.Withdraw(ctx, username, amount); err != nil {
		c.println("Withdrawal failed: " + err.Error())
		return nil
	}

	c.println("Successfully withdrew " + moneypkg.Format(amount))
	c.println("Your new balance is: " + moneypkg.Format(c.service.ViewBalance(ctx, username)))

	return nil
}

// readAmount reports ok=false after telling the user the input is not a number.
func (c *Console) readAmount(prompt string) (decimal.Decimal, bool, error) {
	input, err := c.readLine(prompt)
	if err != nil {
		return decimal.Zero, false, err
	}

	amount, err := moneypkg.ParseAmount(input)
	if err != nil {
		c.println("Invalid input. Please enter a valid numerical value.")
		return decimal.Zero, false, nil
	}

	return amount, true, nil
}

// readLine prints the prompt and returns the next input line without surrounding spaces.
func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		return "", io.EOF
	}

	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
