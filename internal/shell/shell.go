// Package shell runs the interactive menu on top of the ledger.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/safebank/internal/domain"
	"github.com/go-petr/safebank/pkg/validatepkg"
)

// Service provides the ledger operations the shell drives.
//
//go:generate mockgen -source shell.go -destination shell_mock.go -package shell
type Service interface {
	GeneratePIN(ctx context.Context) (int64, error)
	CreateAccount(ctx context.Context, arg domain.CreateAccountParams, generatePIN bool) (int64, error)
	ViewProfile(ctx context.Context, pin int64) (domain.Account, error)
	CheckBalance(ctx context.Context, pin int64) (int64, error)
	Deposit(ctx context.Context, pin, amount int64) (int64, error)
	Withdraw(ctx context.Context, pin, amount int64) (int64, error)
	FindPINByName(ctx context.Context, name string) (int64, error)
	FindNameByPIN(ctx context.Context, pin int64) (string, error)
	DeleteAccount(ctx context.Context, sel domain.Selector, confirmed bool) (int64, error)
}

const menu = `
1. Create a new account
2. Create a pin
3. View profile
4. Check balance
5. Deposit
6. Withdraw
7. Find details
8. Delete details
9. Exit
`

// Shell reads menu choices from in and writes prompts and results to out.
type Shell struct {
	service Service
	logger  zerolog.Logger
	in      *bufio.Scanner
	out     io.Writer
}

// New returns Shell.
func New(s Service, logger zerolog.Logger, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		service: s,
		logger:  logger,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run serves menu choices until the user exits or the input ends.
//
// It returns an error only when the store becomes unavailable or the input cannot be read.
func (sh *Shell) Run(ctx context.Context) error {
	l := sh.logger.With().Str("session_id", uuid.NewString()).Logger()
	ctx = l.WithContext(ctx)

	l.Info().Msg("shell session started")

	actions := map[int]func(context.Context) error{
		1: sh.createAccount,
		2: sh.createPIN,
		3: sh.viewProfile,
		4: sh.checkBalance,
		5: sh.deposit,
		6: sh.withdraw,
		7: sh.findDetails,
		8: sh.deleteDetails,
	}

	for {
		choice, err := sh.prompt(menu)
		if err != nil {
			return endOfInput(err)
		}

		n, err := strconv.Atoi(choice)
		if err == nil && n == 9 {
			l.Info().Msg("shell session finished")
			return nil
		}

		action, ok := actions[n]
		if err != nil || !ok {
			sh.println("You can choose a number from 1 to 9")
			continue
		}

		if err := sh.report(action(ctx)); err != nil {
			return endOfInput(err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func (sh *Shell) println(a ...any) {
	fmt.Fprintln(sh.out, a...)
}

func (sh *Shell) printf(format string, a ...any) {
	fmt.Fprintf(sh.out, format, a...)
}

// prompt writes q and returns the next trimmed input line.
func (sh *Shell) prompt(q string) (string, error) {
	fmt.Fprint(sh.out, q)

	if !sh.in.Scan() {
		if err := sh.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(sh.in.Text()), nil
}

func (sh *Shell) confirm(q string) (bool, error) {
	answer, err := sh.prompt(q + " (yes or no): ")
	if err != nil {
		return false, err
	}

	return strings.EqualFold(answer, "yes"), nil
}

func (sh *Shell) promptPIN() (int64, error) {
	s, err := sh.prompt("Enter your PIN: ")
	if err != nil {
		return 0, err
	}

	return validatepkg.ParsePIN(s)
}

func (sh *Shell) promptAmount(q string) (int64, error) {
	s, err := sh.prompt(q)
	if err != nil {
		return 0, err
	}

	return validatepkg.ParseAmount(s)
}

// report prints a business error and swallows it. Store and input failures are returned.
func (sh *Shell) report(err error) error {
	var ve *domain.ValidationError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return err
	case errors.As(err, &ve):
		sh.printf("Validation Error: %s\n", ve.Reason)
	case errors.Is(err, domain.ErrPINAlreadyExists):
		sh.println("An account with this PIN already exists. Please try a different PIN.")
	case errors.Is(err, domain.ErrAccountNotFound):
		sh.println("No account found.")
	case errors.Is(err, domain.ErrInsufficientFunds):
		sh.println("Insufficient funds.")
	case errors.Is(err, domain.ErrCancelled):
		sh.println("Operation cancelled.")
	case errors.Is(err, domain.ErrAmbiguousName):
		sh.println("More than one account has this name. Please use the PIN instead.")
	case errors.Is(err, domain.ErrStoreUnavailable):
		sh.println("The bank is unavailable right now. Please try again later.")
		return err
	default:
		sh.printf("Something went wrong: %v\n", err)
	}

	return nil
}

func (sh *Shell) createAccount(ctx context.Context) error {
	var (
		arg      domain.CreateAccountParams
		generate bool
		err      error
	)

	hasPIN, err := sh.confirm("Do you have a PIN?")
	if err != nil {
		return err
	}

	if hasPIN {
		if arg.PIN, err = sh.promptPIN(); err != nil {
			return err
		}
	} else {
		generate = true
	}

	if arg.Name, err = sh.prompt("What is your name? "); err != nil {
		return err
	}

	if arg.Gender, err = sh.prompt("Enter your gender (Male, Female, Other): "); err != nil {
		return err
	}

	age, err := sh.prompt("Enter your age: ")
	if err != nil {
		return err
	}

	if arg.Age, err = strconv.Atoi(age); err != nil {
		return domain.NewValidationError(domain.ErrInvalidAge, "age should be a whole number")
	}

	if arg.Address, err = sh.prompt("What is your address? "); err != nil {
		return err
	}

	if arg.Contact, err = sh.prompt("Please enter your contact number: "); err != nil {
		return err
	}

	arg.Amount, err = sh.promptAmount(fmt.Sprintf("Enter an amount (at least %d): ", validatepkg.MinOpeningAmount))
	if err != nil {
		return err
	}

	pin, err := sh.service.CreateAccount(ctx, arg, generate)
	if err != nil {
		return err
	}

	sh.printf("Account has been created successfully. Your PIN is: %d\n", pin)

	return nil
}

func (sh *Shell) createPIN(ctx context.Context) error {
	pin, err := sh.service.GeneratePIN(ctx)
	if err != nil {
		return err
	}

	sh.printf("Your new PIN is: %d\n", pin)

	return nil
}

func (sh *Shell) viewProfile(ctx context.Context) error {
	pin, err := sh.promptPIN()
	if err != nil {
		return err
	}

	a, err := sh.service.ViewProfile(ctx, pin)
	if err != nil {
		return err
	}

	sh.println("=== Profile Details ===")
	sh.printf("PIN: %d\n", a.PIN)
	sh.printf("Name: %s\n", a.Name)
	sh.printf("Age: %d\n", a.Age)
	sh.printf("Gender: %s\n", a.Gender)
	sh.printf("Address: %s\n", a.Address)
	sh.printf("Contact: %s\n", a.Contact)
	sh.printf("Amount: %d\n", a.Balance)
	sh.println("========================")

	return nil
}

func (sh *Shell) checkBalance(ctx context.Context) error {
	pin, err := sh.promptPIN()
	if err != nil {
		return err
	}

	balance, err := sh.service.CheckBalance(ctx, pin)
	if err != nil {
		return err
	}

	sh.printf("Your balance is: %d\n", balance)

	return nil
}

func (sh *Shell) deposit(ctx context.Context) error {
	pin, err := sh.promptPIN()
	if err != nil {
		return err
	}

	amount, err := sh.promptAmount(fmt.Sprintf("Enter an amount to deposit (at least %d): ", validatepkg.MinDepositAmount))
	if err != nil {
		return err
	}

	balance, err := sh.service.Deposit(ctx, pin, amount)
	if err != nil {
		return err
	}

	sh.printf("Deposit successful. Your balance is: %d\n", balance)

	return nil
}

func (sh *Shell) withdraw(ctx context.Context) error {
	pin, err := sh.promptPIN()
	if err != nil {
		return err
	}

	amount, err := sh.promptAmount("Enter an amount to withdraw: ")
	if err != nil {
		return err
	}

	balance, err := sh.service.Withdraw(ctx, pin, amount)
	if err != nil {
		return err
	}

	sh.printf("Withdrawal successful. Your balance is: %d\n", balance)

	return nil
}

func (sh *Shell) findDetails(ctx context.Context) error {
	choice, err := sh.prompt("1. Find PIN by name\n2. Find name by PIN\n")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		name, err := sh.prompt("What is your name? ")
		if err != nil {
			return err
		}

		pin, err := sh.service.FindPINByName(ctx, name)
		if err != nil {
			return err
		}

		sh.printf("Your PIN is: %d\n", pin)
	case "2":
		pin, err := sh.promptPIN()
		if err != nil {
			return err
		}

		name, err := sh.service.FindNameByPIN(ctx, pin)
		if err != nil {
			return err
		}

		sh.printf("The account holder is: %s\n", name)
	default:
		sh.println("You can choose either 1 or 2")
	}

	return nil
}

func (sh *Shell) deleteDetails(ctx context.Context) error {
	choice, err := sh.prompt("1. Delete by PIN\n2. Delete by name\n")
	if err != nil {
		return err
	}

	var sel domain.Selector

	switch choice {
	case "1":
		pin, err := sh.promptPIN()
		if err != nil {
			return err
		}
		sel = domain.ByPIN(pin)
	case "2":
		name, err := sh.prompt("What is your name? ")
		if err != nil {
			return err
		}
		sel = domain.ByName(name)
	default:
		sh.println("You can choose either 1 or 2")
		return nil
	}

	confirmed, err := sh.confirm("Are you sure you want to delete the account?")
	if err != nil {
		return err
	}

	removed, err := sh.service.DeleteAccount(ctx, sel, confirmed)
	if err != nil {
		return err
	}

	sh.printf("%d account(s) deleted.\n", removed)

	return nil
}
