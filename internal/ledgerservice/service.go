// Package ledgerservice manages business logic layer of the account ledger.
package ledgerservice

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/safebank/internal/domain"
	"github.com/go-petr/safebank/pkg/validatepkg"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Insert(ctx context.Context, a domain.Account) (domain.Account, error)
	FindByPIN(ctx context.Context, pin int64) (domain.Account, error)
	FindByName(ctx context.Context, name string) (domain.Account, error)
	CountByName(ctx context.Context, name string) (int64, error)
	UpdateBalance(ctx context.Context, pin, balance int64) (domain.Account, error)
	DeleteByPIN(ctx context.Context, pin int64) (int64, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
}

// PINGenerator draws new account PINs.
type PINGenerator interface {
	Generate() (int64, error)
}

// Publisher delivers ledger events after a mutation is committed.
type Publisher interface {
	Publish(ctx context.Context, e domain.Event) error
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo   Repo
	pins   PINGenerator
	events Publisher
	locks  *pinLocker
	now    func() time.Time
}

// New returns ledger service struct to manage account bussines logic.
func New(r Repo, g PINGenerator, p Publisher) *Service {
	return &Service{
		repo:   r,
		pins:   g,
		events: p,
		locks:  newPINLocker(),
		now:    time.Now,
	}
}

func (s *Service) publish(ctx context.Context, e domain.Event) {
	e.OccurredAt = s.now().UTC()

	if err := s.events.Publish(ctx, e); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", e.Type).Int64("pin", e.PIN).Msg("cannot publish event")
	}
}

// GeneratePIN returns a fresh PIN without reserving it.
func (s *Service) GeneratePIN(ctx context.Context) (int64, error) {
	pin, err := s.pins.Generate()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return 0, fmt.Errorf("generate pin: %w", err)
	}

	return pin, nil
}

func validateCreate(arg domain.CreateAccountParams) error {
	if err := validatepkg.PIN(arg.PIN); err != nil {
		return err
	}

	if err := validatepkg.Name(arg.Name); err != nil {
		return err
	}

	if err := validatepkg.Gender(arg.Gender); err != nil {
		return err
	}

	if err := validatepkg.Age(arg.Age); err != nil {
		return err
	}

	if err := validatepkg.Contact(arg.Contact); err != nil {
		return err
	}

	return validatepkg.Amount(arg.Amount, validatepkg.MinOpeningAmount)
}

// CreateAccount validates arg and stores the account, returning its PIN.
//
// With generatePIN the PIN is drawn from the generator and arg.PIN is ignored.
// An existing PIN is never overwritten and a colliding generated PIN is not retried.
func (s *Service) CreateAccount(ctx context.Context, arg domain.CreateAccountParams, generatePIN bool) (int64, error) {
	l := zerolog.Ctx(ctx)

	if generatePIN {
		pin, err := s.GeneratePIN(ctx)
		if err != nil {
			return 0, err
		}

		arg.PIN = pin
	}

	arg.Name = validatepkg.NormalizeName(arg.Name)
	arg.Gender = validatepkg.NormalizeGender(arg.Gender)

	if err := validateCreate(arg); err != nil {
		l.Info().Err(err).Send()
		return 0, err
	}

	created, err := s.repo.Insert(ctx, domain.Account{
		PIN:     arg.PIN,
		Name:    arg.Name,
		Age:     arg.Age,
		Gender:  arg.Gender,
		Address: arg.Address,
		Contact: arg.Contact,
		Balance: arg.Amount,
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, domain.Event{
		Type:    domain.EventAccountCreated,
		PIN:     created.PIN,
		Name:    created.Name,
		Amount:  created.Balance,
		Balance: created.Balance,
	})

	return created.PIN, nil
}

// ViewProfile returns the account with the given PIN.
func (s *Service) ViewProfile(ctx context.Context, pin int64) (domain.Account, error) {
	return s.repo.FindByPIN(ctx, pin)
}

// CheckBalance returns the balance of the account with the given PIN.
func (s *Service) CheckBalance(ctx context.Context, pin int64) (int64, error) {
	a, err := s.repo.FindByPIN(ctx, pin)
	if err != nil {
		return 0, err
	}

	return a.Balance, nil
}

// Deposit adds amount to the balance and returns the new balance.
func (s *Service) Deposit(ctx context.Context, pin, amount int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	if err := validatepkg.Amount(amount, validatepkg.MinDepositAmount); err != nil {
		l.Info().Err(err).Send()
		return 0, err
	}

	unlock := s.locks.lock(pin)
	defer unlock()

	a, err := s.repo.FindByPIN(ctx, pin)
	if err != nil {
		return 0, err
	}

	newBalance := a.Balance + amount
	if newBalance < a.Balance {
		err := domain.NewValidationError(domain.ErrInvalidAmount, "balance would overflow")
		l.Info().Err(err).Int64("pin", pin).Send()

		return 0, err
	}

	updated, err := s.repo.UpdateBalance(ctx, pin, newBalance)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, domain.Event{
		Type:    domain.EventDeposited,
		PIN:     pin,
		Amount:  amount,
		Balance: updated.Balance,
	})

	return updated.Balance, nil
}

// Withdraw subtracts amount from the balance and returns the new balance.
//
// A withdrawal above the balance is rejected with domain.ErrInsufficientFunds.
func (s *Service) Withdraw(ctx context.Context, pin, amount int64) (int64, error) {
	l := zerolog.Ctx(ctx)

	if err := validatepkg.Amount(amount, validatepkg.MinWithdrawAmount); err != nil {
		l.Info().Err(err).Send()
		return 0, err
	}

	unlock := s.locks.lock(pin)
	defer unlock()

	a, err := s.repo.FindByPIN(ctx, pin)
	if err != nil {
		return 0, err
	}

	if amount > a.Balance {
		l.Info().Int64("pin", pin).Int64("amount", amount).Int64("balance", a.Balance).
			Err(domain.ErrInsufficientFunds).Send()

		return 0, domain.ErrInsufficientFunds
	}

	updated, err := s.repo.UpdateBalance(ctx, pin, a.Balance-amount)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, domain.Event{
		Type:    domain.EventWithdrawn,
		PIN:     pin,
		Amount:  amount,
		Balance: updated.Balance,
	})

	return updated.Balance, nil
}

// FindPINByName returns the PIN of the lowest-PIN account carrying name.
func (s *Service) FindPINByName(ctx context.Context, name string) (int64, error) {
	a, err := s.repo.FindByName(ctx, validatepkg.NormalizeName(name))
	if err != nil {
		return 0, err
	}

	return a.PIN, nil
}

// FindNameByPIN returns the holder name of the account with the given PIN.
func (s *Service) FindNameByPIN(ctx context.Context, pin int64) (string, error) {
	a, err := s.repo.FindByPIN(ctx, pin)
	if err != nil {
		return "", err
	}

	return a.Name, nil
}

// DeleteAccount removes the selected account and returns the number of removed records.
//
// Nothing is touched unless confirmed is set. A name shared by several accounts is
// rejected with domain.ErrAmbiguousName; such accounts must be deleted by PIN.
func (s *Service) DeleteAccount(ctx context.Context, sel domain.Selector, confirmed bool) (int64, error) {
	l := zerolog.Ctx(ctx)

	if !confirmed {
		l.Info().Err(domain.ErrCancelled).Send()
		return 0, domain.ErrCancelled
	}

	if sel.IsByName() {
		return s.deleteByName(ctx, validatepkg.NormalizeName(sel.Name))
	}

	unlock := s.locks.lock(sel.PIN)
	defer unlock()

	if _, err := s.repo.FindByPIN(ctx, sel.PIN); err != nil {
		return 0, err
	}

	removed, err := s.repo.DeleteByPIN(ctx, sel.PIN)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, domain.Event{Type: domain.EventAccountDeleted, PIN: sel.PIN, Removed: removed})

	return removed, nil
}

func (s *Service) deleteByName(ctx context.Context, name string) (int64, error) {
	l := zerolog.Ctx(ctx)

	count, err := s.repo.CountByName(ctx, name)
	if err != nil {
		return 0, err
	}

	switch {
	case count == 0:
		return 0, domain.ErrAccountNotFound
	case count > 1:
		l.Info().Str("name", name).Int64("matches", count).Err(domain.ErrAmbiguousName).Send()
		return 0, domain.ErrAmbiguousName
	}

	a, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}

	unlock := s.locks.lock(a.PIN)
	defer unlock()

	// Only the matched PIN is removed. A twin inserted since the count survives.
	removed, err := s.repo.DeleteByPIN(ctx, a.PIN)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, domain.Event{Type: domain.EventAccountDeleted, PIN: a.PIN, Name: name, Removed: removed})

	return removed, nil
}
