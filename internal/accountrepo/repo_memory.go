package accountrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-petr/safebank/internal/domain"
)

// RepoMemory keeps accounts in process memory. It backs the shell when no database is configured.
type RepoMemory struct {
	mu       sync.RWMutex
	accounts map[int64]domain.Account
}

// NewRepoMemory returns empty RepoMemory.
func NewRepoMemory() *RepoMemory {
	return &RepoMemory{accounts: make(map[int64]domain.Account)}
}

// Insert stores a unless its PIN is taken.
func (r *RepoMemory) Insert(_ context.Context, a domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.PIN]; ok {
		return domain.Account{}, domain.ErrPINAlreadyExists
	}

	a.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	r.accounts[a.PIN] = a

	return a, nil
}

// FindByPIN returns the account with the given PIN.
func (r *RepoMemory) FindByPIN(_ context.Context, pin int64) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[pin]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// pinsByName returns PINs of accounts named name in ascending order. Callers hold r.mu.
func (r *RepoMemory) pinsByName(name string) []int64 {
	var pins []int64

	for pin, a := range r.accounts {
		if a.Name == name {
			pins = append(pins, pin)
		}
	}

	sort.Slice(pins, func(i, j int) bool { return pins[i] < pins[j] })

	return pins
}

// FindByName returns the lowest-PIN account named name.
func (r *RepoMemory) FindByName(_ context.Context, name string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pins := r.pinsByName(name)
	if len(pins) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return r.accounts[pins[0]], nil
}

// CountByName returns the number of accounts named name.
func (r *RepoMemory) CountByName(_ context.Context, name string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.pinsByName(name))), nil
}

// UpdateBalance overwrites the balance and returns the changed account.
func (r *RepoMemory) UpdateBalance(_ context.Context, pin, balance int64) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[pin]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if balance < 0 {
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	a.Balance = balance
	r.accounts[pin] = a

	return a, nil
}

// DeleteByPIN removes the account with the given PIN.
func (r *RepoMemory) DeleteByPIN(_ context.Context, pin int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[pin]; !ok {
		return 0, domain.ErrAccountNotFound
	}

	delete(r.accounts, pin)

	return 1, nil
}

// DeleteByName removes every account named name.
func (r *RepoMemory) DeleteByName(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pins := r.pinsByName(name)
	if len(pins) == 0 {
		return 0, domain.ErrAccountNotFound
	}

	for _, pin := range pins {
		delete(r.accounts, pin)
	}

	return int64(len(pins)), nil
}
