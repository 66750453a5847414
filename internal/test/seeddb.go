// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/safebank/internal/domain"
)

// Inserter stores accounts. Every account repo satisfies it.
type Inserter interface {
	Insert(ctx context.Context, a domain.Account) (domain.Account, error)
}

// SeedAccount stores a random account holding the given balance.
func SeedAccount(t *testing.T, repo Inserter, balance int64) domain.Account {
	t.Helper()

	a := RandomAccount(balance)

	created, err := repo.Insert(context.Background(), a)
	if err != nil {
		t.Fatalf("repo.Insert(context.Background(), %+v) returned error: %v", a, err)
	}

	return created
}

// SeedAccountNamed stores a random account carrying the given name.
func SeedAccountNamed(t *testing.T, repo Inserter, name string) domain.Account {
	t.Helper()

	a := RandomAccount(1000)
	a.Name = name

	created, err := repo.Insert(context.Background(), a)
	if err != nil {
		t.Fatalf("repo.Insert(context.Background(), %+v) returned error: %v", a, err)
	}

	return created
}
