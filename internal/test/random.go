package test

import (
	"time"

	"github.com/go-petr/safebank/internal/domain"
	"github.com/go-petr/safebank/pkg/randompkg"
)

// RandomAccount returns random valid account holding the given balance.
func RandomAccount(balance int64) domain.Account {
	arg := randompkg.CreateAccountParams()

	return domain.Account{
		PIN:       arg.PIN,
		Name:      arg.Name,
		Age:       arg.Age,
		Gender:    arg.Gender,
		Address:   arg.Address,
		Contact:   arg.Contact,
		Balance:   balance,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// ParamsFor returns the input that opens a, using the balance as opening amount.
func ParamsFor(a domain.Account) domain.CreateAccountParams {
	return domain.CreateAccountParams{
		PIN:     a.PIN,
		Name:    a.Name,
		Gender:  a.Gender,
		Age:     a.Age,
		Address: a.Address,
		Contact: a.Contact,
		Amount:  a.Balance,
	}
}
