// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/safebank/internal/domain"
	"github.com/go-petr/safebank/pkg/dbpkg"
)

// RepoPGS facilitates account repository layer logic on PostgreSQL.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `pin, name, age, gender, address, contact, amount, created_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.PIN,
		&a.Name,
		&a.Age,
		&a.Gender,
		&a.Address,
		&a.Contact,
		&a.Balance,
		&a.CreatedAt,
	)

	return a, err
}

const insertQuery = `
INSERT INTO
    accounts (pin, name, age, gender, address, contact, amount)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + accountColumns

// Insert creates the account and then returns it.
func (r *RepoPGS) Insert(ctx context.Context, a domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, insertQuery,
		a.PIN, a.Name, a.Age, a.Gender, a.Address, a.Contact, a.Balance)

	created, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Int64("pin", a.PIN).Send()

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "accounts_pkey" {
			return domain.Account{}, domain.ErrPINAlreadyExists
		}

		return domain.Account{}, domain.ErrStoreUnavailable
	}

	return created, nil
}

const findByPINQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE pin = $1
`

// FindByPIN returns the account with the given PIN.
func (r *RepoPGS) FindByPIN(ctx context.Context, pin int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, findByPINQuery, pin))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Int64("pin", pin).Send()

		return domain.Account{}, domain.ErrStoreUnavailable
	}

	return a, nil
}

const findByNameQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE name = $1
ORDER BY pin
LIMIT 1
`

// FindByName returns the lowest-PIN account named name.
func (r *RepoPGS) FindByName(ctx context.Context, name string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, findByNameQuery, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Str("name", name).Send()

		return domain.Account{}, domain.ErrStoreUnavailable
	}

	return a, nil
}

const countByNameQuery = `
SELECT count(*) FROM accounts
WHERE name = $1
`

// CountByName returns the number of accounts named name.
func (r *RepoPGS) CountByName(ctx context.Context, name string) (int64, error) {
	l := zerolog.Ctx(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countByNameQuery, name).Scan(&count); err != nil {
		l.Error().Err(err).Str("name", name).Send()
		return 0, domain.ErrStoreUnavailable
	}

	return count, nil
}

const updateBalanceQuery = `
UPDATE accounts
SET amount = $1
WHERE pin = $2
RETURNING ` + accountColumns

// UpdateBalance overwrites the balance and returns the changed account.
func (r *RepoPGS) UpdateBalance(ctx context.Context, pin, balance int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, updateBalanceQuery, balance, pin))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Int64("pin", pin).Send()

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "accounts_amount_check" {
			return domain.Account{}, domain.ErrInsufficientFunds
		}

		return domain.Account{}, domain.ErrStoreUnavailable
	}

	return a, nil
}

func (r *RepoPGS) exec(ctx context.Context, query string, arg any) (int64, error) {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		l.Error().Err(err).Interface("arg", arg).Send()
		return 0, domain.ErrStoreUnavailable
	}

	removed, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return 0, domain.ErrStoreUnavailable
	}

	if removed == 0 {
		return 0, domain.ErrAccountNotFound
	}

	return removed, nil
}

const deleteByPINQuery = `
DELETE FROM accounts
WHERE pin = $1
`

// DeleteByPIN removes the account with the given PIN.
func (r *RepoPGS) DeleteByPIN(ctx context.Context, pin int64) (int64, error) {
	return r.exec(ctx, deleteByPINQuery, pin)
}

const deleteByNameQuery = `
DELETE FROM accounts
WHERE name = $1
`

// DeleteByName removes every account named name.
func (r *RepoPGS) DeleteByName(ctx context.Context, name string) (int64, error) {
	return r.exec(ctx, deleteByNameQuery, name)
}
