// Package domain provides defenitions of all entities.
package domain

import "time"

// Genders accepted for an account holder.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Genders holds all the supported genders.
var Genders = []string{GenderMale, GenderFemale, GenderOther}

// Account holds a customer's identity and balance keyed by the PIN.
type Account struct {
	PIN       int64     `json:"pin"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Address   string    `json:"address"`
	Contact   string    `json:"contact"`
	Balance   int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAccountParams is the input data to open an account.
//
// PIN is ignored when the caller asks the ledger to generate one.
type CreateAccountParams struct {
	PIN     int64  `json:"pin"`
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	Amount  int64  `json:"amount"`
}

// Selector picks the accounts a delete applies to. Exactly one of PIN or Name is set.
type Selector struct {
	PIN  int64
	Name string
}

// ByPIN selects the account with the given PIN.
func ByPIN(pin int64) Selector {
	return Selector{PIN: pin}
}

// ByName selects accounts carrying the given holder name.
func ByName(name string) Selector {
	return Selector{Name: name}
}

// IsByName reports whether the selector targets a holder name.
func (s Selector) IsByName() bool {
	return s.Name != ""
}
