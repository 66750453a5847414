// Package randompkg provides functionality for generating random account fields in tests.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/go-petr/safebank/internal/domain"
	"github.com/go-petr/safebank/pkg/validatepkg"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int64) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer between min and max, both inclusive.
func IntBetween(min, max int64) int64 {
	return min + Intn(max-min+1)
}

func fromSet(set string, n int) string {
	var sb strings.Builder

	k := int64(len(set))

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(set[Intn(k)]) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random lowercase string of length n.
func String(n int) string {
	return fromSet(alphabet, n)
}

// Name generates a random title-cased two word holder name.
func Name() string {
	return validatepkg.NormalizeName(String(6) + " " + String(8))
}

// PIN generates a random 10 digit PIN.
func PIN() int64 {
	return IntBetween(validatepkg.MinPIN, validatepkg.MaxPIN)
}

// Contact generates a random 10 digit contact number, leading zeros included.
func Contact() string {
	return fromSet(digits, 10)
}

// Gender picks a random supported gender.
func Gender() string {
	return domain.Genders[Intn(int64(len(domain.Genders)))]
}

// Age generates a random valid age.
func Age() int {
	return int(IntBetween(0, 100))
}

// Amount generates a random whole amount between min and max.
func Amount(min, max int64) int64 {
	return IntBetween(min, max)
}

// CreateAccountParams generates valid random input to open an account.
func CreateAccountParams() domain.CreateAccountParams {
	return domain.CreateAccountParams{
		PIN:     PIN(),
		Name:    Name(),
		Gender:  Gender(),
		Age:     Age(),
		Address: String(12),
		Contact: Contact(),
		Amount:  Amount(validatepkg.MinOpeningAmount, 10_000),
	}
}
