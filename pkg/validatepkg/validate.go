// Package validatepkg provides the input checks every account mutation is gated by.
package validatepkg

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/go-petr/safebank/internal/domain"
)

// Operation minimums.
const (
	MinOpeningAmount  = 500
	MinDepositAmount  = 500
	MinWithdrawAmount = 1
)

// PIN bounds, both inclusive.
const (
	MinPIN = 1_000_000_000
	MaxPIN = 9_999_999_999
)

var (
	nameRegexp = regexp.MustCompile(`^[A-Za-z\s]+$`)
	validate   = newValidate()
)

func newValidate() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}

	return v
}

// ValidPersonName validates that the field holds letters and whitespace only.
var ValidPersonName validator.Func = func(fl validator.FieldLevel) bool {
	if n, ok := fl.Field().Interface().(string); ok {
		return nameRegexp.MatchString(n)
	}
	return false
}

// ValidGender validates whether the gender is supported.
var ValidGender validator.Func = func(fl validator.FieldLevel) bool {
	if g, ok := fl.Field().Interface().(string); ok {
		for _, supported := range domain.Genders {
			if g == supported {
				return true
			}
		}
	}
	return false
}

// ValidPIN validates whether the field is a 10 digit PIN.
var ValidPIN validator.Func = func(fl validator.FieldLevel) bool {
	if p, ok := fl.Field().Interface().(int64); ok {
		return p >= MinPIN && p <= MaxPIN
	}
	return false
}

// ValidContact validates whether the field is a 10 digit contact number.
var ValidContact validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return len(c) == 10 && strings.Trim(c, "0123456789") == ""
	}
	return false
}

// RegisterValidations registers the account tags personname, gender, pin and contact on v.
func RegisterValidations(v *validator.Validate) error {
	validations := map[string]validator.Func{
		"personname": ValidPersonName,
		"gender":     ValidGender,
		"pin":        ValidPIN,
		"contact":    ValidContact,
	}

	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}

	return nil
}

// Gender checks that g is one of domain.Genders.
func Gender(g string) error {
	if err := validate.Var(g, "gender"); err != nil {
		return domain.NewValidationError(domain.ErrInvalidGender,
			"please choose from Male, Female, or Other")
	}

	return nil
}

// Age checks that a is between 0 and 100.
func Age(a int) error {
	if err := validate.Var(a, "gte=0,lte=100"); err != nil {
		return domain.NewValidationError(domain.ErrInvalidAge,
			"please enter a valid age between 0 and 100")
	}

	return nil
}

// Name checks that n is made of letters and whitespace only.
func Name(n string) error {
	if err := validate.Var(n, "required,personname"); err != nil {
		return domain.NewValidationError(domain.ErrInvalidName,
			fmt.Sprintf("%q should not contain special characters or numbers", n))
	}

	return nil
}

// PIN checks that p has exactly 10 decimal digits.
func PIN(p int64) error {
	if err := validate.Var(p, "pin"); err != nil {
		return domain.NewValidationError(domain.ErrInvalidPIN, "pin should be exactly 10 digits")
	}

	return nil
}

// Contact checks that c is exactly 10 digits.
func Contact(c string) error {
	if err := validate.Var(c, "contact"); err != nil {
		return domain.NewValidationError(domain.ErrInvalidContact,
			"contact number should be exactly 10 digits")
	}

	return nil
}

// Amount checks that a is positive and not below minimum.
func Amount(a, minimum int64) error {
	if a <= 0 {
		return domain.NewValidationError(domain.ErrInvalidAmount, "amount should be greater than 0")
	}

	if err := validate.Var(a, fmt.Sprintf("gte=%d", minimum)); err != nil {
		return domain.NewValidationError(domain.ErrInvalidAmount,
			fmt.Sprintf("amount should be greater than or equal to %d", minimum))
	}

	return nil
}

// titleCase upper-cases the first letter of each word. A Caser keeps state,
// so every call builds its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// NormalizeName trims n and title-cases it for display.
func NormalizeName(n string) string {
	return titleCase(n)
}

// NormalizeGender capitalises g so that "male" and "MALE" both become "Male".
func NormalizeGender(g string) string {
	return titleCase(g)
}

// ParsePIN parses user text into a PIN and checks it.
func ParsePIN(s string) (int64, error) {
	p, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(domain.ErrInvalidPIN, "pin should be numeric")
	}

	return p, PIN(p)
}

// ParseAmount parses user text into a whole amount. It does not apply any minimum.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.NewValidationError(domain.ErrInvalidAmount, "amount should be numeric")
	}

	return WholeAmount(d)
}

// WholeAmount converts d to int64, rejecting fractions and values out of range.
func WholeAmount(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Truncate(0)) {
		return 0, domain.NewValidationError(domain.ErrInvalidAmount, "amount should be a whole number")
	}

	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || d.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, domain.NewValidationError(domain.ErrInvalidAmount, "amount is too large")
	}

	return d.IntPart(), nil
}
