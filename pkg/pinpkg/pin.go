// Package pinpkg generates account PINs.
package pinpkg

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/go-petr/safebank/pkg/validatepkg"
)

// Generator draws uniformly random 10 digit PINs.
//
// It does not check uniqueness; the account store rejects duplicate PINs.
type Generator struct {
	rand io.Reader
}

// New returns Generator backed by crypto/rand.
func New() *Generator {
	return &Generator{rand: rand.Reader}
}

// NewFromReader returns Generator reading entropy from r.
func NewFromReader(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate returns a PIN in [validatepkg.MinPIN, validatepkg.MaxPIN].
func (g *Generator) Generate() (int64, error) {
	span := big.NewInt(validatepkg.MaxPIN - validatepkg.MinPIN + 1)

	n, err := rand.Int(g.rand, span)
	if err != nil {
		return 0, err
	}

	return validatepkg.MinPIN + n.Int64(), nil
}
