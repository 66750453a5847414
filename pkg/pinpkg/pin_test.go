package pinpkg

import (
	"bytes"
	"testing"

	"github.com/go-petr/safebank/pkg/validatepkg"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	g := New()

	for i := 0; i < 1000; i++ {
		pin, err := g.Generate()
		if err != nil {
			t.Fatalf("g.Generate() returned error: %v", err)
		}

		if err := validatepkg.PIN(pin); err != nil {
			t.Fatalf("g.Generate() = %d, not a valid PIN: %v", pin, err)
		}
	}
}

func TestGenerateLowestFromZeroEntropy(t *testing.T) {
	t.Parallel()

	g := NewFromReader(bytes.NewReader(make([]byte, 64)))

	pin, err := g.Generate()
	if err != nil {
		t.Fatalf("g.Generate() returned error: %v", err)
	}

	if pin != validatepkg.MinPIN {
		t.Errorf("g.Generate() = %d, want %d", pin, validatepkg.MinPIN)
	}
}

func TestGenerateEntropyExhausted(t *testing.T) {
	t.Parallel()

	g := NewFromReader(bytes.NewReader(nil))

	if _, err := g.Generate(); err == nil {
		t.Errorf("g.Generate() returned nil error on empty entropy source")
	}
}
