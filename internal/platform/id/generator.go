package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// SequenceGenerator issues prefixed sequential IDs. Simulation entities
// use it so that two runs of the same session seed produce identical
// identifiers, which random IDs would not.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() (string, error) {
	n := g.next.Add(1)
	return fmt.Sprintf("%s-%06d", g.prefix, n), nil
}

// MustID is for call sites where the generator cannot fail.
func MustID(g Generator) string {
	v, err := g.NewID()
	if err != nil {
		panic(err)
	}
	return v
}
