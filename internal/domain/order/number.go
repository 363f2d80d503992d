package order

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	numberMin = 100_000
	numberMax = 999_999

	// maxNumberAttempts bounds the redraws when a candidate was probably
	// issued already.
	maxNumberAttempts = 16

	issuedFPR = 0.001
)

// NumberGenerator issues confirmation numbers of the form ORD-NNNNNN. Issued
// numbers are tracked in a bloom filter so a process does not hand out the
// same number twice while the filter is below capacity.
type NumberGenerator struct {
	mu     sync.Mutex
	issued *bloom.BloomFilter
	intN   func(n int) int
}

// NewNumberGenerator sizes the issued-number filter for capacity numbers.
func NewNumberGenerator(capacity uint) *NumberGenerator {
	return &NumberGenerator{
		issued: bloom.NewWithEstimates(capacity, issuedFPR),
		intN:   rand.IntN,
	}
}

// Next returns a confirmation number. When every redraw hits the filter the
// last candidate is returned anyway.
func (g *NumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var candidate string
	for range maxNumberAttempts {
		candidate = fmt.Sprintf("ORD-%06d", numberMin+g.intN(numberMax-numberMin+1))
		if !g.issued.TestAndAddString(candidate) {
			return candidate
		}
	}
	return candidate
}
