package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/baseballgame-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// PermResults is a queue of results to return from Perm
	PermResults [][]int
	permIndex   int

	// IDResults is a queue of results to return from ID
	IDResults []string
	idIndex   int
	idCounter int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Perm returns the next queued permutation, or the identity if none remaining
func (r *MockRandom) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permIndex < len(r.PermResults) {
		result := r.PermResults[r.permIndex]
		r.permIndex++
		return result
	}
	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	return identity
}

// ID returns the next queued id, or a sequential "id-N" if none remaining
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.idCounter++
	return fmt.Sprintf("id-%d", r.idCounter)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueuePerm adds a permutation to the Perm result queue
func (r *MockRandom) QueuePerm(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PermResults = append(r.PermResults, values)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IDResults = append(r.IDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
	r.PermResults = nil
	r.permIndex = 0
	r.IDResults = nil
	r.idIndex = 0
	r.idCounter = 0
}
