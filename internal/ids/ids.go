// Package ids generates expense identifiers.
package ids

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator hands out identifiers that are unique for the process lifetime.
type Generator interface {
	NewID() string
}

// Strategy names a Generator implementation.
type Strategy string

const (
	ClockStrategy Strategy = "clock"
	UUIDStrategy  Strategy = "uuid"
)

// String implements fmt.Stringer
func (s Strategy) String() string {
	return string(s)
}

// IsValid returns true if the strategy is known
func (s Strategy) IsValid() bool {
	switch s {
	case ClockStrategy, UUIDStrategy:
		return true
	default:
		return false
	}
}

// Strategies returns all valid strategy strings.
func Strategies() []string {
	return []string{ClockStrategy.String(), UUIDStrategy.String()}
}

// New returns the Generator for s.
func New(s Strategy) (Generator, error) {
	switch s {
	case ClockStrategy:
		return NewClock(time.Now), nil
	case UUIDStrategy:
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unsupported id strategy: %s", s)
	}
}

// Clock derives ids from the current Unix time in milliseconds. Ids are
// strictly increasing: when the clock has not advanced past the previous id,
// the previous id plus one is used instead.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) NewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return strconv.FormatInt(id, 10)
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}
