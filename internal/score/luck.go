package score

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Luck decides whether a scoring event earns the lucky puppy bonus.
type Luck interface {
	Lucky() bool
}

// FixedLuck always answers the same way.
type FixedLuck bool

func (l FixedLuck) Lucky() bool { return bool(l) }

// RandomLuck is lucky with probability 1/odds. Safe for concurrent use.
type RandomLuck struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	odds int
}

func NewRandomLuck(odds int, seed uint64) *RandomLuck {
	if odds < 1 {
		odds = 1
	}
	return &RandomLuck{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), odds: odds}
}

// NewRandomLuckFromClock seeds from the current time.
func NewRandomLuckFromClock(odds int) *RandomLuck {
	return NewRandomLuck(odds, uint64(time.Now().UnixNano()))
}

func (l *RandomLuck) Lucky() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(l.odds) == 0
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f().UTC() }
