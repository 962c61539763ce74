// Package clock abstrae la hora actual para poder fijarla en tests.
package clock

import "time"

// Clock fuente de tiempo de los casos de uso.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New devuelve el reloj del sistema (UTC).
func New() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

// FakeClock reloj fijo para tests.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
