package engine

// Clock stamps rule appends with increasing sequence numbers.
//
// Ticks are never reused, so they survive rule deletion and order the
// history of a database even though rule indices shift. A Clock is owned by
// the databases that share it and is not safe for concurrent use.
type Clock struct {
	last int64
}

// NewClock returns a clock whose last issued tick is last. The next Tick
// returns last+1.
func NewClock(last int64) *Clock {
	return &Clock{last: last}
}

// Tick issues the next sequence number.
func (c *Clock) Tick() int64 {
	c.last++
	return c.last
}

// Last returns the most recently issued tick, or the starting value if
// nothing was issued yet.
func (c *Clock) Last() int64 {
	return c.last
}
