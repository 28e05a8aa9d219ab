package storage

import "time"

// SetClock replaces the clock m expires values by.
func (m *Map) SetClock(now func() time.Time) { m.now = now }
