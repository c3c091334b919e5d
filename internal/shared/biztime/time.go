// Package biztime owns the "current day" boundary used for daily quota keys.
// All storage uses UTC. The business timezone only decides where a day starts.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the business timezone used when none is configured.
	DefaultTimezone = "UTC"

	// DayLayout is the layout of day keys (YYYY-MM-DD).
	DayLayout = "2006-01-02"
)

var (
	bizLocation   *time.Location
	bizLocationMu sync.RWMutex
)

// Init sets the business timezone. An empty tz selects UTC.
func Init(tz string) error {
	loc, err := LoadLocation(tz)
	if err != nil {
		return err
	}
	bizLocationMu.Lock()
	bizLocation = loc
	bizLocationMu.Unlock()
	return nil
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone, UTC when Init was never called.
func Location() *time.Location {
	bizLocationMu.RLock()
	defer bizLocationMu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DayKey formats t as the business day it falls in.
func DayKey(t time.Time) string {
	return DayKeyIn(t, Location())
}

// DayKeyIn formats t as the day it falls in at loc. A nil loc means UTC.
func DayKeyIn(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// LoadLocation resolves a configured timezone name. An empty name selects UTC.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}

// StartOfDayUTC returns the start of the business day containing t, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}

// Clock is the injected source of "now". Services never call time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return NowUTC() }

// ManualClock is a settable clock for tests and replays.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now.UTC()}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t.UTC()
	c.mu.Unlock()
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
