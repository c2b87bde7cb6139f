package clock

import "time"

// Location is the civil timezone every due-date decision is made in. It is a
// fixed offset rather than a zoneinfo lookup so behavior does not depend on
// the host the service happens to run on.
var Location = time.FixedZone("UTC+05:30", 5*3600+30*60)

// Clock supplies the current instant. Services take it as a dependency so
// tests can freeze time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().In(Location) }

// System returns a Clock backed by the wall clock, expressed in Location.
func System() Clock { return systemClock{} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Fixed returns a Clock pinned to the given instant.
func Fixed(t time.Time) Clock { return fixedClock{t.In(Location)} }
