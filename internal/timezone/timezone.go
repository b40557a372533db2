package timezone

import "time"

const DefaultTimezone = "UTC"

// Clock returns the current instant. Use cases take one so tests can pin "now".
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}
