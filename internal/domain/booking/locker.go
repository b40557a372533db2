package booking

import (
	"context"
	"fmt"
)

// Locker provides mutual exclusion for a key across concurrent requests.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// DayLockKey scopes booking creation to one profile calendar day.
func DayLockKey(profileID uint, date string) string {
	return fmt.Sprintf("booking:%d:%s", profileID, date)
}
