package clock

import "time"

// Clock supplies subscription timestamps. Implementations should return UTC.
type Clock interface {
	Now() time.Time
}
