package evt

import "time"

// ConnIntervalDuration converts a connection interval in 1.25 ms units.
func ConnIntervalDuration(raw uint16) time.Duration {
	return time.Duration(raw) * 1250 * time.Microsecond
}

// SupervisionTimeoutDuration converts a supervision timeout in 10 ms units.
func SupervisionTimeoutDuration(raw uint16) time.Duration {
	return time.Duration(raw) * 10 * time.Millisecond
}
