// Package clock provides a process-wide monotonic elapsed-time source.
// Wall-clock reads can jump backward (NTP adjustment, leap seconds) and
// would corrupt the log-book's duration/throughput math; time.Since always
// uses the runtime's monotonic reading when the base was captured with
// time.Now, so a single package-level epoch is all this needs.
package clock

import "time"

var epoch = time.Now()

// Now returns the duration elapsed since this process started (strictly:
// since this package was first initialized). It never decreases.
func Now() time.Duration {
	return time.Since(epoch)
}
