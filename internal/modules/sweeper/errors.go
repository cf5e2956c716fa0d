package sweeper

import "errors"

// ErrAlreadyRunning is returned when a sweep is triggered while a previous
// run is still in flight. Cron overlap, not a failure.
var ErrAlreadyRunning = errors.New("sweep already running")
