package fennecs

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// loggerHolder holds the World-wide diagnostic logger behind an atomic.Value so SetLogger can be
// called concurrently with running Worlds without a race. Diagnostic logging is off by
// default (zerolog.Nop()), since an archetype-creation log line would be noisy on a hot spawn
// loop if left enabled unconditionally.
var loggerHolder atomic.Value

func init() {
	loggerHolder.Store(zerolog.Nop())
}

// SetLogger installs the logger used for the core's own diagnostic events (new archetype
// creation, rejected structural mutations). Intended to be called once at startup.
func SetLogger(l zerolog.Logger) { loggerHolder.Store(l) }

func currentLogger() *zerolog.Logger {
	l := loggerHolder.Load().(zerolog.Logger)
	return &l
}
