package log

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RunID correlates every log line emitted by one process invocation,
// generated once at package init the way a real client's request tracing
// tags an entire run rather than one request. Call sites no longer need
// to thread a run id into Logger's fields themselves.
var RunID = uuid.NewString()

// Logger is the package-level logger. Other packages should use
// log.Logger with additional context fields rather than importing
// zerolog directly. It carries run_id from construction so every line
// already correlates across the process.
var Logger zerolog.Logger

func init() {
	Logger = zerolog.New(os.Stderr).With().Timestamp().Str("run_id", RunID).Logger()
}
