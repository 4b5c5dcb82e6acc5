package itss

import (
	"fmt"
	"log/slog"
	"sync"
)

// DebugPrinter is the process-wide diagnostic sink described by the
// format's original C API: a single function pointer with no ordering
// guarantees and no semantic effect on archive behavior. It exists purely
// so callers can observe what the parser and decompression driver are
// doing.
type DebugPrinter func(msg string)

var (
	debugMu      sync.RWMutex
	debugPrinter DebugPrinter
)

// SetDebugPrinter installs the process-wide debug sink. Passing nil
// disables debug output. Safe to call concurrently with reads on any
// handle, since it only ever affects where diagnostic strings land.
func SetDebugPrinter(fn DebugPrinter) {
	debugMu.Lock()
	debugPrinter = fn
	debugMu.Unlock()
}

func dbgf(format string, args ...any) {
	debugMu.RLock()
	fn := debugPrinter
	debugMu.RUnlock()
	if fn == nil {
		return
	}
	fn(fmt.Sprintf(format, args...))
}

// SlogDebugPrinter adapts a structured logger into a DebugPrinter, so a
// host that already has a *slog.Logger can install it as the process-wide
// sink via SetDebugPrinter. Each call is logged at debug level under the
// "itss" source attribute.
func SlogDebugPrinter(logger *slog.Logger) DebugPrinter {
	return func(msg string) {
		logger.Debug(msg, slog.String("source", "itss"))
	}
}
