package async

import "runtime/debug"

// PanicLogger captures panic reports from background goroutines.
type PanicLogger interface {
	Error(format string, args ...any)
}

// Go runs fn in a goroutine guarded by panic recovery. Used for
// fire-and-forget work such as websocket write pumps and store offloads,
// where a panic must not take down the intake server.
func Go(logger PanicLogger, name string, fn func()) {
	go func() {
		defer Recover(logger, name)
		fn()
	}()
}

// GoErr runs fn in a guarded goroutine and logs a non-nil error result.
func GoErr(logger PanicLogger, name string, fn func() error) {
	go func() {
		defer Recover(logger, name)
		if err := fn(); err != nil && logger != nil {
			logger.Error("goroutine [%s] failed: %v", name, err)
		}
	}()
}

// Recover logs panic details without crashing the process.
func Recover(logger PanicLogger, name string) {
	if r := recover(); r != nil {
		if logger == nil {
			return
		}
		if name == "" {
			logger.Error("goroutine panic: %v, stack: %s", r, debug.Stack())
			return
		}
		logger.Error("goroutine panic [%s]: %v, stack: %s", name, r, debug.Stack())
	}
}
