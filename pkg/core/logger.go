package core

// Logger interface for construction-time diagnostics. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...interface{})
}
