package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// errorOutput receives events that could not be written.
var errorOutput io.Writer = os.Stderr //nolint:gochecknoglobals

// ErrorHandler reports a failed log write to stderr and counts it as a
// dropped statement.
func ErrorHandler(err error) {
	if counter != nil {
		counter.WithLabelValues(droppedLevel).Inc()
	}

	_, _ = fmt.Fprintf(errorOutput, "zerolog: could not write event: %v\n", err)
}
