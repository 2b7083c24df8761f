package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandlerCountsDropped(t *testing.T) {
	NewPrometheusHook("test")

	var buf bytes.Buffer

	errorOutput = &buf
	t.Cleanup(func() { errorOutput = os.Stderr })

	before := testutil.ToFloat64(counter.WithLabelValues(droppedLevel))

	ErrorHandler(errors.New("disk full"))

	assert.Equal(t, before+1, testutil.ToFloat64(counter.WithLabelValues(droppedLevel)))
	assert.Contains(t, buf.String(), "disk full")
}
