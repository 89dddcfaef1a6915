package filelog

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	var got []error
	l := &Logger{onError: func(err error) { got = append(got, err) }}

	l.report(nil)
	require.Empty(t, got)

	l.report(errors.New("disk full"))
	require.Len(t, got, 1)
	require.EqualError(t, got[0], "disk full")

	l.onError = func(error) { panic("handler failed") }
	require.NotPanics(t, func() { l.report(errors.New("ignored")) })
}
