package main

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

// bytesValue is a pflag.Value accepting sizes such as "100B", "10KB" or
// "1.5GiB". The value is stored in bytes.
type bytesValue struct {
	val *int64
}

var _ pflag.Value = &bytesValue{}

func newBytesValue(val *int64) *bytesValue {
	return &bytesValue{val: val}
}

// Set implements the pflag.Value interface.
func (b *bytesValue) Set(s string) error {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*b.val = n
		return nil
	}
	v, err := humanize.ParseBytes(s)
	if err != nil {
		return err
	}
	if v > math.MaxInt64 {
		return errors.Newf("too large: %s", s)
	}
	*b.val = int64(v)
	return nil
}

// Type implements the pflag.Value interface.
func (b *bytesValue) Type() string {
	return "bytes"
}

// String implements the pflag.Value interface.
func (b *bytesValue) String() string {
	if b.val == nil || *b.val <= 0 {
		return "0"
	}
	return humanize.Bytes(uint64(*b.val))
}
