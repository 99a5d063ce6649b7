package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ByteSize is a byte count that decodes from either a plain integer string
// ("100000000") or a human size ("95MB", "1.5GiB").
type ByteSize int64

// ParseByteSize parses raw into a ByteSize.
func ParseByteSize(raw string) (ByteSize, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), "_", "")
	if value == "" {
		return 0, errors.New("empty size")
	}
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", raw, err)
	}
	if n > uint64(1<<63-1) {
		return 0, fmt.Errorf("size %q overflows", raw)
	}
	return ByteSize(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ByteSize) UnmarshalText(text []byte) error {
	parsed, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler using the exact byte count.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(b), 10)), nil
}

// Bytes returns the size as an int64 byte count.
func (b ByteSize) Bytes() int64 {
	return int64(b)
}

// String renders the size in SI units for display.
func (b ByteSize) String() string {
	if b < 0 {
		return strconv.FormatInt(int64(b), 10) + " B"
	}
	return humanize.Bytes(uint64(b))
}
