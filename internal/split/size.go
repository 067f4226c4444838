package split

import (
	"strings"

	"github.com/dustin/go-humanize"

	"mkvmux/internal/services"
)

// Size is a byte count that parses and prints with units ("700 MB", "4.7GiB").
type Size uint64

// ParseSize reads a human readable size. Bare numbers are bytes.
func ParseSize(value string) (Size, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(value))
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "split", "parse size", value, err)
	}
	return Size(n), nil
}

// Bytes returns the raw byte count.
func (s Size) Bytes() uint64 { return uint64(s) }

func (s Size) String() string { return humanize.IBytes(uint64(s)) }

// UnmarshalText lets Size appear as a string in TOML job files.
func (s *Size) UnmarshalText(data []byte) error {
	parsed, err := ParseSize(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
