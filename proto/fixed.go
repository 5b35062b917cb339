package proto

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Policy selects how a FixedString handles values that do not fit or do not
// decode as text.
type Policy uint8

const (
	// Strict rejects oversized values on encode and invalid UTF-8 on decode.
	Strict Policy = iota
	// Permissive truncates oversized values on encode and drops invalid
	// bytes on decode.
	Permissive
)

func (p Policy) String() string {
	if p == Permissive {
		return "permissive"
	}
	return "strict"
}

// FixedString is a null-padded text field of exactly Width bytes on the wire.
type FixedString struct {
	Name   string
	Width  int
	Policy Policy
}

var (
	DeviceIDField  = FixedString{Name: "device_id", Width: 16, Policy: Strict}
	FirmwareField  = FixedString{Name: "firmware", Width: 8, Policy: Strict}
	StateDataField = FixedString{Name: "state_data", Width: 8, Policy: Permissive}
)

// Put writes s into dst[:f.Width], right-padded with 0x00. Permissive fields
// are cut at the last rune boundary that fits.
func (f FixedString) Put(dst []byte, s string) error {
	if len(dst) < f.Width {
		return fmt.Errorf("%s: buffer of %d bytes shorter than width %d: %w", f.Name, len(dst), f.Width, ErrFieldEncoding)
	}
	if len(s) > f.Width {
		if f.Policy == Strict {
			return fmt.Errorf("%s: %d bytes exceeds width %d: %w", f.Name, len(s), f.Width, ErrFieldEncoding)
		}
		s = truncate(s, f.Width)
	}
	n := copy(dst[:f.Width], s)
	clear(dst[n:f.Width])
	return nil
}

// Get reads src[:f.Width] and strips trailing 0x00 bytes.
func (f FixedString) Get(src []byte) (string, error) {
	if len(src) < f.Width {
		return "", fmt.Errorf("%s: %d bytes, want %d: %w", f.Name, len(src), f.Width, ErrPayloadLengthMismatch)
	}
	raw := src[:f.Width]
	if !utf8.Valid(raw) {
		if f.Policy == Strict {
			return "", fmt.Errorf("%s: %w", f.Name, ErrFieldDecoding)
		}
		return strings.TrimRight(strings.ToValidUTF8(string(raw), ""), "\x00"), nil
	}
	return strings.TrimRight(string(raw), "\x00"), nil
}

// Fits reports whether s can be encoded without error or truncation.
func (f FixedString) Fits(s string) bool {
	return len(s) <= f.Width
}

func truncate(s string, width int) string {
	cut := width
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
