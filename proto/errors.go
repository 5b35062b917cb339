package proto

import "errors"

var (
	// ErrMalformedHeader is returned when a buffer is too short to hold the
	// 4-byte header.
	ErrMalformedHeader = errors.New("smdp: malformed header")

	// ErrPayloadLengthMismatch is returned when the declared or actual
	// payload length disagrees with the fixed layout of a known kind.
	ErrPayloadLengthMismatch = errors.New("smdp: payload length mismatch")

	// ErrFieldEncoding is returned when a strict text field does not fit its
	// declared width.
	ErrFieldEncoding = errors.New("smdp: field exceeds fixed width")

	// ErrFieldDecoding is returned when a strict text field holds bytes that
	// are not valid UTF-8.
	ErrFieldDecoding = errors.New("smdp: field is not valid text")

	ErrPayloadTooLarge    = errors.New("smdp: payload exceeds 65535 bytes")
	ErrUnsupportedMessage = errors.New("smdp: unsupported message value")
)
