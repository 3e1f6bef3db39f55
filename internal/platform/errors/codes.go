// Package errors provides structured error handling for gaze sessions.
package errors

// Code is a machine-readable error code sent to clients in error frames.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Sample errors
	CodeInvalidSample Code = "INVALID_SAMPLE"

	// Frame errors
	CodeInvalidFrame       Code = "INVALID_FRAME"
	CodeFrameTooLarge      Code = "FRAME_TOO_LARGE"
	CodeUnknownMessageType Code = "UNKNOWN_MESSAGE_TYPE"
	CodeRateLimited        Code = "RATE_LIMITED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// UserMessage returns the client-facing text for c.
func (c Code) UserMessage() string {
	switch c {
	case CodeInvalidSample:
		return "gaze sample rejected: coordinates and timestamp must be finite numbers within range"
	case CodeInvalidFrame:
		return "message is not a valid JSON object"
	case CodeFrameTooLarge:
		return "message exceeds the maximum frame size"
	case CodeUnknownMessageType:
		return "unsupported message type"
	case CodeRateLimited:
		return "too many messages per second"
	case CodeNotFound:
		return "not found"
	default:
		return "internal error"
	}
}
