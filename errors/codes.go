package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Assembly errors (sections, payload composition)
//   - E2xxx: Tooling errors (compiler discovery, external processes)
type ErrorCode string

const (
	// Assembly errors (E1xxx)
	E1001 ErrorCode = "E1001" // Module does not fit its section
	E1002 ErrorCode = "E1002" // Variant runtimes differ in length
	E1003 ErrorCode = "E1003" // Placeholder missing or ambiguous
	E1004 ErrorCode = "E1004" // Section shift out of range

	// Tooling errors (E2xxx)
	E2001 ErrorCode = "E2001" // External process failed
	E2002 ErrorCode = "E2002" // Compiler not found
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "oversized module",
	E1002: "runtime length mismatch",
	E1003: "placeholder patch failed",
	E1004: "invalid section shift",
	E2001: "external process failed",
	E2002: "compiler not found",
}

// Description returns a short description of the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}
