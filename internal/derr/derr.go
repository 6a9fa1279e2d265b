// Package derr provides structured domain errors with machine-readable codes.
package derr

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Heist errors
	CodeHeistApproachNotSelected Code = "HEIST_APPROACH_NOT_SELECTED"
	CodeHeistAlreadyComplete     Code = "HEIST_ALREADY_COMPLETE"
	CodeHeistUnknownApproach     Code = "HEIST_UNKNOWN_APPROACH"

	// Identity errors
	CodeIdentityUnknownPersona Code = "IDENTITY_UNKNOWN_PERSONA"

	// Guild errors
	CodeGuildUnknownJob    Code = "GUILD_UNKNOWN_JOB"
	CodeGuildNoActiveJob   Code = "GUILD_NO_ACTIVE_JOB"
	CodeGuildRankTooLow    Code = "GUILD_RANK_TOO_LOW"
	CodeGuildUnknownIntent Code = "GUILD_UNKNOWN_INTENT"

	// Intent errors
	CodeIntentUnknownKind      Code = "INTENT_UNKNOWN_KIND"
	CodeIntentMissingPayload   Code = "INTENT_MISSING_PAYLOAD"
	CodeIntentMissingCharacter Code = "INTENT_MISSING_CHARACTER"
)

// Error couples a domain error code with a human-readable message.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the domain code from err, or CodeUnknown when err carries
// no domain error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}
