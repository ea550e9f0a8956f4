package api

import (
	"errors"
	"fmt"
	"regexp"
)

type (
	// FlowID identifies one flow editor instance
	FlowID string

	// ItemID is the opaque, never reused identifier of a flow item
	ItemID string

	// SessionID identifies one chat connection
	SessionID string
)

// MaxFlowIDLen is the maximum accepted flow ID length
const MaxFlowIDLen = 128

var (
	ErrFlowIDEmpty   = errors.New("flow ID is required")
	ErrFlowIDInvalid = errors.New("flow ID contains invalid characters")
	ErrFlowIDTooLong = errors.New("flow ID is too long")
)

// invalidIDChars matches characters not permitted in flow IDs. Valid
// characters are letters, digits, underscore, dot, hyphen, plus and space
var invalidIDChars = regexp.MustCompile(`[^a-zA-Z0-9_.\-+ ]`)

// Validate checks that a flow ID is usable as a route and aggregate key
func (id FlowID) Validate() error {
	switch {
	case id == "":
		return ErrFlowIDEmpty
	case len(id) > MaxFlowIDLen:
		return fmt.Errorf("%w: %d > %d", ErrFlowIDTooLong, len(id), MaxFlowIDLen)
	case invalidIDChars.MatchString(string(id)):
		return fmt.Errorf("%w: %s", ErrFlowIDInvalid, id)
	}
	return nil
}
