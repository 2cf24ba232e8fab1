// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeGraphCycle indicates an edge that would make a node both
	// parent and child (directly or transitively) of another node
	TypeGraphCycle Type = "GRAPH_CYCLE"

	// TypeTopology indicates an invalid topology definition
	TypeTopology Type = "TOPOLOGY_ERROR"

	// TypeUnknownNode indicates a lookup of a node name that is not registered
	TypeUnknownNode Type = "UNKNOWN_NODE"

	// TypeUnknownCommand indicates a demo command that does not exist
	TypeUnknownCommand Type = "UNKNOWN_COMMAND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// HasType reports whether the error itself has type t. Use IsType to
// search the cause chain.
func (e *Error) HasType(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType reports whether err, or any error it wraps, is an *Error of type t.
// Aggregated errors are searched member by member.
func IsType(err error, t Type) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		if e == nil {
			return false
		}
		return e.Type == t || IsType(e.Cause, t)
	case interface{ Errors() []error }:
		return anyType(e.Errors(), t)
	case interface{ Unwrap() []error }:
		return anyType(e.Unwrap(), t)
	case interface{ Unwrap() error }:
		return IsType(e.Unwrap(), t)
	default:
		return false
	}
}

func anyType(errs []error, t Type) bool {
	for _, err := range errs {
		if IsType(err, t) {
			return true
		}
	}
	return false
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// GraphCycle creates a graph cycle error
func GraphCycle(message string) *Error {
	return New(TypeGraphCycle, message)
}

// Topology creates a topology error
func Topology(message string, cause error) *Error {
	return Wrap(TypeTopology, message, cause)
}

// UnknownNode creates an unknown node error
func UnknownNode(name string) *Error {
	return Newf(TypeUnknownNode, "node not found: %s", name).WithContext("node", name)
}

// UnknownCommand creates an unknown command error
func UnknownCommand(name string) *Error {
	return Newf(TypeUnknownCommand, "command not found: %s", name).WithContext("command", name)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
