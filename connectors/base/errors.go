// Copyright 2026 GridLink
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import "errors"

// Kind classifies a failure for status-code mapping and retry policy.
// The message travels separately so remote diagnostics reach the caller
// verbatim.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
	KindConnection
	KindQuery
)

// String returns the kind's name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	default:
		return "unexpected"
	}
}

// Error is the one error type that crosses package boundaries. Connectors
// catch driver-native errors and reclassify them into an Error; nothing
// upstream inspects a driver error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidationError reports missing or malformed input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports an unknown id or fid.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConflictError reports a duplicate of an existing record.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewAuthError reports a missing or rejected API key or account.
func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NewConnectionError reports a failure that happened before the remote
// service responded: DNS, refused connection, connect timeout.
func NewConnectionError(message string, cause error) *Error {
	return &Error{Kind: KindConnection, Message: message, Cause: cause}
}

// NewQueryError reports a failure returned by the remote service after it
// was reached: a parse error, a rejected request. The message is the remote
// diagnostic text, untouched.
func NewQueryError(message string, cause error) *Error {
	return &Error{Kind: KindQuery, Message: message, Cause: cause}
}

// NewUnexpectedError reports a failure outside the taxonomy proper that
// still needs a message carried to the caller.
func NewUnexpectedError(message string) *Error {
	return &Error{Kind: KindUnexpected, Message: message}
}

// KindOf extracts the taxonomy kind from err, or KindUnexpected when err
// did not come out of this taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
