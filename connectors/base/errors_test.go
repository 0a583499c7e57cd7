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

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessagePassesThroughVerbatim(t *testing.T) {
	err := NewQueryError(`syntax error at or near "SELECZ"`, nil)
	if err.Error() != `syntax error at or near "SELECZ"` {
		t.Errorf("Error() = %q, want the remote message untouched", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{NewValidationError("bad input"), KindValidation},
		{NewNotFoundError("missing"), KindNotFound},
		{NewConflictError("duplicate"), KindConflict},
		{NewAuthError("Unauthenticated"), KindAuth},
		{NewConnectionError("refused", nil), KindConnection},
		{NewQueryError("rejected", nil), KindQuery},
		{NewUnexpectedError("boom"), KindUnexpected},
		{errors.New("plain"), KindUnexpected},
		{fmt.Errorf("wrapped: %w", NewAuthError("Unauthenticated")), KindAuth},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewConnectionError(cause.Error(), cause)
	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable through Unwrap")
	}
}
