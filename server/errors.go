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

package server

import (
	"encoding/json"
	"net/http"

	"gridlink/backend/connectors/base"
)

// errorBody is the uniform failure envelope: {"error": {"message": "..."}}.
type errorBody struct {
	Error errorMessage `json:"error"`
}

type errorMessage struct {
	Message string `json:"message"`
}

// statusOf maps a taxonomy kind to its HTTP status. Connection failures are
// server errors while query rejections are client errors; the split follows
// where the failure originated, not how severe it was.
func statusOf(err error) int {
	switch base.KindOf(err) {
	case base.KindValidation, base.KindAuth, base.KindQuery:
		return http.StatusBadRequest
	case base.KindNotFound:
		return http.StatusNotFound
	case base.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	respondJSON(w, statusOf(err), errorBody{Error: errorMessage{Message: err.Error()}})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srvLog.Error("failed to encode response", err, nil)
	}
}
