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
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"gridlink/backend/connectors/base"
	"gridlink/backend/store"
)

// oauthCallbackPage relays the access token from the URL fragment back to
// the window that opened the authorization flow.
const oauthCallbackPage = `<!DOCTYPE html>
<html>
<head><title>GridLink</title></head>
<body>
<p>You can close this window.</p>
<script>
if (window.opener && window.location.hash) {
    window.opener.postMessage(window.location.hash.substring(1), "*");
}
</script>
</body>
</html>`

func pingHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"service":  "gridlink-backend",
		"dialects": connectorRegistry.Dialects(),
		"queries":  len(queryStore.All()),
	})
}

func oauthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, oauthCallbackPage)
}

// oauthTokenHandler verifies an OAuth access token against the grid API and
// stores the resolved account in the USERS setting. A token seen for the
// first time yields 201, a known one 200, a token with no account 500.
func oauthTokenHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AccessToken == "" {
		writeError(w, base.NewValidationError("access_token was not supplied."))
		return
	}

	username, err := gridClient.VerifyToken(r.Context(), body.AccessToken)
	if err != nil {
		writeError(w, err)
		return
	}

	existed, err := settingStore.SaveUser(store.User{Username: username, AccessToken: body.AccessToken})
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	respondJSON(w, status, map[string]interface{}{})
}

// withSession runs one connector operation against the credential named in
// the route, opening a fresh session and releasing it on every exit path.
func withSession(w http.ResponseWriter, r *http.Request, op func(base.Connector) (interface{}, error)) {
	cred, err := credentialStore.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	conn, err := connectorRegistry.Open(r.Context(), cred)
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() { _ = conn.Disconnect(r.Context()) }()

	result, err := op(conn)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func queryHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query == "" {
		writeError(w, base.NewValidationError("query was not supplied."))
		return
	}
	withSession(w, r, func(conn base.Connector) (interface{}, error) {
		table, err := conn.Query(r.Context(), body.Query)
		promQueriesTotal.WithLabelValues(queryStatusLabel(err)).Inc()
		return table, err
	})
}

func tablesHandler(w http.ResponseWriter, r *http.Request) {
	withSession(w, r, func(conn base.Connector) (interface{}, error) {
		return conn.Tables(r.Context())
	})
}

func s3KeysHandler(w http.ResponseWriter, r *http.Request) {
	withSession(w, r, func(conn base.Connector) (interface{}, error) {
		lister, ok := conn.(base.ObjectLister)
		if !ok {
			return nil, base.NewValidationError(fmt.Sprintf("%s does not support object listing.", conn.Dialect()))
		}
		return lister.ListObjects(r.Context())
	})
}

func drillStorageHandler(w http.ResponseWriter, r *http.Request) {
	withSession(w, r, func(conn base.Connector) (interface{}, error) {
		catalog, ok := conn.(base.StorageCatalog)
		if !ok {
			return nil, base.NewValidationError(fmt.Sprintf("%s does not expose storage configuration.", conn.Dialect()))
		}
		return catalog.Storage(r.Context())
	})
}

func saveCredentialHandler(w http.ResponseWriter, r *http.Request) {
	var cred store.Credential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		writeError(w, base.NewValidationError("credentials were malformed."))
		return
	}
	if cred.Dialect() == "" {
		writeError(w, base.NewValidationError("dialect was not supplied."))
		return
	}

	id, err := credentialStore.Save(&cred)
	if err != nil {
		if base.KindOf(err) == base.KindConflict {
			// The duplicate's pre-existing id rides along with the error.
			respondJSON(w, http.StatusConflict, map[string]interface{}{
				"credentialId": id,
				"error":        errorMessage{Message: err.Error()},
			})
			return
		}
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"credentialId": id})
}

func listCredentialsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, credentialStore.AllSanitized())
}

func deleteCredentialHandler(w http.ResponseWriter, r *http.Request) {
	if err := credentialStore.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// registerQueryHandler persists a query and runs it once synchronously, so
// bad credentials, empty USERS, or a broken statement fail the registration
// instead of surfacing only on the first tick.
func registerQueryHandler(w http.ResponseWriter, r *http.Request) {
	var pq store.PersistentQuery
	if err := json.NewDecoder(r.Body).Decode(&pq); err != nil {
		writeError(w, base.NewValidationError("query registration was malformed."))
		return
	}
	if err := sched.Register(r.Context(), pq); err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, pq)
}

func listQueriesHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, queryStore.All())
}

func getQueryHandler(w http.ResponseWriter, r *http.Request) {
	pq, err := queryStore.Get(mux.Vars(r)["fid"])
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pq)
}

func deleteQueryHandler(w http.ResponseWriter, r *http.Request) {
	if err := sched.Delete(mux.Vars(r)["fid"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// throwHandler panics on purpose to exercise the catch-all.
func throwHandler(w http.ResponseWriter, r *http.Request) {
	panic("deliberate failure")
}

func queryStatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
