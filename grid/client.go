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

// Package grid is the client for the hosted grid API: account verification
// for the OAuth flow, the per-sync authorization check, and the column
// update that pushes a query's rows into an externally visible grid.
package grid

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gridlink/backend/connectors/base"
	"gridlink/backend/store"
)

const defaultTimeout = 60 * time.Second

// Identity is a resolved hosted-grid account, used to authenticate sync
// calls.
type Identity struct {
	Username    string
	APIKey      string
	AccessToken string
}

// Client talks to the hosted grid API. The domain is resolved per call
// because the PLOTLY_API_DOMAIN setting may change between ticks.
type Client struct {
	domain     func() string
	httpClient *http.Client
}

// NewClient creates a grid API client. domain is consulted on every call.
func NewClient(domain func() string) *Client {
	return &Client{
		domain:     domain,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// VerifyToken resolves an OAuth access token to its account username. A
// token that maps to no account yields an error with the fixed message the
// route layer surfaces as a server error.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.domain()+"/v2/users/current", nil)
	if err != nil {
		return "", base.NewConnectionError(err.Error(), err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", base.NewConnectionError(err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", base.NewUnexpectedError("User was not found.")
	}

	var account struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return "", base.NewUnexpectedError("User was not found.")
	}
	if account.Username == "" {
		return "", base.NewUnexpectedError("User was not found.")
	}
	return account.Username, nil
}

// Authorize implements the per-sync authorization check. It runs once per
// sync attempt — registration and every tick — and is never cached. An
// empty user list fails before any network call; a rejected account is an
// auth failure; an unreachable API is a connection failure.
func (c *Client) Authorize(ctx context.Context, users []store.User) (*Identity, error) {
	if len(users) == 0 {
		return nil, base.NewAuthError("API key was not supplied.")
	}

	ident := &Identity{
		Username:    users[0].Username,
		APIKey:      users[0].APIKey,
		AccessToken: users[0].AccessToken,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.domain()+"/v2/users/current", nil)
	if err != nil {
		return nil, base.NewConnectionError(err.Error(), err)
	}
	ident.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, base.NewConnectionError(err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, base.NewAuthError("Unauthenticated")
	}
	return ident, nil
}

// UpdateGrid replaces the target grid columns with a query result. uids map
// to the table's columns positionally.
func (c *Client) UpdateGrid(ctx context.Context, ident *Identity, fid string, uids []string, table *base.Table) error {
	cols := make(map[string]interface{}, len(uids))
	for i, uid := range uids {
		data := make([]interface{}, 0, table.Nrows)
		for _, row := range table.Rows {
			if i < len(row) {
				data = append(data, row[i])
			}
		}
		cols[uid] = map[string]interface{}{"data": data}
	}
	colsJSON, err := json.Marshal(cols)
	if err != nil {
		return base.NewUnexpectedError(err.Error())
	}

	payload, err := json.Marshal(map[string]string{"cols": string(colsJSON)})
	if err != nil {
		return base.NewUnexpectedError(err.Error())
	}

	url := fmt.Sprintf("%s/v2/grids/%s/col?uid=%s", c.domain(), fid, strings.Join(uids, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	ident.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return base.NewQueryError(remoteMessage(data, resp.StatusCode), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// authorize attaches the account's credentials: token auth when the OAuth
// flow supplied one, otherwise basic auth with the API key.
func (i *Identity) authorize(req *http.Request) {
	if i.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+i.AccessToken)
		return
	}
	basic := base64.StdEncoding.EncodeToString([]byte(i.Username + ":" + i.APIKey))
	req.Header.Set("Authorization", "Basic "+basic)
}

// remoteMessage extracts the API's error message, keeping it verbatim.
func remoteMessage(data []byte, status int) string {
	var remote struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(data, &remote); err == nil && len(remote.Errors) > 0 && remote.Errors[0].Message != "" {
		return remote.Errors[0].Message
	}
	if len(data) > 0 {
		return string(data)
	}
	return fmt.Sprintf("grid update failed with status %d", status)
}
