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

// Package elastic provides the search-index connector, speaking the
// Elasticsearch REST protocol. A query statement is a JSON document naming
// the target index and an optional search body; a bare index name searches
// everything in it.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"gridlink/backend/connectors/base"
)

const defaultTimeout = 30 * time.Second

// Connector implements the base.Connector interface for Elasticsearch.
type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New creates an Elasticsearch connector instance.
func New() *Connector {
	return &Connector{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.New(os.Stdout, "[ELASTIC] ", log.LstdFlags),
	}
}

// Connect resolves the REST endpoint from host/port fields and verifies it
// with the cluster root resource.
func (c *Connector) Connect(ctx context.Context, fields map[string]string) error {
	host := fields["host"]
	if host == "" {
		return base.NewValidationError("host was not supplied.")
	}
	port := fields["port"]
	if port == "" {
		port = "9200"
	}
	c.baseURL = fmt.Sprintf("http://%s:%s", host, port)

	var info map[string]interface{}
	return c.do(ctx, http.MethodGet, "/", nil, &info)
}

// Disconnect releases the session.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.baseURL = ""
	return nil
}

// searchRequest is the statement format: target index plus an optional
// Elasticsearch search body passed through untouched.
type searchRequest struct {
	Index string                 `json:"index"`
	Body  map[string]interface{} `json:"body,omitempty"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Query searches an index and flattens the hits into the normalized table
// shape. Document fields have no inherent order, so columns are sorted by
// name to keep the projection stable across executions.
func (c *Connector) Query(ctx context.Context, statement string) (*base.Table, error) {
	if c.baseURL == "" {
		return nil, base.NewConnectionError("elasticsearch not connected", nil)
	}

	var req searchRequest
	if err := json.Unmarshal([]byte(statement), &req); err != nil {
		// a bare index name searches everything
		req = searchRequest{Index: statement}
	}
	if req.Index == "" {
		return nil, base.NewValidationError("index was not supplied.")
	}

	var result searchResponse
	if err := c.do(ctx, http.MethodPost, "/"+req.Index+"/_search", req.Body, &result); err != nil {
		return nil, err
	}

	hits := result.Hits.Hits
	if len(hits) == 0 {
		return base.NewTable(nil, nil), nil
	}

	columns := make([]string, 0, len(hits[0].Source))
	for field := range hits[0].Source {
		columns = append(columns, field)
	}
	sort.Strings(columns)

	rows := make([][]interface{}, 0, len(hits))
	for _, hit := range hits {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = hit.Source[col]
		}
		rows = append(rows, row)
	}

	c.logger.Printf("search returned %d hits", len(rows))
	return base.NewTable(columns, rows), nil
}

// Tables lists the cluster's indices.
func (c *Connector) Tables(ctx context.Context) ([]string, error) {
	if c.baseURL == "" {
		return nil, base.NewConnectionError("elasticsearch not connected", nil)
	}

	var indices []struct {
		Index string `json:"index"`
	}
	if err := c.do(ctx, http.MethodGet, "/_cat/indices?format=json", nil, &indices); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(indices))
	for _, idx := range indices {
		names = append(names, idx.Index)
	}
	return names, nil
}

// Dialect returns the connector tag.
func (c *Connector) Dialect() string {
	return "elasticsearch"
}

// do executes one REST call and normalizes failures: transport errors are
// connection errors; an error response from the cluster is a query error
// carrying the cluster's own reason verbatim.
func (c *Connector) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return base.NewValidationError(err.Error())
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}

	if resp.StatusCode != http.StatusOK {
		return base.NewQueryError(remoteReason(data), nil)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return base.NewQueryError(err.Error(), err)
	}
	return nil
}

// remoteReason digs the human-readable reason out of an Elasticsearch error
// body, falling back to the raw body.
func remoteReason(data []byte) string {
	var remote struct {
		Error struct {
			RootCause []struct {
				Reason string `json:"reason"`
			} `json:"root_cause"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &remote); err == nil {
		if len(remote.Error.RootCause) > 0 && remote.Error.RootCause[0].Reason != "" {
			return remote.Error.RootCause[0].Reason
		}
		if remote.Error.Reason != "" {
			return remote.Error.Reason
		}
	}
	return string(data)
}

var _ base.Connector = (*Connector)(nil)
