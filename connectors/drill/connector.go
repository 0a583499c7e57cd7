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

// Package drill provides the Apache Drill connector. Drill speaks a REST
// protocol: SQL goes to /query.json, the storage-plugin catalog is read
// from /storage.json. Listing the keys behind Drill's s3 storage plugin is
// delegated to the s3 connector using the same credential fields.
package drill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"gridlink/backend/connectors/base"
	"gridlink/backend/connectors/s3"
)

const defaultTimeout = 30 * time.Second

// Connector implements base.Connector, base.ObjectLister and
// base.StorageCatalog for Apache Drill.
type Connector struct {
	baseURL    string
	fields     map[string]string
	httpClient *http.Client
	logger     *log.Logger
}

// New creates an Apache Drill connector instance.
func New() *Connector {
	return &Connector{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.New(os.Stdout, "[DRILL] ", log.LstdFlags),
	}
}

// Connect resolves the REST endpoint from host/port fields and verifies it
// by reading the storage catalog.
func (c *Connector) Connect(ctx context.Context, fields map[string]string) error {
	host := fields["host"]
	if host == "" {
		return base.NewValidationError("host was not supplied.")
	}
	port := fields["port"]
	if port == "" {
		port = "8047"
	}
	c.baseURL = fmt.Sprintf("http://%s:%s", host, port)
	c.fields = fields

	var catalog []base.StorageConfig
	if err := c.getJSON(ctx, "/storage.json", &catalog); err != nil {
		return err
	}
	return nil
}

// Disconnect releases the session.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.baseURL = ""
	return nil
}

// drillResult is Drill's /query.json response shape. Rows come back as
// objects keyed by column name; the columns list fixes their order.
type drillResult struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// Query submits SQL to /query.json and normalizes the response.
func (c *Connector) Query(ctx context.Context, statement string) (*base.Table, error) {
	if c.baseURL == "" {
		return nil, base.NewConnectionError("drill not connected", nil)
	}

	payload := map[string]string{"queryType": "SQL", "query": statement}
	var result drillResult
	if err := c.postJSON(ctx, "/query.json", payload, &result); err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(result.Rows))
	for _, record := range result.Rows {
		row := make([]interface{}, len(result.Columns))
		for i, col := range result.Columns {
			row[i] = record[col]
		}
		rows = append(rows, row)
	}

	c.logger.Printf("query returned %d rows", len(rows))
	return base.NewTable(result.Columns, rows), nil
}

// Tables lists Drill's schemas, the closest thing it has to a table
// catalog.
func (c *Connector) Tables(ctx context.Context) ([]string, error) {
	table, err := c.Query(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, table.Nrows)
	for _, row := range table.Rows {
		if len(row) == 0 {
			continue
		}
		if name, ok := row[0].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Storage returns the configured storage plugins in catalog order.
func (c *Connector) Storage(ctx context.Context) ([]base.StorageConfig, error) {
	if c.baseURL == "" {
		return nil, base.NewConnectionError("drill not connected", nil)
	}
	var catalog []base.StorageConfig
	if err := c.getJSON(ctx, "/storage.json", &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ListObjects lists the keys of the bucket behind Drill's s3 storage
// plugin. The credential carries the same accessKeyId / secretAccessKey /
// bucket fields the plugin was configured with.
func (c *Connector) ListObjects(ctx context.Context) ([]base.ObjectMeta, error) {
	lister := s3.New()
	if err := lister.Connect(ctx, c.fields); err != nil {
		return nil, err
	}
	defer func() { _ = lister.Disconnect(ctx) }()
	return lister.ListObjects(ctx)
}

// Dialect returns the connector tag.
func (c *Connector) Dialect() string {
	return "apache-drill"
}

func (c *Connector) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	return c.do(req, out)
}

func (c *Connector) postJSON(ctx context.Context, path string, body, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return base.NewValidationError(err.Error())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and normalizes failures: transport errors are
// connection errors; an error response from Drill is a query error carrying
// Drill's own errorMessage verbatim.
func (c *Connector) do(req *http.Request, out interface{}) error {
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
		var remote struct {
			ErrorMessage string `json:"errorMessage"`
		}
		if err := json.Unmarshal(data, &remote); err == nil && remote.ErrorMessage != "" {
			return base.NewQueryError(remote.ErrorMessage, nil)
		}
		return base.NewQueryError(string(data), nil)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return base.NewQueryError(err.Error(), err)
	}
	return nil
}

var (
	_ base.Connector      = (*Connector)(nil)
	_ base.ObjectLister   = (*Connector)(nil)
	_ base.StorageCatalog = (*Connector)(nil)
)
