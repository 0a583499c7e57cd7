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

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	sqlite3 "modernc.org/sqlite"

	"gridlink/backend/connectors/base"
)

// Connector implements the base.Connector interface for SQLite database
// files. The credential's storage field is the database path.
type Connector struct {
	db     *sql.DB
	logger *log.Logger
}

// New creates a SQLite connector instance.
func New() *Connector {
	return &Connector{
		logger: log.New(os.Stdout, "[SQLITE] ", log.LstdFlags),
	}
}

// Connect opens the database file named by the storage field.
func (c *Connector) Connect(ctx context.Context, fields map[string]string) error {
	path := fields["storage"]
	if path == "" {
		return base.NewValidationError("storage was not supplied.")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return normalize(err)
	}
	c.db = db
	return nil
}

// Disconnect releases the session.
func (c *Connector) Disconnect(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return base.NewConnectionError(err.Error(), err)
	}
	c.db = nil
	return nil
}

// Query executes a statement and scans the result into the normalized
// table shape.
func (c *Connector) Query(ctx context.Context, statement string) (*base.Table, error) {
	if c.db == nil {
		return nil, base.NewConnectionError("database not connected", nil)
	}

	rows, err := c.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, normalize(err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, normalize(err)
	}

	var result [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, normalize(err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, normalize(err)
	}

	c.logger.Printf("query returned %d rows", len(result))
	return base.NewTable(columns, result), nil
}

// Tables lists the database's tables from sqlite_master.
func (c *Connector) Tables(ctx context.Context) ([]string, error) {
	if c.db == nil {
		return nil, base.NewConnectionError("database not connected", nil)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, normalize(err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, normalize(err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, normalize(err)
	}
	return tables, nil
}

// Dialect returns the connector tag.
func (c *Connector) Dialect() string {
	return "sqlite"
}

// normalize reclassifies a driver error. SQLite is embedded, so an engine
// error is always a rejected statement: query error with the engine's
// message. Anything else (unreadable file, cancelled context) counts as a
// connection failure.
func normalize(err error) *base.Error {
	var sqErr *sqlite3.Error
	if errors.As(err, &sqErr) {
		return base.NewQueryError(sqErr.Error(), err)
	}
	return base.NewConnectionError(err.Error(), err)
}

var _ base.Connector = (*Connector)(nil)
