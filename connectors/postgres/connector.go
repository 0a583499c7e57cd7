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

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/lib/pq"

	"gridlink/backend/connectors/base"
)

// Connector implements the base.Connector interface for PostgreSQL.
type Connector struct {
	db     *sql.DB
	logger *log.Logger
}

// New creates a PostgreSQL connector instance.
func New() *Connector {
	return &Connector{
		logger: log.New(os.Stdout, "[POSTGRES] ", log.LstdFlags),
	}
}

// Connect opens a session from the credential's host, port, username,
// password and database fields and verifies it with a ping.
func (c *Connector) Connect(ctx context.Context, fields map[string]string) error {
	port := fields["port"]
	if port == "" {
		port = "5432"
	}
	sslmode := fields["sslmode"]
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		fields["host"], port, fields["username"], fields["password"], fields["database"], sslmode)

	db, err := sql.Open("postgres", dsn)
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
			// numeric/text columns arrive as []byte
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

// Tables lists the tables of the public schema in catalog order.
func (c *Connector) Tables(ctx context.Context) ([]string, error) {
	if c.db == nil {
		return nil, base.NewConnectionError("database not connected", nil)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_schema = 'public'`)
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
	return "postgres"
}

// normalize reclassifies a driver error. A *pq.Error means the server was
// reached and rejected the request, so the server's own message (for
// example `syntax error at or near "SELECZ"`) passes through verbatim as a
// query error. Anything else failed before the server answered.
func normalize(err error) *base.Error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return base.NewQueryError(pqErr.Message, err)
	}
	return base.NewConnectionError(err.Error(), err)
}

var _ base.Connector = (*Connector)(nil)
