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

package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"gridlink/backend/connectors/base"
)

func mockConnector(t *testing.T) (*Connector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	c := New("mysql")
	c.db = db
	return c, mock
}

func TestQueryScansRows(t *testing.T) {
	c, mock := mockConnector(t)

	rows := sqlmock.NewRows([]string{"name", "count"}).
		AddRow([]byte("widgets"), 42)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	table, err := c.Query(context.Background(), "SELECT name, count FROM inventory")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if table.Rows[0][0] != "widgets" {
		t.Errorf("Rows[0][0] = %v, want widgets as a string", table.Rows[0][0])
	}
}

func TestQueryServerErrorPassesMessageThrough(t *testing.T) {
	c, mock := mockConnector(t)

	mock.ExpectQuery("SELECZ").WillReturnError(&mysql.MySQLError{
		Number:  1064,
		Message: "You have an error in your SQL syntax",
	})

	_, err := c.Query(context.Background(), "SELECZ")
	if base.KindOf(err) != base.KindQuery {
		t.Fatalf("kind = %v, want query error", base.KindOf(err))
	}
	if err.Error() != "You have an error in your SQL syntax" {
		t.Errorf("message = %q, want the server text verbatim", err.Error())
	}
}

func TestQueryEmptyResultShape(t *testing.T) {
	c, mock := mockConnector(t)

	mock.ExpectQuery("LIMIT 0").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	table, err := c.Query(context.Background(), "SELECT name FROM inventory LIMIT 0")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if table.Nrows != 0 || len(table.Rows) != 1 || len(table.Rows[0]) != 0 {
		t.Errorf("empty result = %+v, want nrows 0 and rows [[]]", table)
	}
}

func TestTables(t *testing.T) {
	c, mock := mockConnector(t)

	rows := sqlmock.NewRows([]string{"Tables_in_testdb"}).
		AddRow("inventory").
		AddRow("orders")
	mock.ExpectQuery("SHOW TABLES").WillReturnRows(rows)

	tables, err := c.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	if len(tables) != 2 || tables[1] != "orders" {
		t.Errorf("tables = %v", tables)
	}
}

func TestDialectTags(t *testing.T) {
	if New("mysql").Dialect() != "mysql" {
		t.Error("want mysql tag")
	}
	if New("mariadb").Dialect() != "mariadb" {
		t.Error("want mariadb tag")
	}
}
