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

package s3

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gridlink/backend/connectors/base"
)

const listBucketXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>grid-data</Name>
  <KeyCount>2</KeyCount>
  <Contents>
    <Key>ebola.csv</Key>
    <LastModified>2016-10-01T12:30:00.000Z</LastModified>
    <ETag>&quot;0f849aeae6e1cbb4a70c1fcd0f91c26e&quot;</ETag>
    <Size>4711</Size>
    <StorageClass>STANDARD</StorageClass>
    <Owner><DisplayName>grid</DisplayName><ID>owner-1</ID></Owner>
  </Contents>
  <Contents>
    <Key>stocks.csv</Key>
    <LastModified>2016-10-02T08:15:30.500Z</LastModified>
    <ETag>&quot;aabbccdd&quot;</ETag>
    <Size>128</Size>
    <StorageClass>STANDARD</StorageClass>
    <Owner><DisplayName>grid</DisplayName><ID>owner-1</ID></Owner>
  </Contents>
</ListBucketResult>`

const ebolaCSV = "country,value\nGuinea,122\nLiberia,8.5\n"

// fakeBackend answers just enough of the S3 protocol for the connector.
func fakeBackend(t *testing.T) map[string]string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/grid-data":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/grid-data" && r.URL.Query().Get("list-type") == "2":
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, listBucketXML)
		case r.Method == http.MethodGet && r.URL.Path == "/grid-data/ebola.csv":
			fmt.Fprint(w, ebolaCSV)
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
		}
	}))
	t.Cleanup(srv.Close)

	return map[string]string{
		"dialect":         "s3",
		"bucket":          "grid-data",
		"accessKeyId":     "AKIAEXAMPLE",
		"secretAccessKey": "secret",
		"endpoint":        srv.URL,
	}
}

func connectTestBackend(t *testing.T) *Connector {
	t.Helper()
	c := New()
	if err := c.Connect(context.Background(), fakeBackend(t)); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Disconnect(context.Background()) })
	return c
}

func TestConnectRequiresBucket(t *testing.T) {
	err := New().Connect(context.Background(), map[string]string{"accessKeyId": "k"})
	if base.KindOf(err) != base.KindValidation {
		t.Errorf("kind = %v, want validation error", base.KindOf(err))
	}
}

func TestListObjects(t *testing.T) {
	c := connectTestBackend(t)

	keys, err := c.ListObjects(context.Background())
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
	first := keys[0]
	if first.Key != "ebola.csv" {
		t.Errorf("Key = %s, want ebola.csv", first.Key)
	}
	if first.ETag != `"0f849aeae6e1cbb4a70c1fcd0f91c26e"` {
		t.Errorf("ETag = %s, want it kept quoted as the backend returned it", first.ETag)
	}
	if first.LastModified != "2016-10-01T12:30:00.000Z" {
		t.Errorf("LastModified = %s, want millisecond format", first.LastModified)
	}
	if first.Size != 4711 || first.StorageClass != "STANDARD" {
		t.Errorf("Size/StorageClass = %d/%s", first.Size, first.StorageClass)
	}
	if first.Owner.DisplayName != "grid" || first.Owner.ID != "owner-1" {
		t.Errorf("Owner = %+v", first.Owner)
	}
}

func TestQueryParsesCSVObject(t *testing.T) {
	c := connectTestBackend(t)

	table, err := c.Query(context.Background(), "ebola.csv")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if table.Ncols != 2 || table.Nrows != 2 {
		t.Fatalf("got %dx%d, want 2x2", table.Nrows, table.Ncols)
	}
	if table.ColumnNames[0] != "country" {
		t.Errorf("ColumnNames = %v", table.ColumnNames)
	}
	if table.Rows[0][0] != "Guinea" {
		t.Errorf("Rows[0][0] = %v, want Guinea", table.Rows[0][0])
	}
	if table.Rows[0][1] != int64(122) {
		t.Errorf("Rows[0][1] = %v (%T), want the integer 122", table.Rows[0][1], table.Rows[0][1])
	}
	if table.Rows[1][1] != 8.5 {
		t.Errorf("Rows[1][1] = %v (%T), want the float 8.5", table.Rows[1][1], table.Rows[1][1])
	}
}

func TestQueryMissingObjectIsAQueryError(t *testing.T) {
	c := connectTestBackend(t)

	_, err := c.Query(context.Background(), "nope.csv")
	if base.KindOf(err) != base.KindQuery {
		t.Fatalf("kind = %v, want query error", base.KindOf(err))
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("message = %q, want the backend's message", err.Error())
	}
}

func TestTablesIsNotSupported(t *testing.T) {
	_, err := New().Tables(context.Background())
	if base.KindOf(err) != base.KindValidation {
		t.Errorf("kind = %v, want validation error", base.KindOf(err))
	}
}
