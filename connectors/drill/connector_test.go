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

package drill

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"gridlink/backend/connectors/base"
)

// fakeDrill serves the REST endpoints the connector touches.
func fakeDrill(t *testing.T) (map[string]string, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/storage.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]base.StorageConfig{
			{Name: "s3", Config: map[string]interface{}{"type": "file", "enabled": true}},
			{Name: "cp", Config: map[string]interface{}{"type": "file", "enabled": false}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	return map[string]string{"host": u.Hostname(), "port": u.Port()}, mux
}

func TestConnectVerifiesStorageCatalog(t *testing.T) {
	fields, _ := fakeDrill(t)

	c := New()
	if err := c.Connect(context.Background(), fields); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
}

func TestConnectUnreachableHostIsAConnectionError(t *testing.T) {
	c := New()
	err := c.Connect(context.Background(), map[string]string{"host": "127.0.0.1", "port": "1"})
	if base.KindOf(err) != base.KindConnection {
		t.Errorf("kind = %v, want connection error", base.KindOf(err))
	}
}

func TestQueryOrdersRowsByColumns(t *testing.T) {
	fields, mux := fakeDrill(t)
	mux.HandleFunc("/query.json", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad query payload: %v", err)
		}
		if req["queryType"] != "SQL" {
			t.Errorf("queryType = %s, want SQL", req["queryType"])
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"columns": []string{"country", "value"},
			"rows": []map[string]interface{}{
				{"value": 122, "country": "Guinea"},
				{"value": 8, "country": "Liberia"},
			},
		})
	})

	c := New()
	if err := c.Connect(context.Background(), fields); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	table, err := c.Query(context.Background(), "SELECT * FROM s3.root.`ebola.csv`")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if table.Ncols != 2 || table.Nrows != 2 {
		t.Fatalf("got %dx%d, want 2x2", table.Nrows, table.Ncols)
	}
	if table.Rows[0][0] != "Guinea" {
		t.Errorf("Rows[0][0] = %v, want Guinea first per columns order", table.Rows[0][0])
	}
}

func TestQueryRemoteErrorPassesMessageThrough(t *testing.T) {
	fields, mux := fakeDrill(t)
	mux.HandleFunc("/query.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"errorMessage": "PARSE ERROR: Encountered \"SELECZ\"",
		})
	})

	c := New()
	if err := c.Connect(context.Background(), fields); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, err := c.Query(context.Background(), "SELECZ")
	if base.KindOf(err) != base.KindQuery {
		t.Fatalf("kind = %v, want query error", base.KindOf(err))
	}
	if err.Error() != "PARSE ERROR: Encountered \"SELECZ\"" {
		t.Errorf("message = %q, want Drill's text verbatim", err.Error())
	}
}

func TestStorage(t *testing.T) {
	fields, _ := fakeDrill(t)

	c := New()
	if err := c.Connect(context.Background(), fields); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	catalog, err := c.Storage(context.Background())
	if err != nil {
		t.Fatalf("Storage failed: %v", err)
	}
	if len(catalog) != 2 || catalog[0].Name != "s3" {
		t.Errorf("catalog = %v", catalog)
	}
}
