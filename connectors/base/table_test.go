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

package base

import (
	"encoding/json"
	"testing"
)

func TestNewTable(t *testing.T) {
	table := NewTable([]string{"country", "value"}, [][]interface{}{
		{"Guinea", 122},
		{"Liberia", 8},
	})

	if table.Ncols != 2 {
		t.Errorf("Ncols = %d, want 2", table.Ncols)
	}
	if table.Nrows != 2 {
		t.Errorf("Nrows = %d, want 2", table.Nrows)
	}
	if table.Rows[0][0] != "Guinea" {
		t.Errorf("Rows[0][0] = %v, want Guinea", table.Rows[0][0])
	}
}

func TestNewTableEmptyResult(t *testing.T) {
	table := NewTable([]string{"country", "value"}, nil)

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"columnnames":[],"ncols":0,"nrows":0,"rows":[[]]}`
	if string(data) != want {
		t.Errorf("empty result = %s, want %s", data, want)
	}
}

func TestNewTableEmptySlice(t *testing.T) {
	table := NewTable(nil, [][]interface{}{})
	if table.Nrows != 0 {
		t.Errorf("Nrows = %d, want 0", table.Nrows)
	}
	if len(table.Rows) != 1 || len(table.Rows[0]) != 0 {
		t.Errorf("Rows = %v, want one empty row", table.Rows)
	}
}
