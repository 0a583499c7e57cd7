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

// Table is the normalized result of a successful query, identical in shape
// across every dialect.
type Table struct {
	ColumnNames []string        `json:"columnnames"`
	Ncols       int             `json:"ncols"`
	Nrows       int             `json:"nrows"`
	Rows        [][]interface{} `json:"rows"`
}

// NewTable builds a Table from column names and row values. An empty result
// serializes as {columnnames: [], rows: [[]], nrows: 0, ncols: 0} — one
// empty row despite nrows being zero. Downstream grid consumers depend on
// that exact shape, so it is reproduced rather than corrected.
func NewTable(columns []string, rows [][]interface{}) *Table {
	if len(rows) == 0 {
		return &Table{
			ColumnNames: []string{},
			Rows:        [][]interface{}{{}},
		}
	}
	return &Table{
		ColumnNames: columns,
		Ncols:       len(columns),
		Nrows:       len(rows),
		Rows:        rows,
	}
}

// ObjectMeta describes one stored object in a listing. Field names follow
// the backend's own listing format and order is whatever the backend
// returned — no re-sorting.
type ObjectMeta struct {
	Key          string      `json:"Key"`
	LastModified string      `json:"LastModified"`
	ETag         string      `json:"ETag"`
	Size         int64       `json:"Size"`
	StorageClass string      `json:"StorageClass"`
	Owner        ObjectOwner `json:"Owner"`
}

// ObjectOwner identifies the owner of a stored object.
type ObjectOwner struct {
	DisplayName string `json:"DisplayName"`
	ID          string `json:"ID"`
}

// StorageConfig is one storage-plugin entry of a distributed-query catalog.
type StorageConfig struct {
	Name   string                 `json:"name"`
	Config map[string]interface{} `json:"config"`
}
