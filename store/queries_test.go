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

package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridlink/backend/connectors/base"
)

func testQuery() *PersistentQuery {
	return &PersistentQuery{
		FID:             "chris:10",
		UIDs:            []string{"asd", "xyz"},
		RefreshInterval: 60,
		Query:           "SELECT * FROM ebola_2014 LIMIT 2",
		CredentialID:    "cred-1",
	}
}

func openTestQueries(t *testing.T) (*Queries, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.json")
	s, err := OpenQueries(path)
	require.NoError(t, err)
	return s, path
}

func TestQueriesSaveGetDelete(t *testing.T) {
	s, _ := openTestQueries(t)
	assert.Empty(t, s.All())

	require.NoError(t, s.Save(testQuery()))

	got, err := s.Get("chris:10")
	require.NoError(t, err)
	assert.Equal(t, testQuery(), got)

	require.NoError(t, s.Delete("chris:10"))
	_, err = s.Get("chris:10")
	assert.Equal(t, base.KindNotFound, base.KindOf(err))
}

func TestQueriesUpsertByFID(t *testing.T) {
	s, _ := openTestQueries(t)
	require.NoError(t, s.Save(testQuery()))

	updated := testQuery()
	updated.RefreshInterval = 5
	require.NoError(t, s.Save(updated))

	assert.Len(t, s.All(), 1)
	got, err := s.Get("chris:10")
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.RefreshInterval)
}

func TestQueriesUnknownFID(t *testing.T) {
	s, _ := openTestQueries(t)

	_, err := s.Get("asdfasdf")
	assert.Equal(t, base.KindNotFound, base.KindOf(err))

	err = s.Delete("asdfasdf")
	assert.Equal(t, base.KindNotFound, base.KindOf(err))
}

func TestQueriesSurviveReload(t *testing.T) {
	s, path := openTestQueries(t)
	require.NoError(t, s.Save(testQuery()))

	reloaded, err := OpenQueries(path)
	require.NoError(t, err)
	assert.Equal(t, []*PersistentQuery{testQuery()}, reloaded.All())
}

func TestPersistentQuerySerializesExactlyFiveFields(t *testing.T) {
	data, err := json.Marshal(testQuery())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.ElementsMatch(t,
		[]string{"fid", "uids", "refreshInterval", "query", "credentialId"},
		keys(fields))
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
