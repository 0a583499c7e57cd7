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

func sqlCredential() *Credential {
	return &Credential{Fields: map[string]interface{}{
		"dialect":  "postgres",
		"username": "reader",
		"password": "s3cret",
		"host":     "db.example.com",
		"port":     json.Number("5432"),
		"database": "plotly_datasets",
	}}
}

func openTestCredentials(t *testing.T) (*Credentials, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	s, err := OpenCredentials(path)
	require.NoError(t, err)
	return s, path
}

func TestCredentialsSaveAndGet(t *testing.T) {
	s, _ := openTestCredentials(t)

	id, err := s.Save(sqlCredential())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cred, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cred.Dialect())
	assert.Equal(t, "5432", cred.Field("port"))
	assert.Equal(t, "s3cret", cred.Field("password"))
}

func TestCredentialsDuplicateSaveReturnsExistingID(t *testing.T) {
	s, _ := openTestCredentials(t)

	id, err := s.Save(sqlCredential())
	require.NoError(t, err)

	dupID, err := s.Save(sqlCredential())
	require.Error(t, err)
	assert.Equal(t, base.KindConflict, base.KindOf(err))
	assert.Equal(t, id, dupID, "duplicate save must return the pre-existing id")

	assert.Len(t, s.AllSanitized(), 1)
}

func TestCredentialsDifferentFieldsAreNotDuplicates(t *testing.T) {
	s, _ := openTestCredentials(t)

	_, err := s.Save(sqlCredential())
	require.NoError(t, err)

	other := sqlCredential()
	other.Fields["database"] = "other_db"
	_, err = s.Save(other)
	require.NoError(t, err)
	assert.Len(t, s.AllSanitized(), 2)
}

func TestCredentialsSanitizedNeverIncludesSensitiveFields(t *testing.T) {
	s, _ := openTestCredentials(t)

	_, err := s.Save(sqlCredential())
	require.NoError(t, err)
	_, err = s.Save(&Credential{Fields: map[string]interface{}{
		"dialect":         "s3",
		"bucket":          "grid-data",
		"accessKeyId":     "AKIAEXAMPLE",
		"secretAccessKey": "shhh",
	}})
	require.NoError(t, err)

	for _, sanitized := range s.AllSanitized() {
		assert.NotContains(t, sanitized, "password")
		assert.NotContains(t, sanitized, "secretAccessKey")
		assert.NotContains(t, sanitized, "accessToken")
		assert.NotContains(t, sanitized, "apiKey")
		assert.Contains(t, sanitized, "id")
		assert.Contains(t, sanitized, "dialect")
	}
}

func TestCredentialsDelete(t *testing.T) {
	s, _ := openTestCredentials(t)

	id, err := s.Save(sqlCredential())
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	assert.Empty(t, s.AllSanitized())

	_, err = s.Get(id)
	assert.Equal(t, base.KindNotFound, base.KindOf(err))

	err = s.Delete(id)
	assert.Equal(t, base.KindNotFound, base.KindOf(err))
}

func TestCredentialsSurviveReload(t *testing.T) {
	s, path := openTestCredentials(t)

	id, err := s.Save(sqlCredential())
	require.NoError(t, err)

	reloaded, err := OpenCredentials(path)
	require.NoError(t, err)

	cred, err := reloaded.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "5432", cred.Field("port"), "numeric fields must round-trip through disk")
	assert.Equal(t, "reader", cred.Field("username"))

	// and the duplicate check still holds against the reloaded state
	dupID, err := reloaded.Save(sqlCredential())
	require.Error(t, err)
	assert.Equal(t, id, dupID)
}
