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
	"fmt"
	"sync"

	"github.com/google/uuid"

	"gridlink/backend/connectors/base"
)

// Credentials is the persisted mapping of credential id to connection
// parameters. All mutations are serialized through one mutex and flushed to
// disk before returning.
type Credentials struct {
	mu    sync.Mutex
	file  *jsonFile
	creds []*Credential
}

// OpenCredentials loads the credential collection from path, starting empty
// when the file does not exist yet.
func OpenCredentials(path string) (*Credentials, error) {
	s := &Credentials{file: &jsonFile{path: path}}
	if err := s.file.load(&s.creds); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores a new credential and returns its generated id. A credential
// whose fields match an existing entry is not duplicated: Save returns the
// existing id together with a conflict error.
func (s *Credentials) Save(cred *Credential) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cred.Dialect() == "" {
		return "", base.NewValidationError("dialect was not supplied.")
	}
	for _, existing := range s.creds {
		if existing.sameFields(cred) {
			return existing.ID, base.NewConflictError(
				fmt.Sprintf("credential already exists with id %s", existing.ID))
		}
	}

	cred.ID = uuid.NewString()
	s.creds = append(s.creds, cred)
	if err := s.file.flush(s.creds); err != nil {
		s.creds = s.creds[:len(s.creds)-1]
		return "", err
	}
	return cred.ID, nil
}

// Get returns the full credential record, sensitive fields included. Only
// the connector layer may see this.
func (s *Credentials) Get(id string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cred := range s.creds {
		if cred.ID == id {
			return cred, nil
		}
	}
	return nil, base.NewNotFoundError(fmt.Sprintf("credential %s was not found.", id))
}

// AllSanitized lists every stored credential with sensitive fields removed.
func (s *Credentials) AllSanitized() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]interface{}, 0, len(s.creds))
	for _, cred := range s.creds {
		out = append(out, cred.Sanitized())
	}
	return out
}

// Delete removes a credential. Persistent queries referencing it are left
// alone; their next execution surfaces the dangling reference as a runtime
// failure.
func (s *Credentials) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cred := range s.creds {
		if cred.ID == id {
			s.creds = append(s.creds[:i], s.creds[i+1:]...)
			return s.file.flush(s.creds)
		}
	}
	return base.NewNotFoundError(fmt.Sprintf("credential %s was not found.", id))
}
