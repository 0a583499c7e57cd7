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

	"gridlink/backend/connectors/base"
)

// PersistentQuery is a saved query re-executed on a fixed interval, its
// result pushed to the hosted grid identified by fid. Exactly these five
// fields are serialized; run status lives in the scheduler, not here.
type PersistentQuery struct {
	FID             string   `json:"fid"`
	UIDs            []string `json:"uids"`
	RefreshInterval int64    `json:"refreshInterval"`
	Query           string   `json:"query"`
	CredentialID    string   `json:"credentialId"`
}

// Queries is the persisted collection of persistent queries, keyed by fid.
type Queries struct {
	mu      sync.Mutex
	file    *jsonFile
	queries []*PersistentQuery
}

// OpenQueries loads the query collection from path.
func OpenQueries(path string) (*Queries, error) {
	s := &Queries{file: &jsonFile{path: path}}
	if err := s.file.load(&s.queries); err != nil {
		return nil, err
	}
	return s, nil
}

// Save upserts a query by fid and flushes the collection.
func (s *Queries) Save(q *PersistentQuery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.queries {
		if existing.FID == q.FID {
			s.queries[i] = q
			return s.file.flush(s.queries)
		}
	}
	s.queries = append(s.queries, q)
	return s.file.flush(s.queries)
}

// Get returns the query registered under fid.
func (s *Queries) Get(fid string) (*PersistentQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.queries {
		if q.FID == fid {
			return q, nil
		}
	}
	return nil, base.NewNotFoundError(fmt.Sprintf("query %s was not found.", fid))
}

// All returns every registered query in insertion order.
func (s *Queries) All() []*PersistentQuery {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*PersistentQuery, len(s.queries))
	copy(out, s.queries)
	return out
}

// Delete removes the query registered under fid.
func (s *Queries) Delete(fid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, q := range s.queries {
		if q.FID == fid {
			s.queries = append(s.queries[:i], s.queries[i+1:]...)
			return s.file.flush(s.queries)
		}
	}
	return base.NewNotFoundError(fmt.Sprintf("query %s was not found.", fid))
}
