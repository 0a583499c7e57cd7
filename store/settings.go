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
	"fmt"
	"sync"
)

// Setting keys consulted by the scheduler and auth gate.
const (
	SettingUsers         = "USERS"
	SettingGridAPIDomain = "PLOTLY_API_DOMAIN"
)

// DefaultGridAPIDomain is used until the setting is written.
const DefaultGridAPIDomain = "https://api.plot.ly"

// User is one entry of the USERS setting: a hosted-grid account the
// scheduler may sync as.
type User struct {
	Username    string `json:"username"`
	APIKey      string `json:"apikey,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Settings is the persisted key-value configuration collection.
type Settings struct {
	mu     sync.Mutex
	file   *jsonFile
	values map[string]json.RawMessage
}

// OpenSettings loads the settings collection from path and seeds defaults
// for keys that have never been written.
func OpenSettings(path string) (*Settings, error) {
	s := &Settings{file: &jsonFile{path: path}}
	if err := s.file.load(&s.values); err != nil {
		return nil, err
	}
	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}
	if _, ok := s.values[SettingUsers]; !ok {
		s.values[SettingUsers] = json.RawMessage("[]")
	}
	if _, ok := s.values[SettingGridAPIDomain]; !ok {
		domain, _ := json.Marshal(DefaultGridAPIDomain)
		s.values[SettingGridAPIDomain] = domain
	}
	return s, nil
}

// Get decodes the value stored under key into out.
func (s *Settings) Get(key string, out interface{}) error {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("setting %s is not set", key)
	}
	return json.Unmarshal(raw, out)
}

// Set stores a value under key and flushes the collection.
func (s *Settings) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(key, value)
}

func (s *Settings) setLocked(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	return s.file.flush(s.values)
}

// Users returns the configured hosted-grid accounts. Re-read on every sync
// attempt, never cached, because settings may change between ticks.
func (s *Settings) Users() []User {
	var users []User
	_ = s.Get(SettingUsers, &users)
	return users
}

// SaveUser adds or replaces the entry for username in USERS. It reports
// whether the user was already known. The read-modify-write happens under
// one lock hold so concurrent saves never lose each other's entries.
func (s *Settings) SaveUser(user User) (existed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []User
	if raw, ok := s.values[SettingUsers]; ok {
		if err := json.Unmarshal(raw, &users); err != nil {
			return false, err
		}
	}
	for i, u := range users {
		if u.Username == user.Username {
			users[i] = user
			return true, s.setLocked(SettingUsers, users)
		}
	}
	return false, s.setLocked(SettingUsers, append(users, user))
}

// GridAPIDomain returns the hosted grid API base URL.
func (s *Settings) GridAPIDomain() string {
	var domain string
	if err := s.Get(SettingGridAPIDomain, &domain); err != nil || domain == "" {
		return DefaultGridAPIDomain
	}
	return domain
}
