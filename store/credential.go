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
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// sensitiveFields are stripped from every external projection of a
// credential, for all dialects.
var sensitiveFields = map[string]bool{
	"password":        true,
	"secretAccessKey": true,
	"accessToken":     true,
	"apiKey":          true,
}

// Credential holds connection parameters for one data source. The id is
// server-generated and immutable; everything else is dialect-specific and
// kept exactly as the caller supplied it, so the persisted JSON round-trips
// field values (including numeric ports) unchanged.
type Credential struct {
	ID     string
	Fields map[string]interface{}
}

// Dialect returns the connector tag this credential targets.
func (c *Credential) Dialect() string {
	if d, ok := c.Fields["dialect"].(string); ok {
		return d
	}
	return ""
}

// Field returns a credential field as a string, rendering JSON numbers
// without an exponent so ports and sizes survive the trip through JSON.
func (c *Credential) Field(key string) string {
	switch v := c.Fields[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ConnectorFields flattens the credential into the string map the connector
// layer consumes.
func (c *Credential) ConnectorFields() map[string]string {
	out := make(map[string]string, len(c.Fields))
	for k := range c.Fields {
		out[k] = c.Field(k)
	}
	return out
}

// Sanitized returns the external projection: every field except the
// sensitive ones, plus the id.
func (c *Credential) Sanitized() map[string]interface{} {
	out := make(map[string]interface{}, len(c.Fields)+1)
	out["id"] = c.ID
	for k, v := range c.Fields {
		if sensitiveFields[k] {
			continue
		}
		out[k] = v
	}
	return out
}

// sameFields reports whether two credentials are duplicates: identical
// fields ignoring the generated id.
func (c *Credential) sameFields(other *Credential) bool {
	return reflect.DeepEqual(c.Fields, other.Fields)
}

// MarshalJSON renders the credential flat, id alongside the dialect fields,
// matching the persisted collection format.
func (c *Credential) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(c.Fields)+1)
	for k, v := range c.Fields {
		flat[k] = v
	}
	flat["id"] = c.ID
	return json.Marshal(flat)
}

// UnmarshalJSON is the inverse of MarshalJSON. Numbers decode as
// json.Number so values compare and re-serialize without float drift.
func (c *Credential) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	flat := make(map[string]interface{})
	if err := dec.Decode(&flat); err != nil {
		return err
	}
	if id, ok := flat["id"].(string); ok {
		c.ID = id
	}
	delete(flat, "id")
	c.Fields = flat
	return nil
}
