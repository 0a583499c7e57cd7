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

import "context"

// Connector is the uniform capability set every dialect adapter implements.
// A connected instance is a session scoped to one execution: callers obtain
// it, run one operation, and release it with Disconnect on every exit path.
// Instances are never shared across executions.
type Connector interface {
	// Connect opens a session using dialect-specific credential fields.
	Connect(ctx context.Context, fields map[string]string) error

	// Disconnect releases the session. Safe to call when Connect failed.
	Disconnect(ctx context.Context) error

	// Query executes a statement and returns the normalized result.
	Query(ctx context.Context, statement string) (*Table, error)

	// Tables lists the tables (or nearest equivalent) the session can see.
	// Dialects without schema introspection return a validation error.
	Tables(ctx context.Context) ([]string, error)

	// Dialect returns the tag this adapter serves.
	Dialect() string
}

// ObjectLister is implemented by object-storage dialects and by catalog
// dialects that front an object store.
type ObjectLister interface {
	ListObjects(ctx context.Context) ([]ObjectMeta, error)
}

// StorageCatalog is implemented by distributed-query-catalog dialects that
// expose their storage-plugin configuration.
type StorageCatalog interface {
	Storage(ctx context.Context) ([]StorageConfig, error)
}
