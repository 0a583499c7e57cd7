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

package registry

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"gridlink/backend/connectors/base"
	"gridlink/backend/connectors/drill"
	"gridlink/backend/connectors/elastic"
	"gridlink/backend/connectors/mysql"
	"gridlink/backend/connectors/postgres"
	"gridlink/backend/connectors/s3"
	"gridlink/backend/connectors/sqlite"
	"gridlink/backend/store"
)

// Factory creates a fresh, unconnected connector for one dialect tag.
type Factory func() base.Connector

// Registry resolves a credential's dialect tag to a connector factory and
// opens one session per execution. Sessions are never pooled or shared:
// every caller gets its own connected instance and releases it with
// Disconnect.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    *log.Logger
}

// New creates a registry with every built-in dialect registered.
func New() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		logger:    log.New(os.Stdout, "[REGISTRY] ", log.LstdFlags),
	}
	r.Register("postgres", func() base.Connector { return postgres.New() })
	r.Register("mysql", func() base.Connector { return mysql.New("mysql") })
	r.Register("mariadb", func() base.Connector { return mysql.New("mariadb") })
	r.Register("sqlite", func() base.Connector { return sqlite.New() })
	r.Register("s3", func() base.Connector { return s3.New() })
	r.Register("apache-drill", func() base.Connector { return drill.New() })
	r.Register("elasticsearch", func() base.Connector { return elastic.New() })
	return r
}

// Register adds or replaces the factory for a dialect tag.
func (r *Registry) Register(dialect string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[dialect] = factory
}

// Dialects returns the registered dialect tags.
func (r *Registry) Dialects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	return tags
}

// Open resolves the credential's dialect and returns a connected session.
// The registry fails closed: an unregistered dialect is a configuration
// error, not a passthrough.
func (r *Registry) Open(ctx context.Context, cred *store.Credential) (base.Connector, error) {
	dialect := cred.Dialect()

	r.mu.RLock()
	factory, ok := r.factories[dialect]
	r.mu.RUnlock()
	if !ok {
		return nil, base.NewValidationError(fmt.Sprintf("dialect %q is not supported.", dialect))
	}

	conn := factory()
	if err := conn.Connect(ctx, cred.ConnectorFields()); err != nil {
		r.logger.Printf("connect failed for dialect %s: %v", dialect, err)
		return nil, err
	}
	return conn, nil
}
