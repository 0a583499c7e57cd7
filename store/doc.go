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

// Package store holds the three durable collections the service runs on:
// credentials, persistent queries, and settings. Each collection is one
// JSON file, loaded wholesale at startup and rewritten wholesale on every
// mutation behind a single-writer mutex, so a request and a scheduler tick
// racing on the same collection cannot lose an update.
package store
