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

// Package main is the entry point for the GridLink backend service.
//
// The backend stores database credentials on disk, runs one-off queries
// against any of the supported dialects, and keeps persistent queries
// syncing their results into hosted grids on a refresh interval.
//
// Usage:
//
//	./server
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 9494)
//	GRIDLINK_STORAGE_DIR - directory for the persisted collections
//	GRIDLINK_CONFIG - optional YAML config file
package main

import (
	"gridlink/backend/server"
)

func main() {
	server.Run()
}
