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

// Package scheduler re-executes persistent queries on their refresh
// interval and pushes each result set to the hosted grid API.
//
// Every registered fid owns one timer goroutine. Executions run in their
// own goroutine, gated so at most one per fid is in flight; a tick that
// arrives while the previous execution is still running is skipped rather
// than queued. Failures are logged and the schedule keeps going, so a
// transiently broken database or revoked credential resumes syncing as
// soon as the underlying problem is fixed.
package scheduler
