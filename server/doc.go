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

// Package server wires the stores, the connector registry, the grid client
// and the scheduler behind the HTTP surface.
//
// Every failure body has the shape {"error": {"message": "..."}} and the
// status code follows the error's taxonomy kind: validation, auth and query
// rejections are 400, unknown resources 404, duplicate credentials 409, and
// connection or unclassified failures 500. Panics anywhere below the router
// are recovered and answered with a fixed generic message; the process never
// dies on a request.
package server
