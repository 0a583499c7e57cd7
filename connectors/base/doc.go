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

/*
Package base defines the contract shared by every dialect connector: the
Connector interface, the normalized Table result, and the error taxonomy.

# Error taxonomy

Every adapter translates driver-native failures into a base.Error before it
crosses the package boundary. Two rules matter:

  - A failure that happens before the remote service answers (DNS lookup,
    refused connection, connect timeout) is a connection error and maps to
    HTTP 500.
  - A failure the remote service itself reports (SQL syntax error, rejected
    storage credentials) is a query error and maps to HTTP 400, carrying the
    remote's diagnostic message verbatim.

The split is deliberately preserved per failure origin; callers switch on
KindOf(err) and never on a driver error type.

# Result shape

Table is identical across dialects. An empty result keeps the historical
{columnnames: [], rows: [[]], nrows: 0, ncols: 0} rendering that grid
consumers expect.
*/
package base
