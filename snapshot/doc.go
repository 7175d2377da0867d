// Copyright 2026 Nyx Solutions
//
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


// Package snapshot provides a local cache of the last authoritative review
// queue page per logical query.
//
// The cache is strictly best-effort: it lets the CLI render the last-known
// queue when the backend is unreachable and warm-starts the watch view. It is
// never consulted to decide job state; the next authoritative read always
// wins.
//
// The badger subpackage provides the persistent implementation. Constructors
// return the Store interface so consumers stay decoupled from the backend.
// Values are persisted in the backend API's JSON wire form.
package snapshot
