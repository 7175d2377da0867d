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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidFilter indicates a Filter failed validation.
	ErrInvalidFilter = errors.New("invalid queue filter")

	// ErrInvalidPage indicates the page number is below 1.
	ErrInvalidPage = errors.New("page must be at least 1")

	// ErrInvalidPageSize indicates the page size is not positive.
	ErrInvalidPageSize = errors.New("page size must be greater than 0")

	// ErrEmptyJobID indicates a job reference without an identifier.
	ErrEmptyJobID = errors.New("job id cannot be empty")

	// ErrInvalidJob indicates an IngestionJob failed validation.
	ErrInvalidJob = errors.New("invalid ingestion job")
)
