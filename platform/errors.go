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


package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound indicates the referenced job does not exist server-side.
	ErrJobNotFound = errors.New("job not found")

	// ErrUnauthorized indicates the request was rejected for missing or
	// invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// TransportError indicates the call never reached the server or no response
// was received. Operator-initiated calls surface it; background polls skip
// it silently. It is never retried automatically.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure in %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusError indicates the server responded with a non-success status code.
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.Code)
}
