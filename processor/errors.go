/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package processor

import (
	"errors"
	"fmt"

	"github.com/tomoncle/metermon/types"
)

// FieldNotFoundError reports a filter or sort member that does not resolve to
// a field of the record type.
type FieldNotFoundError struct {
	Type   string
	Member string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found on %s", e.Member, e.Type)
}

// UnsupportedOperatorError reports a filter operator with no comparison.
type UnsupportedOperatorError struct {
	Member   string
	Operator types.FilterOperator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported filter operator %s on %q", e.Operator, e.Member)
}

// InvalidRequestError reports a malformed page request or filter literal.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// IsFieldNotFound reports whether err is or wraps a *FieldNotFoundError.
func IsFieldNotFound(err error) bool {
	var target *FieldNotFoundError
	return errors.As(err, &target)
}

// IsUnsupportedOperator reports whether err is or wraps an
// *UnsupportedOperatorError.
func IsUnsupportedOperator(err error) bool {
	var target *UnsupportedOperatorError
	return errors.As(err, &target)
}

// IsInvalidRequest reports whether err is or wraps an *InvalidRequestError.
func IsInvalidRequest(err error) bool {
	var target *InvalidRequestError
	return errors.As(err, &target)
}

// IsRequestError reports whether err was caused by the request itself rather
// than by the processor.
func IsRequestError(err error) bool {
	return IsFieldNotFound(err) || IsUnsupportedOperator(err) || IsInvalidRequest(err)
}
