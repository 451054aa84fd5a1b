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

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NullLiteral is the literal that matches a nil value on nullable fields.
const NullLiteral = "null"

// FilterValue is the plain literal a filter compares against. Values coming
// from JSON are decoded once here so comparisons only ever see a string.
type FilterValue struct {
	literal string
}

// FilterValueOf formats v as a filter literal without any unwrapping. Times
// are written in RFC 3339 with nanoseconds; a nil *time.Time is null.
func FilterValueOf(v any) FilterValue {
	switch x := v.(type) {
	case nil:
		return FilterValue{literal: NullLiteral}
	case time.Time:
		return FilterValue{literal: x.Format(time.RFC3339Nano)}
	case *time.Time:
		if x == nil {
			return FilterValue{literal: NullLiteral}
		}
		return FilterValue{literal: x.Format(time.RFC3339Nano)}
	}
	return FilterValue{literal: fmt.Sprint(v)}
}

// Literal returns the decoded literal.
func (v FilterValue) Literal() string { return v.literal }

// IsNull reports whether the literal is the null literal.
func (v FilterValue) IsNull() bool { return strings.EqualFold(v.literal, NullLiteral) }

func (v FilterValue) String() string { return v.literal }

// MarshalJSON writes the literal as a JSON string.
func (v FilterValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.literal)
}

// UnmarshalJSON accepts strings, numbers, booleans, null and composite
// wrappers such as {"valueKind":"String","value":"Ali"}. Composite values are
// reduced to the text after the last ':' with whitespace, closing brackets
// and surrounding quotes trimmed.
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty filter value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.literal = s
	case '{', '[':
		if !json.Valid(data) {
			return fmt.Errorf("invalid composite filter value")
		}
		v.literal = NormalizeLiteral(string(data))
	default:
		// numbers, true/false and null keep their JSON text
		v.literal = string(data)
	}
	return nil
}

// NormalizeLiteral unwraps a type-erased literal by keeping the text after the
// last ':' and trimming whitespace, closing brackets and quote characters.
func NormalizeLiteral(s string) string {
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "}] \t\r\n")
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"`)
}
