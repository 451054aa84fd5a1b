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
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomoncle/metermon/types"
)

// timeLayouts are tried in order when a filter targets a time.Time field.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseLiteral converts a filter literal to the boxed representation of the
// field category so it can be compared without further parsing.
func parseLiteral(f *field, member string, lit string) (any, error) {
	s := strings.TrimSpace(lit)
	var (
		v   any
		err error
	)
	switch f.cat {
	case catString, catOther:
		return lit, nil
	case catInt:
		v, err = strconv.ParseInt(s, 10, 64)
	case catUint:
		v, err = strconv.ParseUint(s, 10, 64)
	case catFloat:
		// float32 fields widen exactly, so the literal is rounded the same way
		v, err = strconv.ParseFloat(s, f.base.Bits())
	case catBool:
		v, err = strconv.ParseBool(s)
	case catTime:
		for _, layout := range timeLayouts {
			var t time.Time
			if t, err = time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}
	if err != nil {
		return nil, &InvalidRequestError{
			Field:  member,
			Reason: fmt.Sprintf("value %q is not a valid %s", lit, f.base),
		}
	}
	return v, nil
}

// compareValues orders two boxed values. Values of different kinds only
// meet through interface fields; they compare numerically when both read as
// numbers and as text otherwise.
func compareValues(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case uint64:
		if y, ok := b.(uint64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	if fa, ok := numeric(a); ok {
		if fb, ok := numeric(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return strings.Compare(stringForm(a), stringForm(b))
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// compareNullable orders values where a nil value sorts first.
func compareNullable(a any, aok bool, b any, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	default:
		return compareValues(a, b)
	}
}

// stringForm renders a boxed value for the string operators.
func stringForm(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// predicate is a compiled filter descriptor.
type predicate struct {
	field *field
	op    types.FilterOperator
	null  bool
	raw   string
	want  any
}

func compilePredicate(table *fieldTable, fd types.FilterDescriptor) (*predicate, error) {
	f, err := table.lookup(fd.Member)
	if err != nil {
		return nil, err
	}
	if !fd.Operator.IsValid() {
		return nil, &UnsupportedOperatorError{Member: fd.Member, Operator: fd.Operator}
	}
	p := &predicate{field: f, op: fd.Operator, raw: fd.Value.Literal()}
	switch fd.Operator {
	case types.Contains, types.StartsWith, types.EndsWith:
		return p, nil
	}
	// "null" is an ordinary word for plain string fields
	if fd.Value.IsNull() && (f.nullable || f.cat != catString) {
		p.null = true
		return p, nil
	}
	if p.want, err = parseLiteral(f, fd.Member, p.raw); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *predicate) match(v any, ok bool) bool {
	if !ok || p.null {
		switch p.op {
		case types.Equal:
			return !ok && p.null
		case types.NotEqual:
			return ok || !p.null
		default:
			return false
		}
	}
	switch p.op {
	case types.Contains:
		return strings.Contains(stringForm(v), p.raw)
	case types.StartsWith:
		return strings.HasPrefix(stringForm(v), p.raw)
	case types.EndsWith:
		return strings.HasSuffix(stringForm(v), p.raw)
	}
	c := compareValues(v, p.want)
	switch p.op {
	case types.Equal:
		return c == 0
	case types.NotEqual:
		return c != 0
	case types.GreaterThan:
		return c > 0
	case types.GreaterThanOrEqual:
		return c >= 0
	case types.LessThan:
		return c < 0
	case types.LessThanOrEqual:
		return c <= 0
	}
	return false
}
