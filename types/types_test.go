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
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterOperatorJSON(t *testing.T) {
	cases := map[string]FilterOperator{
		`0`:                    Equal,
		`"1"`:                  NotEqual,
		`"greaterthanorequal"`: GreaterThanOrEqual,
		`"Contains"`:           Contains,
		`8`:                    EndsWith,
		`"Between"`:            FilterOperator(IllegalValue),
		`null`:                 Equal,
	}
	for in, want := range cases {
		var op FilterOperator
		require.NoError(t, json.Unmarshal([]byte(in), &op), in)
		assert.Equal(t, want, op, in)
	}

	var op FilterOperator
	assert.Error(t, json.Unmarshal([]byte(`{}`), &op))

	b, err := json.Marshal(StartsWith)
	require.NoError(t, err)
	assert.Equal(t, `"StartsWith"`, string(b))
	assert.False(t, FilterOperator(42).IsValid())
	assert.Equal(t, "FilterOperator(42)", FilterOperator(42).String())
}

func TestSortDirectionJSON(t *testing.T) {
	cases := map[string]SortDirection{
		`0`:            Ascending,
		`1`:            Descending,
		`"asc"`:        Ascending,
		`"Descending"`: Descending,
		`"sideways"`:   SortDirection(IllegalValue),
	}
	for in, want := range cases {
		var d SortDirection
		require.NoError(t, json.Unmarshal([]byte(in), &d), in)
		assert.Equal(t, want, d, in)
	}
	b, err := json.Marshal(Descending)
	require.NoError(t, err)
	assert.Equal(t, `"Descending"`, string(b))
}

func TestFilterValueJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"Ali"`, "Ali"},
		{`"a:b"`, "a:b"},
		{`42`, "42"},
		{`-1.5`, "-1.5"},
		{`true`, "true"},
		{`null`, "null"},
		{`{"valueKind":"String","value":"Ali"}`, "Ali"},
		{`{"ValueKind": 4, "Value": 28 }`, "28"},
		{`{ "value" : " spaced " }`, " spaced "},
	}
	for _, tc := range cases {
		var v FilterValue
		require.NoError(t, json.Unmarshal([]byte(tc.in), &v), tc.in)
		assert.Equal(t, tc.want, v.Literal(), tc.in)
	}

	var v FilterValue
	assert.Error(t, json.Unmarshal([]byte(`{"value":`), &v))
}

func TestFilterValueNull(t *testing.T) {
	assert.True(t, FilterValueOf(nil).IsNull())
	assert.True(t, FilterValueOf("NULL").IsNull())
	assert.False(t, FilterValueOf("nullable").IsNull())
	assert.Equal(t, "12", FilterValueOf(12).Literal())

	b, err := json.Marshal(FilterValueOf(12))
	require.NoError(t, err)
	assert.Equal(t, `"12"`, string(b))
}

func TestFilterValueTime(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 500, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-03-01T12:30:00.0000005+01:00", FilterValueOf(at).Literal())
	assert.Equal(t, "2024-03-01T12:30:00.0000005+01:00", FilterValueOf(&at).Literal())

	var missing *time.Time
	assert.True(t, FilterValueOf(missing).IsNull())
}

func TestPageRequestDecode(t *testing.T) {
	body := `{"page":2,"pageSize":5,"filters":[{"member":"name","operator":"Contains","value":"ar"}],"sorts":[{"member":"id","sortDirection":1}]}`
	var req PageRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 5, req.GetOffset())
	require.Len(t, req.Filters, 1)
	assert.Equal(t, Contains, req.Filters[0].Operator)
	assert.Equal(t, "ar", req.Filters[0].Value.Literal())
	require.Len(t, req.Sorts, 1)
	assert.Equal(t, Descending, req.Sorts[0].SortDirection)

	assert.Equal(t, 0, NewPageRequest(0, 10).GetOffset())
}

func TestMapPagedData(t *testing.T) {
	in := NewPagedData[int](3, 2)
	in.TotalCount = 9
	in.Data = []int{5, 6}
	out := MapPagedData(in, func(i int) string { return fmt.Sprint(i * 2) })
	assert.Equal(t, 3, out.Page)
	assert.Equal(t, 2, out.PageSize)
	assert.Equal(t, 9, out.TotalCount)
	assert.Equal(t, []string{"10", "12"}, out.Data)

	empty := MapPagedData(NewPagedData[int](1, 10), func(i int) int { return i })
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1,"pageSize":10,"totalCount":0,"data":[]}`, string(b))
}

func TestDomainErrors(t *testing.T) {
	nf := fmt.Errorf("load: %w", NotFoundError{Resource: "city", ID: int64(4)})
	assert.True(t, IsNotFound(nf))
	assert.EqualError(t, nf, "load: city 4 not found")
	assert.False(t, IsConflict(nf))

	ve := ValidationError{Fields: []FieldError{{Field: "name", Tag: "required", Message: "name is required"}}}
	assert.True(t, IsValidation(ve))
	assert.Equal(t, "validation failed: name is required", ve.Error())

	ce := ConflictError{Resource: "customer", Msg: "duplicate email"}
	assert.True(t, IsConflict(fmt.Errorf("save: %w", ce)))
	assert.Equal(t, "customer conflict: duplicate email", ce.Error())
}
