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
	"strconv"
	"strings"
)

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// FilterOperator is the comparison applied by a filter descriptor.
type FilterOperator int

const (
	Equal FilterOperator = iota
	NotEqual
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	Contains
	StartsWith
	EndsWith
)

var filterOperatorNames = [...]string{
	"Equal",
	"NotEqual",
	"GreaterThan",
	"GreaterThanOrEqual",
	"LessThan",
	"LessThanOrEqual",
	"Contains",
	"StartsWith",
	"EndsWith",
}

var filterOperatorDescs = [...]string{
	"equal to",
	"not equal to",
	"greater than",
	"greater than or equal to",
	"less than",
	"less than or equal to",
	"contains",
	"starts with",
	"ends with",
}

var _ BaseEnum = FilterOperator(0)

func (o FilterOperator) IsValid() bool { return o >= Equal && o <= EndsWith }

func (o FilterOperator) Number() int { return int(o) }

func (o FilterOperator) Name() string {
	if !o.IsValid() {
		return IllegalName
	}
	return filterOperatorNames[o]
}

func (o FilterOperator) Desc() string {
	if !o.IsValid() {
		return IllegalDesc
	}
	return filterOperatorDescs[o]
}

func (o FilterOperator) String() string {
	if !o.IsValid() {
		return "FilterOperator(" + strconv.Itoa(int(o)) + ")"
	}
	return o.Name()
}

// ParseFilterOperator resolves an operator name case-insensitively. Unknown
// names yield an invalid operator rather than an error so the rejection
// happens where the operator is evaluated.
func ParseFilterOperator(s string) FilterOperator {
	for i, name := range filterOperatorNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return FilterOperator(i)
		}
	}
	return FilterOperator(IllegalValue)
}

// MarshalJSON writes the operator name.
func (o FilterOperator) MarshalJSON() ([]byte, error) {
	if !o.IsValid() {
		return []byte(strconv.Itoa(int(o))), nil
	}
	return json.Marshal(o.Name())
}

// UnmarshalJSON accepts either the numeric value or the operator name.
func (o *FilterOperator) UnmarshalJSON(data []byte) error {
	n, name, err := decodeEnum(data)
	if err != nil {
		return err
	}
	if name != "" {
		*o = ParseFilterOperator(name)
		return nil
	}
	*o = FilterOperator(n)
	return nil
}

// SortDirection is the ordering applied by a sort descriptor.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

var _ BaseEnum = SortDirection(0)

func (d SortDirection) IsValid() bool { return d == Ascending || d == Descending }

func (d SortDirection) Number() int { return int(d) }

func (d SortDirection) Name() string {
	switch d {
	case Ascending:
		return "Ascending"
	case Descending:
		return "Descending"
	default:
		return IllegalName
	}
}

func (d SortDirection) Desc() string {
	switch d {
	case Ascending:
		return "smallest first"
	case Descending:
		return "largest first"
	default:
		return IllegalDesc
	}
}

func (d SortDirection) String() string { return d.Name() }

// ParseSortDirection resolves "asc"/"ascending"/"desc"/"descending".
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending
	case "desc", "descending":
		return Descending
	default:
		return SortDirection(IllegalValue)
	}
}

func (d SortDirection) MarshalJSON() ([]byte, error) {
	if !d.IsValid() {
		return []byte(strconv.Itoa(int(d))), nil
	}
	return json.Marshal(d.Name())
}

func (d *SortDirection) UnmarshalJSON(data []byte) error {
	n, name, err := decodeEnum(data)
	if err != nil {
		return err
	}
	if name != "" {
		*d = ParseSortDirection(name)
		return nil
	}
	*d = SortDirection(n)
	return nil
}

// decodeEnum returns either a number or a name from a JSON enum value.
func decodeEnum(data []byte) (int, string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return 0, "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, "", err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, "", nil
		}
		if strings.TrimSpace(s) == "" {
			return IllegalValue, "", nil
		}
		return 0, s, nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, "", err
	}
	return n, "", nil
}
