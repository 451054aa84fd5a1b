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
	"reflect"
	"slices"

	"github.com/tomoncle/metermon/types"
)

type sortKey struct {
	field *field
	desc  bool
}

func compileSortKey(table *fieldTable, sd types.SortDescriptor) (sortKey, error) {
	f, err := table.lookup(sd.Member)
	if err != nil {
		return sortKey{}, err
	}
	if !sd.SortDirection.IsValid() {
		return sortKey{}, &InvalidRequestError{
			Field:  sd.Member,
			Reason: "unknown sort direction " + sd.SortDirection.String(),
		}
	}
	return sortKey{field: f, desc: sd.SortDirection == types.Descending}, nil
}

type keyed[T any] struct {
	rec  T
	vals []any
	oks  []bool
}

// sortRecords orders records in place by keys, primary first. Equal composite
// keys keep their relative order.
func sortRecords[T any](records []T, keys []sortKey) {
	if len(keys) == 0 || len(records) < 2 {
		return
	}
	rows := make([]keyed[T], len(records))
	for i := range records {
		rv := reflect.ValueOf(&records[i]).Elem()
		row := keyed[T]{rec: records[i], vals: make([]any, len(keys)), oks: make([]bool, len(keys))}
		for k, key := range keys {
			row.vals[k], row.oks[k] = key.field.value(rv)
		}
		rows[i] = row
	}
	slices.SortStableFunc(rows, func(a, b keyed[T]) int {
		for k, key := range keys {
			c := compareNullable(a.vals[k], a.oks[k], b.vals[k], b.oks[k])
			if c == 0 {
				continue
			}
			if key.desc {
				return -c
			}
			return c
		}
		return 0
	})
	for i := range rows {
		records[i] = rows[i].rec
	}
}
