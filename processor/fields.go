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
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// category is the comparable representation a field value is boxed to.
type category int

const (
	catString category = iota
	catInt
	catUint
	catFloat
	catBool
	catTime
	catOther
)

var timeType = reflect.TypeOf(time.Time{})

func categorize(t reflect.Type) category {
	if t == timeType {
		return catTime
	}
	switch t.Kind() {
	case reflect.String:
		return catString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return catInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return catUint
	case reflect.Float32, reflect.Float64:
		return catFloat
	case reflect.Bool:
		return catBool
	default:
		return catOther
	}
}

// field is a resolved accessor for one struct field.
type field struct {
	name     string
	index    []int
	base     reflect.Type // field type with pointers removed
	nullable bool
	cat      category
}

// value returns the boxed field value of rec, or ok=false when it is nil.
func (f *field) value(rec reflect.Value) (v any, ok bool) {
	for rec.Kind() == reflect.Pointer {
		if rec.IsNil() {
			return nil, false
		}
		rec = rec.Elem()
	}
	if !rec.IsValid() {
		return nil, false
	}
	fv := rec.FieldByIndex(f.index)
	for fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, false
		}
		fv = fv.Elem()
	}
	cat := f.cat
	if f.base.Kind() == reflect.Interface {
		// interface fields compare by the kind they hold
		cat = categorize(fv.Type())
	}
	return box(fv, cat), true
}

func box(fv reflect.Value, cat category) any {
	switch cat {
	case catString:
		return fv.String()
	case catInt:
		return fv.Int()
	case catUint:
		return fv.Uint()
	case catFloat:
		return fv.Float()
	case catBool:
		return fv.Bool()
	case catTime:
		return fv.Interface().(time.Time)
	default:
		return fmt.Sprint(fv.Interface())
	}
}

// fieldTable maps lower-cased field and json names of one record type to
// their accessors.
type fieldTable struct {
	typeName string
	byName   map[string]*field
}

func (t *fieldTable) lookup(member string) (*field, error) {
	f, ok := t.byName[strings.ToLower(strings.TrimSpace(member))]
	if !ok {
		return nil, &FieldNotFoundError{Type: t.typeName, Member: member}
	}
	return f, nil
}

var tables sync.Map // reflect.Type -> *fieldTable

func tableFor[T any]() (*fieldTable, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := tables.Load(rt); ok {
		return v.(*fieldTable), nil
	}
	st := rt
	for st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, fmt.Errorf("processor: record type %s is not a struct", rt)
	}

	t := &fieldTable{typeName: st.Name(), byName: make(map[string]*field)}
	var fields []*field
	var tags []string
	for _, sf := range reflect.VisibleFields(st) {
		if sf.Anonymous || !sf.IsExported() || throughPointer(st, sf.Index) {
			continue
		}
		base := sf.Type
		nullable := false
		for base.Kind() == reflect.Pointer {
			base = base.Elem()
			nullable = true
		}
		if base.Kind() == reflect.Interface {
			nullable = true
		}
		f := &field{
			name:     sf.Name,
			index:    sf.Index,
			base:     base,
			nullable: nullable,
			cat:      categorize(base),
		}
		fields = append(fields, f)
		tags = append(tags, jsonName(sf))
	}
	// Go names win over json names when both spellings collide.
	for _, f := range fields {
		t.byName[strings.ToLower(f.name)] = f
	}
	for i, f := range fields {
		if tag := strings.ToLower(tags[i]); tag != "" {
			if _, taken := t.byName[tag]; !taken {
				t.byName[tag] = f
			}
		}
	}

	v, _ := tables.LoadOrStore(rt, t)
	return v.(*fieldTable), nil
}

func jsonName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// throughPointer reports whether reaching the field requires dereferencing an
// embedded pointer, which may be nil.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		ft := t.Field(i).Type
		if ft.Kind() == reflect.Pointer {
			return true
		}
		t = ft
	}
	return false
}
