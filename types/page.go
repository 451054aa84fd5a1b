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

// FilterDescriptor compares one record field against a literal.
type FilterDescriptor struct {
	Member   string         `json:"member"`
	Operator FilterOperator `json:"operator"`
	Value    FilterValue    `json:"value"`
}

// NewFilter constructs a filter descriptor from a Go value.
func NewFilter(member string, op FilterOperator, value any) FilterDescriptor {
	return FilterDescriptor{Member: member, Operator: op, Value: FilterValueOf(value)}
}

// SortDescriptor orders records by one field.
type SortDescriptor struct {
	Member        string        `json:"member"`
	SortDirection SortDirection `json:"sortDirection"`
}

// NewSort constructs a sort descriptor.
func NewSort(member string, dir SortDirection) SortDescriptor {
	return SortDescriptor{Member: member, SortDirection: dir}
}

// PageRequest describes pagination, filters (ANDed) and ordering. It is the
// DataSourceRequest body of the list endpoints.
type PageRequest struct {
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Filters  []FilterDescriptor `json:"filters"`
	Sorts    []SortDescriptor   `json:"sorts"`
}

// GetOffset returns the number of records skipped before the page.
func (p *PageRequest) GetOffset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// WithFilter appends a filter and returns the request.
func (p *PageRequest) WithFilter(member string, op FilterOperator, value any) *PageRequest {
	p.Filters = append(p.Filters, NewFilter(member, op, value))
	return p
}

// WithSort appends a sort key and returns the request.
func (p *PageRequest) WithSort(member string, dir SortDirection) *PageRequest {
	p.Sorts = append(p.Sorts, NewSort(member, dir))
	return p
}

// NewPageRequest constructs a PageRequest without filters or ordering.
func NewPageRequest(page int, pageSize int) *PageRequest {
	return &PageRequest{
		Page:     page,
		PageSize: pageSize,
		Filters:  make([]FilterDescriptor, 0),
		Sorts:    make([]SortDescriptor, 0),
	}
}

// PagedData holds one page of records along with pagination metadata.
// TotalCount counts the filtered records before pagination.
type PagedData[T any] struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Data       []T `json:"data"`
}

// NewPagedData constructs an empty page container.
func NewPagedData[T any](page int, pageSize int) *PagedData[T] {
	return &PagedData[T]{Page: page, PageSize: pageSize, Data: make([]T, 0)}
}

// MapPagedData converts the records of a page, keeping its metadata.
func MapPagedData[T any, R any](p *PagedData[T], fn func(T) R) *PagedData[R] {
	out := NewPagedData[R](p.Page, p.PageSize)
	out.TotalCount = p.TotalCount
	for _, item := range p.Data {
		out.Data = append(out.Data, fn(item))
	}
	return out
}
