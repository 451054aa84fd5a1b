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
	"context"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomoncle/metermon/types"
	"github.com/tomoncle/metermon/utils"
)

// DefaultParallelThreshold is the input size from which filtering fans out.
const DefaultParallelThreshold = 1024

var logger = utils.NewLogger("PROCESSOR")

// Options tunes the filter fan-out.
type Options struct {
	// Workers bounds the number of concurrent filter partitions. Values <= 1
	// filter sequentially.
	Workers int
	// ParallelThreshold is the minimum input length filtered in parallel.
	ParallelThreshold int
}

// Option mutates Options.
type Option func(*Options)

// WithWorkers sets Options.Workers.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithParallelThreshold sets Options.ParallelThreshold.
func WithParallelThreshold(n int) Option {
	return func(o *Options) { o.ParallelThreshold = n }
}

// DefaultOptions returns one worker per usable CPU.
func DefaultOptions() Options {
	return Options{
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// Processor filters, sorts and paginates records of type T, which must be a
// struct or a pointer to a struct. A Processor is safe for concurrent use.
type Processor[T any] struct {
	opts Options
}

// New returns a Processor configured by opts on top of DefaultOptions.
func New[T any](opts ...Option) *Processor[T] {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.ParallelThreshold < 1 {
		o.ParallelThreshold = 1
	}
	return &Processor[T]{opts: o}
}

// Options returns the effective options.
func (p *Processor[T]) Options() Options { return p.opts }

// ProcessData applies req to records: filter, count, sort, then paginate. The
// records slice is never modified. Any invalid descriptor aborts the request
// before work starts.
func (p *Processor[T]) ProcessData(ctx context.Context, records []T, req *types.PageRequest) (*types.PagedData[T], error) {
	if req == nil {
		return nil, &InvalidRequestError{Reason: "missing request"}
	}
	if req.Page <= 0 {
		return nil, &InvalidRequestError{Field: "page", Reason: "must be positive"}
	}
	if req.PageSize <= 0 {
		return nil, &InvalidRequestError{Field: "pageSize", Reason: "must be positive"}
	}

	table, err := tableFor[T]()
	if err != nil {
		return nil, err
	}
	preds := make([]*predicate, 0, len(req.Filters))
	for _, fd := range req.Filters {
		pr, err := compilePredicate(table, fd)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pr)
	}
	keys := make([]sortKey, 0, len(req.Sorts))
	for _, sd := range req.Sorts {
		key, err := compileSortKey(table, sd)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	filtered, err := p.filter(ctx, records, preds)
	if err != nil {
		return nil, err
	}
	sortRecords(filtered, keys)

	out := types.NewPagedData[T](req.Page, req.PageSize)
	out.TotalCount = len(filtered)
	out.Data = paginate(filtered, req.Page, req.PageSize)

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.WithFields(logrus.Fields{
			"type":     table.typeName,
			"input":    len(records),
			"filtered": out.TotalCount,
			"returned": len(out.Data),
			"elapsed":  time.Since(start),
		}).Debug("processed page request")
	}
	return out, nil
}

// ProcessData runs req against records with default options.
func ProcessData[T any](ctx context.Context, records []T, req *types.PageRequest) (*types.PagedData[T], error) {
	return New[T]().ProcessData(ctx, records, req)
}
