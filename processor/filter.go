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
	"reflect"

	"golang.org/x/sync/errgroup"
)

// filter returns the records for which every predicate holds, in input order.
// The result never aliases records.
func (p *Processor[T]) filter(ctx context.Context, records []T, preds []*predicate) ([]T, error) {
	if len(preds) == 0 {
		return append(make([]T, 0, len(records)), records...), nil
	}
	workers := p.opts.Workers
	if workers <= 1 || len(records) < p.opts.ParallelThreshold {
		return keep(records, preds), nil
	}

	chunk := (len(records) + workers - 1) / workers
	parts := make([][]T, (len(records)+chunk-1)/chunk)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range parts {
		lo := i * chunk
		hi := min(lo+chunk, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[i] = keep(records[lo:hi], preds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, part := range parts {
		n += len(part)
	}
	out := make([]T, 0, n)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out, nil
}

func keep[T any](records []T, preds []*predicate) []T {
	out := make([]T, 0, len(records))
	for i := range records {
		rv := reflect.ValueOf(&records[i]).Elem()
		if matchAll(rv, preds) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchAll(rv reflect.Value, preds []*predicate) bool {
	for _, pr := range preds {
		if !pr.match(pr.field.value(rv)) {
			return false
		}
	}
	return true
}
