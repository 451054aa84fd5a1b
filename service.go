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

package metermon

import (
	"context"
	"strconv"

	"github.com/tomoncle/metermon/database"
	"github.com/tomoncle/metermon/mapping"
	"github.com/tomoncle/metermon/metrics"
	"github.com/tomoncle/metermon/processor"
	"github.com/tomoncle/metermon/repository"
	"github.com/tomoncle/metermon/types"
	"github.com/tomoncle/metermon/utils"
	"github.com/tomoncle/metermon/validation"
)

var logger = utils.NewLogger("SERVICE")

type Service[E any, D any] interface {
	// Get returns a single record by its identifier.
	Get(ctx context.Context, id int64) (D, error)

	// All returns every record in id order.
	All(ctx context.Context) ([]D, error)

	// Page loads every record, maps it and filters, sorts and paginates the
	// result in memory.
	Page(ctx context.Context, req *types.PageRequest) (*types.PagedData[D], error)

	// Create validates and inserts a record.
	Create(ctx context.Context, dto D) (D, error)

	// Update validates and replaces the record with the given identifier.
	Update(ctx context.Context, id int64, dto D) (D, error)

	// Delete removes a record by its identifier.
	Delete(ctx context.Context, id int64) error

	// Repository returns the underlying entity repository.
	Repository() repository.Repository[E]
}

// PrepareFunc adjusts an entity before it is written. existing is nil on
// create and holds the stored row on update.
type PrepareFunc[E any] func(ctx context.Context, existing *E, entity *E) error

// Options customizes a BaseService.
type Options[E any, D any] struct {
	// IDOf extracts the identifier carried by a DTO.
	IDOf func(D) int64
	// SetID assigns the identifier of an entity before update.
	SetID func(*E, int64)
	// Prepare runs before every create and update.
	Prepare PrepareFunc[E]
	// Processor shapes Page results; processor defaults are used when nil.
	Processor *processor.Processor[D]
}

// BaseService implements Service on top of a generic repository, a mapper
// and the in-memory page processor.
type BaseService[E any, D any] struct {
	repo   repository.Repository[E]
	mapper mapping.Mapper[E, D]
	opts   Options[E, D]
}

// NewService returns a BaseService for the repository and mapper.
func NewService[E any, D any](repo repository.Repository[E], mapper mapping.Mapper[E, D], opts Options[E, D]) *BaseService[E, D] {
	if opts.Processor == nil {
		opts.Processor = processor.New[D]()
	}
	return &BaseService[E, D]{repo: repo, mapper: mapper, opts: opts}
}

func (s *BaseService[E, D]) Repository() repository.Repository[E] { return s.repo }

func (s *BaseService[E, D]) translate(err error) error {
	return database.TranslateError(s.repo.Resource(), err)
}

func (s *BaseService[E, D]) Get(ctx context.Context, id int64) (D, error) {
	var zero D
	entity, err := s.repo.GetOne(ctx, id)
	if err != nil {
		return zero, s.translate(err)
	}
	return s.mapper.ToDto(entity), nil
}

func (s *BaseService[E, D]) All(ctx context.Context) ([]D, error) {
	entities, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.translate(err)
	}
	return mapping.ToDtos(s.mapper, entities), nil
}

func (s *BaseService[E, D]) Page(ctx context.Context, req *types.PageRequest) (*types.PagedData[D], error) {
	resource := s.repo.Resource()
	dtos, err := s.All(ctx)
	if err != nil {
		metrics.PageRequests.WithLabelValues(resource, "error").Inc()
		return nil, err
	}
	metrics.PageRecords.WithLabelValues(resource).Observe(float64(len(dtos)))

	page, err := s.opts.Processor.ProcessData(ctx, dtos, req)
	if err != nil {
		result := "error"
		if processor.IsRequestError(err) {
			result = "rejected"
			logger.WithField("resource", resource).Warnf("page request rejected: %v", err)
		}
		metrics.PageRequests.WithLabelValues(resource, result).Inc()
		return nil, err
	}
	metrics.PageRequests.WithLabelValues(resource, "ok").Inc()
	return page, nil
}

func (s *BaseService[E, D]) Create(ctx context.Context, dto D) (D, error) {
	var zero D
	if err := validation.Struct(dto); err != nil {
		return zero, err
	}
	entity := s.mapper.ToEntity(dto)
	if s.opts.Prepare != nil {
		if err := s.opts.Prepare(ctx, nil, entity); err != nil {
			return zero, err
		}
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return zero, s.translate(err)
	}
	return s.reload(ctx, entity)
}

func (s *BaseService[E, D]) Update(ctx context.Context, id int64, dto D) (D, error) {
	var zero D
	if s.opts.IDOf != nil && s.opts.IDOf(dto) != id {
		return zero, types.ValidationError{
			Field: "id",
			Msg:   "path id " + strconv.FormatInt(id, 10) + " does not match body id " + strconv.FormatInt(s.opts.IDOf(dto), 10),
		}
	}
	if err := validation.Struct(dto); err != nil {
		return zero, err
	}
	existing, err := s.repo.GetOne(ctx, id)
	if err != nil {
		return zero, s.translate(err)
	}
	entity := s.mapper.ToEntity(dto)
	if s.opts.SetID != nil {
		s.opts.SetID(entity, id)
	}
	if s.opts.Prepare != nil {
		if err := s.opts.Prepare(ctx, existing, entity); err != nil {
			return zero, err
		}
	}
	if err := s.repo.Update(ctx, entity); err != nil {
		return zero, s.translate(err)
	}
	return s.reload(ctx, entity)
}

func (s *BaseService[E, D]) Delete(ctx context.Context, id int64) error {
	return s.translate(s.repo.Delete(ctx, id))
}

// reload reads the written row back so relations are populated.
func (s *BaseService[E, D]) reload(ctx context.Context, entity *E) (D, error) {
	if s.opts.IDOf == nil {
		return s.mapper.ToDto(entity), nil
	}
	id := s.opts.IDOf(s.mapper.ToDto(entity))
	fresh, err := s.repo.GetOne(ctx, id)
	if err != nil {
		logger.WithField("resource", s.repo.Resource()).WithField("id", id).
			Warnf("read back after write failed, returning the written row: %v", err)
		return s.mapper.ToDto(entity), nil
	}
	return s.mapper.ToDto(fresh), nil
}
