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

package service

import (
	"context"
	"strconv"

	"github.com/patrickmn/go-cache"
	"github.com/uptrace/bun"

	"github.com/tomoncle/metermon"
	"github.com/tomoncle/metermon/mapping"
	"github.com/tomoncle/metermon/model"
	"github.com/tomoncle/metermon/processor"
	"github.com/tomoncle/metermon/repository"
)

// CityService serves cities. Single lookups are cached until the city is
// updated or deleted.
type CityService struct {
	*metermon.BaseService[model.City, model.CityDto]
	cache *cache.Cache
}

func NewCityService(db *bun.DB, cfg Config) *CityService {
	repo := repository.NewRepository[model.City](db, repository.WithResource("city"))
	base := metermon.NewService[model.City, model.CityDto](repo, mapping.CityMapper{}, metermon.Options[model.City, model.CityDto]{
		IDOf:      func(d model.CityDto) int64 { return d.ID },
		SetID:     func(c *model.City, id int64) { c.ID = id },
		Processor: processor.New[model.CityDto](cfg.processorOptions()...),
	})
	return &CityService{
		BaseService: base,
		cache:       cache.New(cfg.CityCacheTTL, 2*cfg.CityCacheTTL),
	}
}

func cacheKey(id int64) string { return strconv.FormatInt(id, 10) }

func (s *CityService) Get(ctx context.Context, id int64) (model.CityDto, error) {
	if v, ok := s.cache.Get(cacheKey(id)); ok {
		return v.(model.CityDto), nil
	}
	dto, err := s.BaseService.Get(ctx, id)
	if err != nil {
		return dto, err
	}
	s.cache.SetDefault(cacheKey(id), dto)
	return dto, nil
}

func (s *CityService) Update(ctx context.Context, id int64, dto model.CityDto) (model.CityDto, error) {
	out, err := s.BaseService.Update(ctx, id, dto)
	if err != nil {
		return out, err
	}
	s.cache.Delete(cacheKey(id))
	return out, nil
}

func (s *CityService) Delete(ctx context.Context, id int64) error {
	if err := s.BaseService.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(cacheKey(id))
	return nil
}

// Exists reports whether the city is stored, answering from the cache when
// possible.
func (s *CityService) Exists(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.cache.Get(cacheKey(id)); ok {
		return true, nil
	}
	return s.Repository().Exists(ctx, id)
}
