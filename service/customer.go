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

	"github.com/uptrace/bun"

	"github.com/tomoncle/metermon"
	"github.com/tomoncle/metermon/mapping"
	"github.com/tomoncle/metermon/model"
	"github.com/tomoncle/metermon/processor"
	"github.com/tomoncle/metermon/repository"
)

// CustomerService serves customers with their city loaded.
type CustomerService struct {
	*metermon.BaseService[model.Customer, model.CustomerDto]
	cities *CityService
}

func NewCustomerService(db *bun.DB, cities *CityService, cfg Config) *CustomerService {
	s := &CustomerService{cities: cities}
	repo := repository.NewRepository[model.Customer](db,
		repository.WithResource("customer"),
		repository.WithRelations("City"),
	)
	s.BaseService = metermon.NewService[model.Customer, model.CustomerDto](repo, mapping.CustomerMapper{}, metermon.Options[model.Customer, model.CustomerDto]{
		IDOf:      func(d model.CustomerDto) int64 { return d.ID },
		SetID:     func(c *model.Customer, id int64) { c.ID = id },
		Prepare:   s.resolveCity,
		Processor: processor.New[model.CustomerDto](cfg.processorOptions()...),
	})
	return s
}

// resolveCity drops a city reference that does not exist. On update the
// stored city is kept instead; a nil reference always clears the city.
func (s *CustomerService) resolveCity(ctx context.Context, existing *model.Customer, entity *model.Customer) error {
	if entity.CityID == nil {
		return nil
	}
	ok, err := s.cities.Exists(ctx, *entity.CityID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	logger.WithField("cityId", *entity.CityID).Debug("unknown city ignored")
	if existing != nil {
		entity.CityID = existing.CityID
	} else {
		entity.CityID = nil
	}
	return nil
}
