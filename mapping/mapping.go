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

package mapping

import (
	"github.com/tomoncle/metermon/model"
)

// Mapper converts between an entity and its DTO in both directions.
type Mapper[E any, D any] interface {
	ToDto(entity *E) D
	ToEntity(dto D) *E
}

// ToDtos maps a slice of entities.
func ToDtos[E any, D any](m Mapper[E, D], entities []*E) []D {
	out := make([]D, 0, len(entities))
	for _, e := range entities {
		out = append(out, m.ToDto(e))
	}
	return out
}

type CityMapper struct{}

func (CityMapper) ToDto(c *model.City) model.CityDto {
	if c == nil {
		return model.CityDto{}
	}
	return model.CityDto{ID: c.ID, Name: c.Name}
}

func (CityMapper) ToEntity(d model.CityDto) *model.City {
	return &model.City{ID: d.ID, Name: d.Name}
}

type CustomerMapper struct{}

func (CustomerMapper) ToDto(c *model.Customer) model.CustomerDto {
	if c == nil {
		return model.CustomerDto{}
	}
	dto := model.CustomerDto{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		CityID:      c.CityID,
	}
	// A left join on a NULL city_id may still allocate an empty City.
	if c.City != nil && c.City.ID != 0 {
		dto.CityName = c.City.Name
		if dto.CityID == nil {
			id := c.City.ID
			dto.CityID = &id
		}
	}
	return dto
}

// ToEntity ignores CityName; the relation is resolved by the service.
func (CustomerMapper) ToEntity(d model.CustomerDto) *model.Customer {
	return &model.Customer{
		ID:          d.ID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Address:     d.Address,
		CityID:      d.CityID,
	}
}

var (
	_ Mapper[model.City, model.CityDto]         = CityMapper{}
	_ Mapper[model.Customer, model.CustomerDto] = CustomerMapper{}
)
