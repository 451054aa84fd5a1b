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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomoncle/metermon/model"
)

func TestCustomerMapper(t *testing.T) {
	cityID := int64(3)
	c := &model.Customer{
		ID:        7,
		FirstName: "Sara",
		LastName:  "Karimi",
		Email:     "sara@example.com",
		CityID:    &cityID,
		City:      &model.City{ID: 3, Name: "Tabriz"},
	}
	dto := CustomerMapper{}.ToDto(c)
	assert.Equal(t, int64(7), dto.ID)
	assert.Equal(t, "Tabriz", dto.CityName)
	assert.Equal(t, &cityID, dto.CityID)

	back := CustomerMapper{}.ToEntity(dto)
	assert.Nil(t, back.City)
	assert.Equal(t, c.Email, back.Email)
	assert.Equal(t, int64(3), *back.CityID)

	assert.Equal(t, model.CustomerDto{}, CustomerMapper{}.ToDto(nil))
}

func TestCustomerMapperWithoutCity(t *testing.T) {
	dto := CustomerMapper{}.ToDto(&model.Customer{ID: 1, FirstName: "Ali"})
	assert.Nil(t, dto.CityID)
	assert.Empty(t, dto.CityName)
}

func TestToDtos(t *testing.T) {
	cities := []*model.City{{ID: 1, Name: "Tehran"}, {ID: 2, Name: "Shiraz"}}
	got := ToDtos[model.City, model.CityDto](CityMapper{}, cities)
	assert.Equal(t, []model.CityDto{{ID: 1, Name: "Tehran"}, {ID: 2, Name: "Shiraz"}}, got)
	assert.Empty(t, ToDtos[model.City, model.CityDto](CityMapper{}, nil))
}
