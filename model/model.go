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

package model

import (
	"github.com/uptrace/bun"
)

// City is a row of the cities table.
type City struct {
	bun.BaseModel `bun:"table:cities,alias:ci"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id" yaml:"id"`
	Name string `bun:"name,notnull,type:varchar(30)" json:"name" yaml:"name"`
}

// Customer is a row of the customers table. City is loaded through the
// belongs-to relation when requested.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:cu"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id" yaml:"id"`
	FirstName   string `bun:"first_name,notnull" json:"firstName" yaml:"first_name"`
	LastName    string `bun:"last_name,notnull" json:"lastName" yaml:"last_name"`
	Email       string `bun:"email,notnull" json:"email" yaml:"email"`
	PhoneNumber string `bun:"phone_number" json:"phoneNumber" yaml:"phone_number"`
	Address     string `bun:"address" json:"address" yaml:"address"`
	CityID      *int64 `bun:"city_id" json:"cityId" yaml:"city_id"`
	City        *City  `bun:"rel:belongs-to,join:city_id=id" json:"city,omitempty" yaml:"-"`
}

// CityDto is the wire shape of a city.
type CityDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required,notblank,max=30"`
}

// CustomerDto is the wire shape of a customer. CityName is filled from the
// loaded city and ignored on writes.
type CustomerDto struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName" validate:"required,notblank"`
	LastName    string `json:"lastName" validate:"required,notblank"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	CityID      *int64 `json:"cityId"`
	CityName    string `json:"cityName"`
}
