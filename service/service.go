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
	"runtime"
	"time"

	"github.com/uptrace/bun"

	"github.com/tomoncle/metermon/processor"
	"github.com/tomoncle/metermon/utils"
)

var logger = utils.NewLogger("SERVICE")

// Config tunes the services.
type Config struct {
	Workers           int
	ParallelThreshold int
	CityCacheTTL      time.Duration
}

// DefaultConfig returns the processor defaults and a five minute city cache.
func DefaultConfig() Config {
	return Config{
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: processor.DefaultParallelThreshold,
		CityCacheTTL:      5 * time.Minute,
	}
}

func (c Config) processorOptions() []processor.Option {
	return []processor.Option{
		processor.WithWorkers(c.Workers),
		processor.WithParallelThreshold(c.ParallelThreshold),
	}
}

// Services groups the services served by the API.
type Services struct {
	Customers *CustomerService
	Cities    *CityService
}

// New builds every service on db.
func New(db *bun.DB, cfg Config) *Services {
	cities := NewCityService(db, cfg)
	return &Services{
		Customers: NewCustomerService(db, cities, cfg),
		Cities:    cities,
	}
}
