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

// Package seed loads YAML fixtures of cities and customers and upserts them
// by id.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"gopkg.in/yaml.v3"

	"github.com/tomoncle/metermon/model"
	"github.com/tomoncle/metermon/repository"
	"github.com/tomoncle/metermon/utils"
)

var logger = utils.NewLogger("SEED")

var (
	cityFields     = []string{"name"}
	customerFields = []string{"first_name", "last_name", "email", "phone_number", "address", "city_id"}
)

// Fixtures is the content of a seed file.
type Fixtures struct {
	Cities    []*model.City     `yaml:"cities"`
	Customers []*model.Customer `yaml:"customers"`
}

// Load reads fixtures from a YAML file.
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixtures and checks that every row carries an id.
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, c := range f.Cities {
		if c == nil || c.ID <= 0 {
			return nil, fmt.Errorf("cities[%d]: id is required", i)
		}
	}
	for i, c := range f.Customers {
		if c == nil || c.ID <= 0 {
			return nil, fmt.Errorf("customers[%d]: id is required", i)
		}
	}
	return &f, nil
}

// Apply upserts the fixtures in one transaction, cities first.
func Apply(ctx context.Context, db *bun.DB, f *Fixtures) error {
	cities := repository.NewRepository[model.City](db)
	customers := repository.NewRepository[model.Customer](db)

	err := cities.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := cities.UpsertWithTx(ctx, tx, cityFields, nil, f.Cities...); err != nil {
			return fmt.Errorf("seed cities: %w", err)
		}
		if err := customers.UpsertWithTx(ctx, tx, customerFields, nil, f.Customers...); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
		if db.Dialect().Name() == dialect.PG {
			return resetSequences(ctx, tx, "cities", "customers")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.WithField("cities", len(f.Cities)).WithField("customers", len(f.Customers)).Info("seed applied")
	return nil
}

// resetSequences moves serial sequences past explicitly inserted ids.
func resetSequences(ctx context.Context, tx bun.Tx, tables ...string) error {
	for _, table := range tables {
		_, err := tx.ExecContext(ctx,
			"SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM ?), 0) + 1, false)",
			table, bun.Ident(table))
		if err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}
