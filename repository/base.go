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

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/metermon/types"
)

type baseRepositoryImpl[T any] struct {
	db        *bun.DB
	relations []string
	resource  string
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB, opts ...Option) Repository[T] {
	o := options{resource: strings.ToLower(reflect.TypeFor[T]().Name())}
	for _, opt := range opts {
		opt(&o)
	}
	return &baseRepositoryImpl[T]{db: db, relations: o.relations, resource: o.resource}
}

func (r *baseRepositoryImpl[T]) Resource() string { return r.resource }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return r.db.RunInTx(ctx, nil, fn)
}

func (r *baseRepositoryImpl[T]) ValsToSlice(entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}

func (r *baseRepositoryImpl[T]) withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	for _, rel := range r.relations {
		q = q.Relation(rel)
	}
	return q
}

func (r *baseRepositoryImpl[T]) notFound(id any, err error) error {
	return types.NotFoundError{Resource: r.resource, ID: id, Err: err}
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.withRelations(r.db.NewSelect().Model(&entity)).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.notFound(id, err)
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.withRelations(r.db.NewSelect().Model(&entities)).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, query string, args ...any) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.withRelations(r.db.NewSelect().Model(&entities)).
		Where(query, args...).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, id any) (bool, error) {
	return r.db.NewSelect().Model((*T)(nil)).Where("?TableAlias.id = ?", id).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	entities := r.ValsToSlice(entity...)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, r.db, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	res, err := r.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return r.notFound(id, nil)
	}
	return nil
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx bun.Tx, entity ...*T) error {
	entities := r.ValsToSlice(entity...)
	_, err := tx.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) UpsertWithTx(ctx context.Context, tx bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, tx, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) multipleUpsert(ctx context.Context, db bun.IDB, fields []string, duplicateKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entity) == 0 {
		return nil
	}
	entities := r.ValsToSlice(entity...)

	switch {
	case r.db.HasFeature(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, db.NewInsert(), fields, duplicateKeys, entities)
	case r.db.HasFeature(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, db.NewInsert(), fields, entities)
	default:
		return r.upsertFallback(ctx, db, entities)
	}
}

// upsertOnDuplicateKey is the MySQL form.
func (r *baseRepositoryImpl[T]) upsertOnDuplicateKey(ctx context.Context, q *bun.InsertQuery, fields []string, entities []*T) error {
	set := make([]string, 0, len(fields))
	for _, field := range fields {
		set = append(set, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	_, err := q.Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(set, ", ")).
		Exec(ctx)
	return err
}

// upsertOnConflict is the PostgreSQL and SQLite form.
func (r *baseRepositoryImpl[T]) upsertOnConflict(ctx context.Context, q *bun.InsertQuery, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		duplicateKeys = []string{"id"}
	}
	set := make([]string, 0, len(fields))
	for _, field := range fields {
		set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	_, err := q.Model(&entities).
		On("CONFLICT (" + strings.Join(duplicateKeys, ",") + ") DO UPDATE").
		Set(strings.Join(set, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, db bun.IDB, entities []*T) error {
	for _, entity := range entities {
		if _, err := db.NewInsert().Model(entity).Exec(ctx); err != nil {
			if _, updateErr := db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
				return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %v", err, updateErr)
			}
		}
	}
	return nil
}
