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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
// Reads of a missing id return a types.NotFoundError.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	Find(ctx context.Context, query string, args ...any) ([]*T, error)

	Exists(ctx context.Context, id any) (bool, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// TransactionRepository defines CRUD operations executed within a transaction.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx bun.Tx, entity ...*T) error
	UpsertWithTx(ctx context.Context, tx bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error
}

// Repository combines CRUD and transactional operations and exposes the Bun
// handle for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	TransactionRepository[T]
	Resource() string
	Dialect() schema.Dialect
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
}

// Option configures a repository.
type Option func(*options)

type options struct {
	relations []string
	resource  string
}

// WithRelations loads the named bun relations on every read.
func WithRelations(names ...string) Option {
	return func(o *options) { o.relations = append(o.relations, names...) }
}

// WithResource overrides the name used in not-found errors.
func WithResource(name string) Option {
	return func(o *options) { o.resource = name }
}
