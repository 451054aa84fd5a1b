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

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tomoncle/metermon/database"
	"github.com/tomoncle/metermon/model"
	"github.com/tomoncle/metermon/repository"
	"github.com/tomoncle/metermon/types"
)

func openDB(t *testing.T) *bun.DB {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.ConnectionConfig.HealthCheckInterval = 0
	dm := database.NewDatabaseManager(cfg)
	require.NoError(t, dm.Connect(context.Background()))
	require.NoError(t, dm.RunMigrations(context.Background()))
	t.Cleanup(func() { _ = dm.Disconnect() })
	return dm.GetDB()
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	cities := repository.NewRepository[model.City](openDB(t))
	assert.Equal(t, "city", cities.Resource())

	a, b := &model.City{Name: "Tehran"}, &model.City{Name: "Tabriz"}
	require.NoError(t, cities.Create(ctx, a, b))
	require.NotZero(t, a.ID)
	require.NotZero(t, b.ID)

	got, err := cities.GetOne(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tabriz", got.Name)

	all, err := cities.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)

	ok, err := cities.Exists(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := cities.Find(ctx, "name LIKE ?", "Tab%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, b.ID, found[0].ID)
}

func TestGetOneNotFound(t *testing.T) {
	cities := repository.NewRepository[model.City](openDB(t), repository.WithResource("city"))

	_, err := cities.GetOne(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
	assert.Equal(t, "city 42 not found", err.Error())

	all, err := cities.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestRelationsAreLoaded(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	cities := repository.NewRepository[model.City](db)
	customers := repository.NewRepository[model.Customer](db, repository.WithRelations("City"))

	city := &model.City{Name: "Isfahan"}
	require.NoError(t, cities.Create(ctx, city))
	withCity := &model.Customer{FirstName: "Sara", LastName: "K", Email: "sara@example.com", CityID: &city.ID}
	without := &model.Customer{FirstName: "Ali", LastName: "R", Email: "ali@example.com"}
	require.NoError(t, customers.Create(ctx, withCity, without))

	got, err := customers.GetOne(ctx, withCity.ID)
	require.NoError(t, err)
	require.NotNil(t, got.City)
	assert.Equal(t, "Isfahan", got.City.Name)

	all, err := customers.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].City)
	assert.Equal(t, city.ID, all[0].City.ID)
	assert.True(t, all[1].City == nil || all[1].City.ID == 0)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	cities := repository.NewRepository[model.City](openDB(t))

	city := &model.City{Name: "Rasht"}
	require.NoError(t, cities.Create(ctx, city))
	city.Name = "Sari"
	require.NoError(t, cities.Update(ctx, city))

	got, err := cities.GetOne(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sari", got.Name)

	require.NoError(t, cities.Delete(ctx, city.ID))
	err = cities.Delete(ctx, city.ID)
	assert.True(t, types.IsNotFound(err))
}

func TestUpsertWithTx(t *testing.T) {
	ctx := context.Background()
	cities := repository.NewRepository[model.City](openDB(t))
	require.NoError(t, cities.Create(ctx, &model.City{ID: 1, Name: "Yazd"}))

	err := cities.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return cities.UpsertWithTx(ctx, tx, []string{"name"}, nil,
			&model.City{ID: 1, Name: "Kerman"},
			&model.City{ID: 2, Name: "Qom"},
		)
	})
	require.NoError(t, err)

	all, err := cities.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Kerman", all[0].Name)
	assert.Equal(t, "Qom", all[1].Name)

	assert.Error(t, cities.Upsert(ctx, nil, nil, &model.City{ID: 3, Name: "Ahvaz"}))
	assert.NoError(t, cities.Upsert(ctx, []string{"name"}, nil))
}
