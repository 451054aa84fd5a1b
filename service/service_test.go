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

package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/metermon/database"
	"github.com/tomoncle/metermon/model"
	"github.com/tomoncle/metermon/processor"
	"github.com/tomoncle/metermon/service"
	"github.com/tomoncle/metermon/types"
)

func newServices(t *testing.T) *service.Services {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.ConnectionConfig.HealthCheckInterval = 0
	dm := database.NewDatabaseManager(cfg)
	require.NoError(t, dm.Connect(context.Background()))
	require.NoError(t, dm.RunMigrations(context.Background()))
	t.Cleanup(func() { _ = dm.Disconnect() })

	scfg := service.DefaultConfig()
	scfg.CityCacheTTL = time.Minute
	return service.New(dm.GetDB(), scfg)
}

func ptr(v int64) *int64 { return &v }

func TestCustomerCreateResolvesCity(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	city, err := svc.Cities.Create(ctx, model.CityDto{Name: "Mashhad"})
	require.NoError(t, err)
	require.NotZero(t, city.ID)

	c, err := svc.Customers.Create(ctx, model.CustomerDto{
		FirstName: "Reza", LastName: "Ahmadi", Email: "reza@example.com", CityID: ptr(city.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, c.CityID)
	assert.Equal(t, city.ID, *c.CityID)
	assert.Equal(t, "Mashhad", c.CityName)

	orphan, err := svc.Customers.Create(ctx, model.CustomerDto{
		FirstName: "Nima", LastName: "Karimi", Email: "nima@example.com", CityID: ptr(999),
	})
	require.NoError(t, err)
	assert.Nil(t, orphan.CityID)
	assert.Empty(t, orphan.CityName)
}

func TestCustomerCreateValidation(t *testing.T) {
	svc := newServices(t)

	_, err := svc.Customers.Create(context.Background(), model.CustomerDto{FirstName: "A", Email: "not-an-email"})
	require.Error(t, err)
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"lastName", "email"}, fields)
}

func TestCustomerUpdateCitySemantics(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	city, err := svc.Cities.Create(ctx, model.CityDto{Name: "Karaj"})
	require.NoError(t, err)
	c, err := svc.Customers.Create(ctx, model.CustomerDto{
		FirstName: "Mina", LastName: "Rahimi", Email: "mina@example.com", CityID: ptr(city.ID),
	})
	require.NoError(t, err)

	c.CityID = ptr(12345)
	c.Address = "Azadi St."
	updated, err := svc.Customers.Update(ctx, c.ID, c)
	require.NoError(t, err)
	require.NotNil(t, updated.CityID)
	assert.Equal(t, city.ID, *updated.CityID)
	assert.Equal(t, "Azadi St.", updated.Address)

	c.CityID = nil
	updated, err = svc.Customers.Update(ctx, c.ID, c)
	require.NoError(t, err)
	assert.Nil(t, updated.CityID)
	assert.Empty(t, updated.CityName)

	_, err = svc.Customers.Update(ctx, c.ID+1, c)
	assert.True(t, types.IsValidation(err))

	c.ID = 777
	_, err = svc.Customers.Update(ctx, 777, c)
	assert.True(t, types.IsNotFound(err))
}

func TestCustomerPage(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	tabriz, err := svc.Cities.Create(ctx, model.CityDto{Name: "Tabriz"})
	require.NoError(t, err)
	for _, name := range []string{"Zand", "Bahrami", "Mohseni"} {
		_, err := svc.Customers.Create(ctx, model.CustomerDto{
			FirstName: "X", LastName: name, Email: name + "@example.com", CityID: ptr(tabriz.ID),
		})
		require.NoError(t, err)
	}
	_, err = svc.Customers.Create(ctx, model.CustomerDto{FirstName: "Y", LastName: "Alavi", Email: "alavi@example.com"})
	require.NoError(t, err)

	req := types.NewPageRequest(1, 2).
		WithFilter("cityName", types.Contains, "briz").
		WithSort("lastName", types.Ascending)
	page, err := svc.Customers.Page(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Bahrami", page.Data[0].LastName)
	assert.Equal(t, "Mohseni", page.Data[1].LastName)

	_, err = svc.Customers.Page(ctx, types.NewPageRequest(1, 10).WithSort("bogus", types.Ascending))
	assert.True(t, processor.IsFieldNotFound(err))
}

func TestCityCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	city, err := svc.Cities.Create(ctx, model.CityDto{Name: "Qazvin"})
	require.NoError(t, err)
	got, err := svc.Cities.Get(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Qazvin", got.Name)

	_, err = svc.Cities.Update(ctx, city.ID, model.CityDto{ID: city.ID, Name: "Zanjan"})
	require.NoError(t, err)
	got, err = svc.Cities.Get(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zanjan", got.Name)

	require.NoError(t, svc.Cities.Delete(ctx, city.ID))
	_, err = svc.Cities.Get(ctx, city.ID)
	assert.True(t, types.IsNotFound(err))
	ok, err := svc.Cities.Exists(ctx, city.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCityUpdateErrors(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	_, err := svc.Cities.Update(ctx, 5, model.CityDto{ID: 6, Name: "Ilam"})
	assert.True(t, types.IsValidation(err))

	_, err = svc.Cities.Update(ctx, 5, model.CityDto{ID: 5, Name: "Ilam"})
	assert.True(t, types.IsNotFound(err))

	_, err = svc.Cities.Create(ctx, model.CityDto{Name: "A city name that is far longer than thirty characters"})
	assert.True(t, types.IsValidation(err))

	assert.True(t, types.IsNotFound(svc.Cities.Delete(ctx, 5)))
}

func TestDeletingCityClearsCustomers(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)

	city, err := svc.Cities.Create(ctx, model.CityDto{Name: "Arak"})
	require.NoError(t, err)
	c, err := svc.Customers.Create(ctx, model.CustomerDto{
		FirstName: "Leila", LastName: "Hosseini", Email: "leila@example.com", CityID: ptr(city.ID),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cities.Delete(ctx, city.ID))
	got, err := svc.Customers.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CityID)

	all, err := svc.Cities.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
