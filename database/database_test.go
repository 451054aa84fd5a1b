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

package database_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/tomoncle/metermon/database"
	"github.com/tomoncle/metermon/model"
	"github.com/tomoncle/metermon/types"
)

func sqliteConfig(name string) *database.Config {
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.EnableReconnect = false
	return cfg
}

func TestMigrationsCreateTablesOnce(t *testing.T) {
	ctx := context.Background()
	dm := database.NewDatabaseManager(sqliteConfig(t.Name()))
	require.NoError(t, dm.Connect(ctx))
	defer func() { _ = dm.Disconnect() }()

	require.NoError(t, dm.RunMigrations(ctx))
	require.NoError(t, dm.RunMigrations(ctx))

	mm := database.NewMigrationManager(dm.GetDB(), nil)
	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "001", applied[0].Version)

	n, err := dm.GetDB().NewSelect().Model((*model.City)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestExtraMigrationRunsAfterBaseTables(t *testing.T) {
	ctx := context.Background()
	dm := database.NewDatabaseManager(sqliteConfig(t.Name()))
	require.NoError(t, dm.Connect(ctx))
	defer func() { _ = dm.Disconnect() }()

	mm := database.NewMigrationManager(dm.GetDB(), nil)
	calls := 0
	mm.Add(database.MigrationItem{
		Version: "010",
		Name:    "insert_default_city",
		Up: func(ctx context.Context, db bun.IDB) error {
			calls++
			_, err := db.NewInsert().Model(&model.City{Name: "Tehran"}).Exec(ctx)
			return err
		},
	})
	require.NoError(t, mm.RunMigrations(ctx))
	require.NoError(t, mm.RunMigrations(ctx))
	assert.Equal(t, 1, calls)

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "010", applied[1].Version)
}

func TestCustomerCityForeignKey(t *testing.T) {
	ctx := context.Background()
	dm := database.NewDatabaseManager(sqliteConfig(t.Name()))
	require.NoError(t, dm.Connect(ctx))
	defer func() { _ = dm.Disconnect() }()
	require.NoError(t, dm.RunMigrations(ctx))
	db := dm.GetDB()

	missing := int64(404)
	_, err := db.NewInsert().Model(&model.Customer{FirstName: "a", LastName: "b", Email: "a@b.c", CityID: &missing}).Exec(ctx)
	require.Error(t, err)
	is, kind := database.IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, database.ForeignKeyViolationErr, kind)
	assert.True(t, types.IsConflict(database.TranslateError("customer", err)))

	city := &model.City{Name: "Shiraz"}
	_, err = db.NewInsert().Model(city).Exec(ctx)
	require.NoError(t, err)
	require.NotZero(t, city.ID)

	customer := &model.Customer{FirstName: "a", LastName: "b", Email: "a@b.c", CityID: &city.ID}
	_, err = db.NewInsert().Model(customer).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewDelete().Model((*model.City)(nil)).Where("id = ?", city.ID).Exec(ctx)
	require.NoError(t, err)

	var reloaded model.Customer
	require.NoError(t, db.NewSelect().Model(&reloaded).Where("id = ?", customer.ID).Scan(ctx))
	assert.Nil(t, reloaded.CityID)
}

func TestHealthCheckWithMock(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.EnableReconnect = false
	dm := database.NewDatabaseManagerWithDB(cfg, sqlDB, pgdialect.New())

	mock.ExpectPing()
	require.NoError(t, dm.Connect(context.Background()))

	mock.ExpectPing()
	status := dm.HealthCheck(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Equal(t, "pg", status.Type)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	status = dm.HealthCheck(context.Background())
	assert.False(t, status.Healthy)
	assert.Contains(t, status.LastError, "connection refused")

	mock.ExpectClose()
	require.NoError(t, dm.Disconnect())
	assert.NoError(t, mock.ExpectationsWereMet())

	status = dm.HealthCheck(context.Background())
	assert.False(t, status.Healthy)
	assert.Equal(t, "Database not initialized", status.LastError)
}

func TestConnectRetriesPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.HealthCheckInterval = 0
	cfg.ConnectionConfig.EnableReconnect = true
	cfg.ConnectionConfig.MaxReconnectTries = 2
	cfg.ConnectionConfig.ReconnectInterval = time.Millisecond
	dm := database.NewDatabaseManagerWithDB(cfg, sqlDB, pgdialect.New())

	mock.ExpectPing().WillReturnError(errors.New("starting up"))
	mock.ExpectPing().WillReturnError(errors.New("starting up"))
	mock.ExpectPing()
	require.NoError(t, dm.Connect(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobalInitAndClose(t *testing.T) {
	ctx := context.Background()
	db, err := database.InitDB(ctx, sqliteConfig(t.Name()))
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Same(t, db, database.GetDB())
	assert.True(t, database.GetHealthStatus(ctx).Healthy)
	assert.NoError(t, database.RunMigrations(ctx))

	require.NoError(t, database.CloseDB())
	assert.Nil(t, database.GetDB())
	assert.False(t, database.GetHealthStatus(ctx).Healthy)
	assert.Error(t, database.RunMigrations(ctx))
}

func TestGlobalInitWithManager(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, &database.DBStats{}, database.GetDatabaseStats())

	dm := database.NewDatabaseManager(sqliteConfig(t.Name()))
	db, err := database.InitDBWithManager(ctx, dm, true)
	require.NoError(t, err)
	assert.Same(t, dm.GetDB(), db)
	assert.Same(t, db, database.GetDB())

	stats := database.GetDatabaseStats()
	assert.Equal(t, 1, stats.MaxOpenConns)

	n, err := db.NewSelect().Model((*model.Customer)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, database.CloseDB())
	assert.Equal(t, &database.DBStats{}, database.GetDatabaseStats())
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "oracle"
	_, err := database.NewDatabaseFactory().CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestIsSqlError(t *testing.T) {
	cases := []struct {
		err  error
		want database.SQLError
	}{
		{&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, database.DuplicateKeyErr},
		{&mysql.MySQLError{Number: 1452}, database.ForeignKeyViolationErr},
		{&pq.Error{Code: "23505"}, database.DuplicateKeyErr},
		{&pq.Error{Code: "23503"}, database.ForeignKeyViolationErr},
		{errors.New("UNIQUE constraint failed: cities.name"), database.DuplicateKeyErr},
		{errors.New("NOT NULL constraint failed: customers.email"), database.NotNullViolationErr},
		{fmt.Errorf("scan: %w", errors.New("no such table: cities")), database.NoTableErr},
	}
	for _, tc := range cases {
		is, kind := database.IsSqlError(tc.err)
		assert.True(t, is, tc.err.Error())
		assert.Equal(t, tc.want, kind, tc.err.Error())
	}

	is, _ := database.IsSqlError(errors.New("boom"))
	assert.False(t, is)

	nf := types.NotFoundError{Resource: "city", ID: 1}
	assert.Equal(t, nf, database.TranslateError("city", nf))
	assert.True(t, types.IsValidation(database.TranslateError("customer", &pq.Error{Code: "23502"})))
}

func TestForeignKeyConstraint(t *testing.T) {
	fk := database.ForeignKeyConstraint{
		Table:           "customers",
		Column:          "city_id",
		ReferenceTable:  "cities",
		ReferenceColumn: "id",
		OnDelete:        "set null",
	}
	assert.Equal(t, "fk_customers_city_id", fk.GenerateConstraintName())
	assert.Equal(t, "(city_id) REFERENCES cities (id) ON DELETE SET NULL", fk.Clause())

	fkm := database.NewForeignKeyManager(nil)
	require.Len(t, fkm.GetConstraintsByTable("CUSTOMERS"), 1)
	names := make([]string, 0)
	for _, c := range fkm.ListAllConstraints() {
		names = append(names, c.GenerateConstraintName())
	}
	assert.Contains(t, names, "fk_customers_city_id")
	assert.Empty(t, fkm.ValidateConstraints())
}
