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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "metermon", cfg.Database.DBName)
	assert.Equal(t, 2*time.Second, cfg.Database.SlowQueryTime)
	assert.True(t, cfg.Migrate.EnableMigrateOnStartup)
	assert.Equal(t, 1024, cfg.Processor.ParallelThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Cache.CityTTL)

	sc := cfg.ServiceConfig()
	assert.Positive(t, sc.Workers)
	assert.Equal(t, 5*time.Minute, sc.CityCacheTTL)
}

func TestLoadFileEnvAndDotenv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "metermon.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  addr: ":9090"
database:
  type: mysql
  host: db.local
  port: 3306
  slow_query_time: 500ms
processor:
  workers: 3
`), 0o600))
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("METERMON_DATABASE_DBNAME=meters\n"), 0o600))

	t.Setenv("METERMON_DATABASE_TYPE", "postgres")
	t.Setenv("METERMON_LOG_LEVEL", "debug")
	t.Cleanup(func() { _ = os.Unsetenv("METERMON_DATABASE_DBNAME") })

	cfg, err := Load(file, envFile)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "meters", cfg.Database.DBName)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.SlowQueryTime)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.ServiceConfig().Workers)

	db := cfg.DatabaseConfig()
	assert.Equal(t, "postgres", db.ConnectionConfig.Type)
	assert.True(t, db.DataMigrateConfig.EnableForeignKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}
