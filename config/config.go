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

// Package config loads settings from an optional .env file, an optional YAML
// file and METERMON_ prefixed environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tomoncle/metermon/database"
	"github.com/tomoncle/metermon/processor"
	"github.com/tomoncle/metermon/service"
)

const EnvPrefix = "METERMON"

type Config struct {
	Server    ServerConfig               `mapstructure:"server"`
	Database  database.ConnectionConfig  `mapstructure:"database"`
	Migrate   database.DataMigrateConfig `mapstructure:"migrate"`
	Log       LogConfig                  `mapstructure:"log"`
	Processor ProcessorConfig            `mapstructure:"processor"`
	Cache     CacheConfig                `mapstructure:"cache"`
	Seed      SeedConfig                 `mapstructure:"seed"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

type ProcessorConfig struct {
	// Workers <= 0 uses one worker per CPU.
	Workers           int `mapstructure:"workers"`
	ParallelThreshold int `mapstructure:"parallel_threshold"`
}

type CacheConfig struct {
	CityTTL time.Duration `mapstructure:"city_ttl"`
}

type SeedConfig struct {
	File      string `mapstructure:"file"`
	OnStartup bool   `mapstructure:"on_startup"`
}

func setDefaults(v *viper.Viper) {
	db := database.DefaultConfig()
	conn := db.ConnectionConfig

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.type", conn.Type)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", conn.DBName)
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("database.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("database.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("database.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("database.read_timeout", conn.ReadTimeout)
	v.SetDefault("database.write_timeout", conn.WriteTimeout)
	v.SetDefault("database.enable_reconnect", conn.EnableReconnect)
	v.SetDefault("database.reconnect_interval", conn.ReconnectInterval)
	v.SetDefault("database.max_reconnect_tries", conn.MaxReconnectTries)
	v.SetDefault("database.health_check_interval", conn.HealthCheckInterval)
	v.SetDefault("database.enable_query_log", conn.EnableQueryLog)
	v.SetDefault("database.slow_query_time", conn.SlowQueryTime)

	v.SetDefault("migrate.enable_migrate_on_startup", db.DataMigrateConfig.EnableMigrateOnStartup)
	v.SetDefault("migrate.enable_foreign_key", db.DataMigrateConfig.EnableForeignKey)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("processor.workers", 0)
	v.SetDefault("processor.parallel_threshold", processor.DefaultParallelThreshold)

	v.SetDefault("cache.city_ttl", 5*time.Minute)

	v.SetDefault("seed.file", "configs/seed.yaml")
	v.SetDefault("seed.on_startup", false)
}

// Load reads the configuration. path names a YAML file; when empty,
// metermon.yaml is looked up in the working directory and ./configs and may be
// absent. envFiles default to ".env"; missing env files are ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("metermon")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// DatabaseConfig returns the settings for database.InitDB.
func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		ConnectionConfig:  c.Database,
		DataMigrateConfig: c.Migrate,
	}
}

// ServiceConfig returns the settings for service.New.
func (c *Config) ServiceConfig() service.Config {
	workers := c.Processor.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return service.Config{
		Workers:           workers,
		ParallelThreshold: c.Processor.ParallelThreshold,
		CityCacheTTL:      c.Cache.CityTTL,
	}
}
