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

package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomoncle/metermon/database"
	"github.com/tomoncle/metermon/model"
	"github.com/tomoncle/metermon/service"
	"github.com/tomoncle/metermon/utils"
)

var logger = utils.NewLogger("API")

// HealthFunc reports the database health.
type HealthFunc func(ctx context.Context) *database.HealthStatus

// Options configures the router.
type Options struct {
	// CORSOrigins lists allowed origins; empty or "*" allows any origin.
	CORSOrigins []string
	// Health defaults to database.GetHealthStatus.
	Health HealthFunc
}

// NewRouter builds the gin engine serving svcs.
func NewRouter(svcs *service.Services, opts Options) *gin.Engine {
	if opts.Health == nil {
		opts.Health = database.GetHealthStatus
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(), Metrics(), cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", healthHandler(opts.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	customers := &resourceHandler[model.Customer, model.CustomerDto]{svc: svcs.Customers}
	customer := api.Group("/customer")
	customer.GET("/:id", customers.get)
	customer.POST("/GetAll", customers.page)
	customer.POST("/Add", customers.create)
	customer.PUT("/:id", customers.update)
	customer.DELETE("/:id", customers.delete)

	cities := &resourceHandler[model.City, model.CityDto]{svc: svcs.Cities}
	city := api.Group("/city")
	city.GET("/:id", cities.get)
	city.GET("", cities.list)
	city.POST("/GetAll", cities.page)
	city.POST("", cities.create)
	city.PUT("/:id", cities.update)
	city.DELETE("/:id", cities.delete)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func healthHandler(health HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := health(c.Request.Context())
		code := http.StatusOK
		if status == nil || !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}
