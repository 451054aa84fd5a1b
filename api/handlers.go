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
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tomoncle/metermon"
	"github.com/tomoncle/metermon/processor"
	"github.com/tomoncle/metermon/types"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error     string             `json:"error"`
	Errors    []types.FieldError `json:"errors,omitempty"`
	RequestID string             `json:"requestId,omitempty"`
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := ErrorResponse{Error: err.Error(), RequestID: c.GetString(requestIDKey)}

	var verr types.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body.Errors = verr.Fields
	case processor.IsRequestError(err):
		status = http.StatusBadRequest
	case types.IsNotFound(err):
		status = http.StatusNotFound
	case types.IsConflict(err):
		status = http.StatusConflict
	default:
		logger.WithField("requestId", body.RequestID).Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		body.Error = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, RequestID: c.GetString(requestIDKey)})
}

// resourceHandler serves one resource through its service.
type resourceHandler[E any, D any] struct {
	svc metermon.Service[E, D]
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid id "+strconv.Quote(c.Param("id")))
		return 0, false
	}
	return id, true
}

func (h *resourceHandler[E, D]) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dto, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *resourceHandler[E, D]) list(c *gin.Context) {
	dtos, err := h.svc.All(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *resourceHandler[E, D]) page(c *gin.Context) {
	var req types.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	page, err := h.svc.Page(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *resourceHandler[E, D]) create(c *gin.Context) {
	var dto D
	if err := c.ShouldBindJSON(&dto); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	out, err := h.svc.Create(c.Request.Context(), dto)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *resourceHandler[E, D]) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var dto D
	if err := c.ShouldBindJSON(&dto); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	out, err := h.svc.Update(c.Request.Context(), id, dto)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *resourceHandler[E, D]) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
