// Package api exposes the customer and city services over HTTP with gin.
//
// List endpoints accept a DataSourceRequest body and answer with a page of
// DTOs; see types.PageRequest and types.PagedData.
package api
