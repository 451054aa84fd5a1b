// Package service holds the customer and city services used by the HTTP
// handlers. Both build on metermon.BaseService; customers resolve their city
// reference on write and cities cache single lookups.
package service
