// Package model defines the persisted entities and their DTOs.
package model
