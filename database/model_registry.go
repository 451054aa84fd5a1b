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

package database

import (
	"reflect"
	"sort"
	"sync"
)

var defaultRegistry = &modelRegistry{byType: make(map[reflect.Type]int)}

// SQLModel is a table created by migrations. Instance returns a Bun struct
// pointer; tables are created in ascending Priority so referenced tables
// exist first.
type SQLModel interface {
	Instance() any
	Priority() int
}

type modelRegistry struct {
	mu     sync.RWMutex
	models []SQLModel
	byType map[reflect.Type]int
}

// register adds model, replacing an earlier registration of the same type.
func (r *modelRegistry) register(model SQLModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := modelType(model.Instance())
	if i, ok := r.byType[t]; ok {
		r.models[i] = model
		return
	}
	r.byType[t] = len(r.models)
	r.models = append(r.models, model)
}

func (r *modelRegistry) sorted() []SQLModel {
	r.mu.RLock()
	result := make([]SQLModel, len(r.models))
	copy(result, r.models)
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type modelAdapter struct {
	instance any
	priority int
}

func (a modelAdapter) Instance() any { return a.instance }

func (a modelAdapter) Priority() int { return a.priority }

// RegisterModel adds a Bun model pointer such as (*City)(nil) to the tables
// created by migrations.
func RegisterModel(instance any, priority int) {
	defaultRegistry.register(modelAdapter{instance: instance, priority: priority})
}

// GetRegisteredModels returns all registered models by ascending priority.
func GetRegisteredModels() []SQLModel {
	return defaultRegistry.sorted()
}

func RegisteredModelInstances() []any {
	models := GetRegisteredModels()
	instances := make([]any, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}
