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

package processor

// paginate returns the 1-based page of records. page and pageSize are
// positive.
func paginate[T any](records []T, page, pageSize int) []T {
	pages := len(records) / pageSize
	if len(records)%pageSize != 0 {
		pages++
	}
	if page > pages {
		return make([]T, 0)
	}
	lo := (page - 1) * pageSize
	hi := min(lo+pageSize, len(records))
	return records[lo:hi:hi]
}
