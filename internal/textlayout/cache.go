/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"container/list"
	"sync"
)

// widthCache is an LRU of measured advance widths for one face. Hit-tests
// and frames re-measure the same lines constantly.
type widthCache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List // front = most recently used
}

type widthEntry struct {
	key   string
	width float64
}

func newWidthCache(maxSize int) *widthCache {
	return &widthCache{maxSize: maxSize, items: make(map[string]*list.Element), lru: list.New()}
}

func (c *widthCache) get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.lru.MoveToFront(e)
		return e.Value.(*widthEntry).width, true
	}
	return 0, false
}

func (c *widthCache) put(key string, width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.lru.MoveToFront(e)
		e.Value.(*widthEntry).width = width
		return
	}
	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*widthEntry).key)
	}
	c.items[key] = c.lru.PushFront(&widthEntry{key: key, width: width})
}

func (c *widthCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
