/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session holds the overlays of one editing session in z-order
// together with the current selection.
package session

import "memelab/internal/domain"

// Session is an ordered collection of overlays (index 0 is the bottom)
// and one optional selection. Membership and selection compare pointers,
// never content. The selection never refers to an overlay that is not in
// the collection.
//
// A Session is owned by one goroutine; it does no locking.
type Session struct {
	items    []*domain.Overlay
	selected *domain.Overlay
}

func New() *Session { return &Session{} }

// Items returns the overlays bottom to top. The slice is a copy; the
// overlays are shared.
func (s *Session) Items() []*domain.Overlay {
	out := make([]*domain.Overlay, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Session) Len() int { return len(s.items) }

// IndexOf returns o's z-index or -1.
func (s *Session) IndexOf(o *domain.Overlay) int {
	if o == nil {
		return -1
	}
	for i, it := range s.items {
		if it == o {
			return i
		}
	}
	return -1
}

func (s *Session) Contains(o *domain.Overlay) bool { return s.IndexOf(o) >= 0 }

// Top returns the topmost overlay or nil.
func (s *Session) Top() *domain.Overlay {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// Add appends o on top. Nil and already present overlays are ignored.
func (s *Session) Add(o *domain.Overlay) bool {
	if o == nil || s.Contains(o) {
		return false
	}
	s.items = append(s.items, o)
	return true
}

// Remove deletes o. If o was selected the new topmost overlay becomes
// the selection, or nothing when the collection is empty.
func (s *Session) Remove(o *domain.Overlay) bool {
	i := s.IndexOf(o)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.selected == o {
		s.selected = s.Top()
	}
	return true
}

func (s *Session) Selected() *domain.Overlay { return s.selected }

// Select makes o the selection; nil clears it. An overlay that is not in
// the collection is ignored and false is returned.
func (s *Session) Select(o *domain.Overlay) bool {
	if o == nil {
		s.selected = nil
		return true
	}
	if !s.Contains(o) {
		return false
	}
	s.selected = o
	return true
}

// BringToFront moves o to the top of the z-order.
func (s *Session) BringToFront(o *domain.Overlay) bool {
	i := s.IndexOf(o)
	if i < 0 {
		return false
	}
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = o
	return true
}

// SendToBack moves o to the bottom of the z-order.
func (s *Session) SendToBack(o *domain.Overlay) bool {
	i := s.IndexOf(o)
	if i < 0 {
		return false
	}
	copy(s.items[1:i+1], s.items[:i])
	s.items[0] = o
	return true
}

// Clear removes every overlay and the selection.
func (s *Session) Clear() {
	s.items = nil
	s.selected = nil
}
