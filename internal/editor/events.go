/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"fmt"

	"memelab/internal/domain"
)

// EventKind names an input a host forwards to the editor.
type EventKind int

const (
	PointerDown EventKind = iota + 1
	PointerMove
	PointerUp
	// PointerLeave is an implicit release when the pointer exits the surface.
	PointerLeave
	TouchStart
	TouchMove
	TouchEnd
	StyleChanged
	OverlayCreated
	OverlayDeleted
)

var kindNames = map[EventKind]string{
	PointerDown:    "pointerDown",
	PointerMove:    "pointerMove",
	PointerUp:      "pointerUp",
	PointerLeave:   "pointerLeave",
	TouchStart:     "touchStart",
	TouchMove:      "touchMove",
	TouchEnd:       "touchEnd",
	StyleChanged:   "styleChanged",
	OverlayCreated: "overlayCreated",
	OverlayDeleted: "overlayDeleted",
}

func (k EventKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one input. X and Y are surface pixels (see Viewport). Field and
// Value are used by StyleChanged. Target defaults to the selection for
// StyleChanged and OverlayDeleted.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Field  domain.Field
	Value  string
	Target *domain.Overlay
}

var ErrUnknownEvent = errors.New("unknown event")

// Dispatch applies ev. Only StyleChanged with a malformed value and
// unknown kinds return errors; the editor state stays valid either way.
func (e *Editor) Dispatch(ev Event) error {
	switch ev.Kind {
	case PointerDown, TouchStart:
		e.pointerDown(ev.X, ev.Y)
	case PointerMove, TouchMove:
		e.pointerMove(ev.X, ev.Y)
	case PointerUp, PointerLeave, TouchEnd:
		e.release()
	case StyleChanged:
		return e.SetField(e.target(ev), ev.Field, ev.Value)
	case OverlayCreated:
		e.CreateOverlay()
	case OverlayDeleted:
		e.DeleteOverlay(e.target(ev))
	default:
		return fmt.Errorf("%w: %v", ErrUnknownEvent, ev.Kind)
	}
	return nil
}

func (e *Editor) target(ev Event) *domain.Overlay {
	if ev.Target != nil {
		return ev.Target
	}
	return e.session.Selected()
}
