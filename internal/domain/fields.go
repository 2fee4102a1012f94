/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"memelab/internal/textlayout"
	"memelab/internal/vector"
)

// Field names a style attribute that form controls can set from raw text.
type Field string

const (
	FieldText            Field = "text"
	FieldFontFamily      Field = "fontFamily"
	FieldFontSize        Field = "fontSize"
	FieldTextColor       Field = "textColor"
	FieldStrokeColor     Field = "strokeColor"
	FieldStrokeWidth     Field = "strokeWidth"
	FieldBold            Field = "bold"
	FieldItalic          Field = "italic"
	FieldShadow          Field = "shadow"
	FieldBackground      Field = "background"
	FieldBackgroundColor Field = "backgroundColor"
	FieldRotation        Field = "rotation"
)

// Fields lists every settable field in form order.
var Fields = []Field{
	FieldText, FieldFontFamily, FieldFontSize, FieldTextColor, FieldStrokeColor,
	FieldStrokeWidth, FieldBold, FieldItalic, FieldShadow, FieldBackground,
	FieldBackgroundColor, FieldRotation,
}

// Accepted numeric ranges. Values outside are clamped.
const (
	MinFontSize    = 1.0
	MaxFontSize    = textlayout.MaxSize
	MaxStrokeWidth = 50.0
)

var (
	ErrInvalidValue = errors.New("invalid value")
	ErrUnknownField = errors.New("unknown field")
)

// Apply sets field f from its raw form value. On a malformed value the
// overlay keeps its prior value and the returned error wraps
// ErrInvalidValue.
func (o *Overlay) Apply(f Field, raw string) error {
	switch f {
	case FieldText:
		o.Text = raw
	case FieldFontFamily:
		fam := strings.TrimSpace(raw)
		if fam == "" {
			return fmt.Errorf("%s: %w: empty family", f, ErrInvalidValue)
		}
		o.FontFamily = fam
	case FieldFontSize:
		v, err := ParseInt(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		o.FontSize = ClampFontSize(v)
	case FieldStrokeWidth:
		v, err := ParseInt(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		o.StrokeWidth = ClampStrokeWidth(v)
	case FieldRotation:
		v, err := ParseInt(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		o.Rotation = v
	case FieldTextColor, FieldStrokeColor, FieldBackgroundColor:
		c, err := vector.ParseHex(raw)
		if err != nil {
			return fmt.Errorf("%s: %w: %v", f, ErrInvalidValue, err)
		}
		switch f {
		case FieldTextColor:
			o.TextColor = c
		case FieldStrokeColor:
			o.StrokeColor = c
		default:
			o.BackgroundColor = c
		}
	case FieldBold, FieldItalic, FieldShadow, FieldBackground:
		b, err := ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		switch f {
		case FieldBold:
			o.Bold = b
		case FieldItalic:
			o.Italic = b
		case FieldShadow:
			o.Shadow = b
		default:
			o.Background = b
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

// Value formats field f the way a form control would display it.
func (o *Overlay) Value(f Field) (string, error) {
	switch f {
	case FieldText:
		return o.Text, nil
	case FieldFontFamily:
		return o.FontFamily, nil
	case FieldFontSize:
		return strconv.FormatFloat(o.FontSize, 'f', -1, 64), nil
	case FieldStrokeWidth:
		return strconv.FormatFloat(o.StrokeWidth, 'f', -1, 64), nil
	case FieldRotation:
		return strconv.FormatFloat(o.Rotation, 'f', -1, 64), nil
	case FieldTextColor:
		return o.TextColor.Hex(), nil
	case FieldStrokeColor:
		return o.StrokeColor.Hex(), nil
	case FieldBackgroundColor:
		return o.BackgroundColor.Hex(), nil
	case FieldBold:
		return strconv.FormatBool(o.Bold), nil
	case FieldItalic:
		return strconv.FormatBool(o.Italic), nil
	case FieldShadow:
		return strconv.FormatBool(o.Shadow), nil
	case FieldBackground:
		return strconv.FormatBool(o.Background), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}

// ParseInt reads a leading decimal integer the way HTML number inputs are
// commonly parsed: surrounding space is ignored, a fraction or trailing
// unit is dropped ("12.7px" is 12), and input with no digits is invalid.
func ParseInt(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidValue, raw)
	}
	return v, nil
}

// ParseBool accepts the usual checkbox spellings.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "on", "yes", "y", "checked":
		return true, nil
	case "0", "f", "false", "off", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
}

// ClampFontSize limits v to [MinFontSize, MaxFontSize].
func ClampFontSize(v float64) float64 {
	return math.Min(MaxFontSize, math.Max(MinFontSize, v))
}

// ClampStrokeWidth limits v to [0, MaxStrokeWidth].
func ClampStrokeWidth(v float64) float64 {
	return math.Min(MaxStrokeWidth, math.Max(0, v))
}
