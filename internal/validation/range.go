// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"fmt"
	"slices"
	"time"
)

type positiveDurationValidator struct {
	field string
	value time.Duration
}

// NewPositiveDurationValidator fails when value is not strictly positive.
func NewPositiveDurationValidator(field string, value time.Duration) Validator {
	return positiveDurationValidator{field: field, value: value}
}

func (v positiveDurationValidator) Validate() error {
	if v.value <= 0 {
		return fmt.Errorf("%s=(%s) must be greater than zero", v.field, v.value)
	}
	return nil
}

type probabilityValidator struct {
	field string
	value float64
}

// NewProbabilityValidator fails when value lies outside [0, 1].
func NewProbabilityValidator(field string, value float64) Validator {
	return probabilityValidator{field: field, value: value}
}

func (v probabilityValidator) Validate() error {
	if v.value < 0 || v.value > 1 {
		return fmt.Errorf("%s=(%v) must be within [0, 1]", v.field, v.value)
	}
	return nil
}

type oneOfValidator struct {
	field   string
	value   string
	allowed []string
}

// NewOneOfValidator fails when value is not one of allowed.
func NewOneOfValidator(field, value string, allowed ...string) Validator {
	return oneOfValidator{field: field, value: value, allowed: allowed}
}

func (v oneOfValidator) Validate() error {
	if slices.Contains(v.allowed, v.value) {
		return nil
	}
	return fmt.Errorf("%s=(%s) must be one of %q", v.field, v.value, v.allowed)
}
