/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "snapguide/internal/geom"

// Guide is a transient alignment hint. Its poly-line may contain gaps.
type Guide struct {
	Kind string
	Line geom.Polyline
}

// Overlay is the layer drawn above all elements. It holds only guides and
// never takes part in bounds or layout.
type Overlay struct {
	guides []Guide
}

// Show replaces the visible guides.
func (o *Overlay) Show(guides []Guide) {
	o.guides = append(o.guides[:0], guides...)
}

// Clear removes every guide.
func (o *Overlay) Clear() { o.guides = nil }

// Guides returns the currently visible guides.
func (o *Overlay) Guides() []Guide { return append([]Guide(nil), o.guides...) }
