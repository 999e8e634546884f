/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package clipboard moves scene payloads through the system clipboard as
// plain text. Elements travel as the sceneio payload JSON, so copy/paste
// also works across two running instances.
package clipboard

import (
	sysclip "github.com/atotto/clipboard"
)

// Available reports whether a system clipboard backend exists. Headless
// environments commonly have none; callers fall back to an in-process
// buffer then.
func Available() bool { return !sysclip.Unsupported }

// WriteText places text on the system clipboard.
func WriteText(text string) error { return sysclip.WriteAll(text) }

// ReadText returns the current clipboard text.
func ReadText() (string, error) { return sysclip.ReadAll() }
