/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report and an emergency scene
// autosave instead of a bare stack trace.
package crash

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"log/slog"

	applog "sketchpad/internal/log"
	"sketchpad/internal/version"
)

// exitFn is swapped out in tests so Recover does not kill the process.
var exitFn = os.Exit

// Autosave attempts an emergency save of unsaved work and returns the
// path written.
type Autosave func() (string, error)

// Recover captures a panic, logs it with the stack, writes a report file,
// and runs the autosave if one is given.
//
// Usage: defer func() { crash.Recover(save) }()
func Recover(save Autosave) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if save != nil {
		if path, err := save(); err != nil {
			l.Error("emergency autosave failed", slog.Any("err", err))
		} else {
			l.Info("emergency autosave written", slog.String("path", path))
		}
	}

	fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func writeReport(panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(os.TempDir(), fmt.Sprintf("sketchpad-crash-%s.log", stamp))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer f.Close()

	fmt.Fprintln(f, "Sketchpad Crash Report")
	fmt.Fprintf(f, "Time: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(f, "Version: %s\n", version.String())
	fmt.Fprintf(f, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(f, "Panic: %v\n\n", panicVal)
	if _, err := f.Write(stack); err != nil {
		return path, err
	}
	return path, nil
}
