/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestWriteReport(t *testing.T) {
	path, err := writeReport("boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	defer os.Remove(path)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Sketchpad Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") || !strings.Contains(s, "stacktrace") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestRecoverRunsAutosave(t *testing.T) {
	// silence the stderr notice
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	exitCode := 0
	oldExit := exitFn
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = oldExit }()

	saved := false
	func() {
		defer Recover(func() (string, error) {
			saved = true
			return "autosave.json", nil
		})
		panic("kaboom")
	}()

	if !saved {
		t.Fatalf("autosave must run on panic")
	}
	if exitCode != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode)
	}
}

func TestRecoverNoPanicIsNoOp(t *testing.T) {
	oldExit := exitFn
	called := false
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()

	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("Recover must do nothing without a panic")
	}
}
