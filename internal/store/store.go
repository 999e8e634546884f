/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store persists the working scene between sessions in a small
// key/value SQLite database. Two keys exist: the serialized element array
// and the view state. A corrupt or missing row behaves like an empty one;
// session restore must never block startup.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"

	"sketchpad/internal/element"
	applog "sketchpad/internal/log"
	"sketchpad/internal/sceneio"
)

const (
	keyScene = "scene"
	keyState = "state"
)

// State is the persisted view state restored on the next session.
type State struct {
	ViewBackgroundColor string  `json:"viewBackgroundColor,omitempty"`
	ScrollX             float64 `json:"scrollX"`
	ScrollY             float64 `json:"scrollY"`
	Name                string  `json:"name,omitempty"`
}

// Store is a handle to the session database. Safe for concurrent use; the
// pool is capped at one connection for embedded usage.
type Store struct {
	db *sql.DB
}

// Open creates or opens the session database at path.
func Open(path string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("store"), "open").With(
		slog.String("path", path),
	)
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, fmt.Errorf("ensure kv schema: %w", err)
	}

	l.Info("session store ready")
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveScene persists the durable subset of the scene: deleted elements and
// selection pseudo-elements are dropped, and the runtime-only fields fall
// away in serialization.
func (s *Store) SaveScene(ctx context.Context, els []*element.Element) error {
	durable := make([]*element.Element, 0, len(els))
	for _, el := range els {
		if el.IsDeleted || el.Type == element.TypeSelection {
			continue
		}
		durable = append(durable, el)
	}
	blob, err := sceneio.MarshalElements(durable)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	return s.put(ctx, keyScene, blob)
}

// LoadScene restores the persisted element array. A missing or corrupt row
// yields an empty scene, not an error.
func (s *Store) LoadScene(ctx context.Context) ([]*element.Element, error) {
	blob, err := s.get(ctx, keyScene)
	if err != nil || blob == nil {
		return nil, err
	}
	var els []*element.Element
	if err := json.Unmarshal(blob, &els); err != nil {
		applog.WithComponent("store").Warn("discarding corrupt scene row", slog.Any("err", err))
		return nil, nil
	}
	return els, nil
}

// SaveState persists the view state.
func (s *Store) SaveState(ctx context.Context, st State) error {
	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return s.put(ctx, keyState, blob)
}

// LoadState restores the view state. ok is false when none was saved or
// the row is corrupt.
func (s *Store) LoadState(ctx context.Context) (State, bool, error) {
	blob, err := s.get(ctx, keyState)
	if err != nil || blob == nil {
		return State{}, false, err
	}
	var st State
	if err := json.Unmarshal(blob, &st); err != nil {
		applog.WithComponent("store").Warn("discarding corrupt state row", slog.Any("err", err))
		return State{}, false, nil
	}
	return st, true, nil
}

// Reset drops both keys, e.g. after the user clears the canvas.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, keyScene, keyState)
	if err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, blob []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, blob)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return blob, nil
}
