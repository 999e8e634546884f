/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"sketchpad/internal/crash"
	"sketchpad/internal/geometry"
	applog "sketchpad/internal/log"
	"sketchpad/internal/render"
	"sketchpad/internal/sceneio"
	"sketchpad/internal/store"
	"sketchpad/internal/version"
)

const renderPadding = 10

func usage() {
	fmt.Println("Sketchpad — scene model and headless tooling")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sketchpad version|-v|--version              Show version")
	fmt.Println("  sketchpad render <scene.json> <out.png>     Render a scene file to PNG")
	fmt.Println("  sketchpad session import <db> <scene.json>  Import a scene file into a session store")
	fmt.Println("  sketchpad session show <db>                 Summarize a session store")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer func() { crash.Recover(nil) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Sketchpad — scene model and headless tooling")
			fmt.Println(version.String())
			return
		case "render":
			if len(args) < 4 {
				fmt.Println("render requires <scene.json> and <out.png>")
				usage()
				os.Exit(2)
			}
			if err := renderScene(args[2], args[3]); err != nil {
				l.Error("render failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "session":
			if len(args) < 4 {
				fmt.Println("session requires a subcommand and <db>")
				usage()
				os.Exit(2)
			}
			if err := sessionCommand(args[2:]); err != nil {
				l.Error("session command failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}
	usage()
}

// renderScene rasterizes a scene file, sized to the content bounds plus
// padding.
func renderScene(scenePath, outPath string) error {
	abs, err := filepath.Abs(scenePath)
	if err != nil {
		return err
	}
	scene, err := sceneio.Load(abs)
	if err != nil {
		return err
	}

	background := ""
	if scene.AppState != nil {
		background = scene.AppState.ViewBackgroundColor
	}
	view := render.View{Background: background}

	width, height := 200, 200
	if len(scene.Elements) > 0 {
		x1, y1, x2, y2 := geometry.CommonBounds(scene.Elements)
		view.ScrollX = -x1 + renderPadding
		view.ScrollY = -y1 + renderPadding
		width = int(math.Ceil(x2-x1)) + 2*renderPadding
		height = int(math.Ceil(y2-y1)) + 2*renderPadding
	}

	if err := render.RenderPNG(outPath, scene.Elements, view, width, height); err != nil {
		return err
	}
	fmt.Printf("Rendered %d elements to %s (%dx%d)\n", len(scene.Elements), outPath, width, height)
	return nil
}

func sessionCommand(args []string) error {
	sub := args[0]
	db := args[1]
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := store.Open(db)
	if err != nil {
		return err
	}
	defer s.Close()

	switch sub {
	case "import":
		if len(args) < 3 {
			return fmt.Errorf("session import requires <db> and <scene.json>")
		}
		scene, err := sceneio.Load(args[2])
		if err != nil {
			return err
		}
		if err := s.SaveScene(ctx, scene.Elements); err != nil {
			return err
		}
		st := store.State{}
		if scene.AppState != nil {
			st.ViewBackgroundColor = scene.AppState.ViewBackgroundColor
			st.Name = scene.AppState.Name
		}
		if err := s.SaveState(ctx, st); err != nil {
			return err
		}
		fmt.Printf("Imported %d elements into %s\n", len(scene.Elements), db)
		return nil
	case "show":
		els, err := s.LoadScene(ctx)
		if err != nil {
			return err
		}
		st, ok, err := s.LoadState(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Session: %d elements\n", len(els))
		counts := map[string]int{}
		for _, el := range els {
			counts[string(el.Type)]++
		}
		for typ, n := range counts {
			fmt.Printf("  %-10s %d\n", typ, n)
		}
		if ok {
			fmt.Printf("View: background=%s scroll=(%.0f, %.0f)\n",
				st.ViewBackgroundColor, st.ScrollX, st.ScrollY)
			if st.Name != "" {
				fmt.Printf("Name: %s\n", st.Name)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown session subcommand %q", sub)
	}
}
