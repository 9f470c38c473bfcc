/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deskcanvas/internal/export"
	applog "deskcanvas/internal/log"
	"deskcanvas/internal/media"
	"deskcanvas/internal/storage"
	"deskcanvas/internal/version"
)

// deskcanvasview renders a scene document into the self-contained HTML
// viewer and opens it in the default browser. Handy for sharing a canvas
// read-only without the editor.
func main() {
	applog.Init(applog.FromEnv())

	args := os.Args
	if len(args) < 2 || args[1] == "-v" || args[1] == "--version" {
		fmt.Println("deskcanvasview", version.String())
		fmt.Println("Usage: deskcanvasview <file> [out.html]")
		if len(args) < 2 {
			os.Exit(2)
		}
		return
	}

	abs, _ := filepath.Abs(args[1])
	h, err := storage.OpenFile(abs)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	out := strings.TrimSuffix(abs, filepath.Ext(abs)) + ".html"
	if len(args) >= 3 {
		out, _ = filepath.Abs(args[2])
	}
	if err := export.ExportHTML(&h.Doc, out); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println("Viewer written to", out)

	var launcher media.Launcher = media.SystemLauncher{}
	if err := launcher.Launch(out, filepath.Dir(out)); err != nil {
		fmt.Println("Could not open browser:", err)
	}
}
