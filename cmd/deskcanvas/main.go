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
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"deskcanvas/internal/crash"
	"deskcanvas/internal/export"
	applog "deskcanvas/internal/log"
	"deskcanvas/internal/storage"
	"deskcanvas/internal/ui"
	"deskcanvas/internal/version"
)

func usage() {
	fmt.Println("DeskCanvas — zoomable desktop canvas")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  deskcanvas version|-v|--version          Show version")
	fmt.Println("  deskcanvas create <file>                  Create a new empty scene document")
	fmt.Println("  deskcanvas open <file>                    Open a document and print a summary")
	fmt.Println("  deskcanvas check <file>                   Validate a document against the scene schema")
	fmt.Println("  deskcanvas index <file>                   Rebuild the per-document search index")
	fmt.Println("  deskcanvas search <file> <query>          Full-text search over notes, captions and paths")
	fmt.Println("  deskcanvas export <file> <out>            Export to .html, .png or .pdf (by extension)")
	fmt.Println("  deskcanvas ui [<file>]                    Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var h *storage.DocHandle
	defer func() { crash.Recover(h) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("DeskCanvas — zoomable desktop canvas")
			fmt.Println(version.String())
			return
		case "create":
			if len(args) < 3 {
				fmt.Println("create requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("create document", slog.String("path", abs))
			nh, err := storage.Create(abs)
			if err != nil {
				l.Error("create failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			fmt.Println("Created document at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open document", slog.String("path", abs))
			nh, err := storage.OpenFile(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			name := "unnamed"
			if nh.Doc.FileInfo != nil {
				name = nh.Doc.FileInfo.Name
			}
			fmt.Printf("Opened document: %s\n", name)
			fmt.Printf("Items: %d\n", len(nh.Doc.Items))
			fmt.Println("Path:", nh.Path)
			return
		case "check":
			if len(args) < 3 {
				fmt.Println("check requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			data, err := os.ReadFile(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			problems, err := storage.ValidateSchema(data)
			if err != nil {
				l.Error("check failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			if len(problems) == 0 {
				fmt.Println("OK:", abs)
				return
			}
			for _, p := range problems {
				fmt.Println(" -", p)
			}
			os.Exit(1)
		case "index":
			if len(args) < 3 {
				fmt.Println("index requires <file>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			nh, err := storage.OpenFile(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			db, err := storage.InitOrOpenIndex(abs)
			if err != nil {
				l.Error("index open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer func() { _ = db.Close() }()
			if err := storage.RebuildIndex(context.Background(), db, &nh.Doc); err != nil {
				l.Error("index rebuild failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Indexed %d items into %s\n", len(nh.Doc.Items), storage.IndexPath(abs))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <file> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			query := strings.Join(args[3:], " ")
			db, err := storage.InitOrOpenIndex(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			defer func() { _ = db.Close() }()
			hits, err := storage.SearchItems(context.Background(), db, storage.SearchQuery{Text: query})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, hit := range hits {
				fmt.Printf("#%d  %-8s  %s\n", hit.ItemID, hit.Type, hit.Snippet)
			}
			if len(hits) == 0 {
				fmt.Println("no matches")
			}
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <file> and <out>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			out, _ := filepath.Abs(args[3])
			nh, err := storage.OpenFile(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			switch strings.ToLower(filepath.Ext(out)) {
			case ".html", ".htm":
				err = export.ExportHTML(&nh.Doc, out)
			case ".png":
				err = export.ExportPNG(&nh.Doc, out, export.PNGOptions{Margin: 20})
			case ".pdf":
				err = export.ExportPDF(&nh.Doc, out, export.PDFOptions{Margin: 20})
			default:
				fmt.Println("export target must end in .html, .png or .pdf")
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", out)
			return
		case "ui":
			var path string
			if len(args) >= 3 {
				path = args[2]
			}
			if err := ui.Run(path); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
