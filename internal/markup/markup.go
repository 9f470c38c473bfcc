/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package markup renders note text to safe HTML for display and export.
package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"deskcanvas/internal/domain"
)

// md is configured once; goldmark.Markdown is safe for concurrent use.
// Raw HTML stays disabled (the default) so note content cannot inject
// script into the exported viewer.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts note text to safe HTML according to its format. Plain
// text is escaped with line breaks preserved; markdown goes through
// goldmark with raw HTML disabled.
func Render(text, format string) (string, error) {
	if format == domain.NoteFormatMarkdown {
		var sb strings.Builder
		if err := md.Convert([]byte(text), &sb); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return sb.String(), nil
	}
	return renderPlain(text), nil
}

func renderPlain(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = html.EscapeString(l)
	}
	return "<p>" + strings.Join(lines, "<br>") + "</p>"
}
