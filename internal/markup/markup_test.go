/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package markup

import (
	"strings"
	"testing"

	"deskcanvas/internal/domain"
)

func TestRenderMarkdown(t *testing.T) {
	out, err := Render("# Title\n\nsome *emphasis*", domain.NoteFormatMarkdown)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<em>emphasis</em>") {
		t.Fatalf("markdown not rendered: %q", out)
	}
}

func TestRenderMarkdownStripsRawHTML(t *testing.T) {
	out, err := Render("hello <script>alert(1)</script>", domain.NoteFormatMarkdown)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("raw HTML must not pass through: %q", out)
	}
}

func TestRenderPlainEscapesAndKeepsLineBreaks(t *testing.T) {
	out, err := Render("a < b\nnext & last", domain.NoteFormatPlain)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "a &lt; b") || !strings.Contains(out, "<br>") {
		t.Fatalf("plain rendering wrong: %q", out)
	}
	if !strings.Contains(out, "&amp; last") {
		t.Fatalf("ampersand not escaped: %q", out)
	}
}

func TestRenderUnknownFormatTreatedAsPlain(t *testing.T) {
	out, err := Render("<b>x</b>", "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<b>") {
		t.Fatalf("unknown format must be escaped as plain: %q", out)
	}
}
