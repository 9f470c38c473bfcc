/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"deskcanvas/internal/domain"
	"deskcanvas/internal/markup"
)

// ExportHTML writes a single self-contained read-only viewer: the document
// JSON plus a pan/zoom/minimap canvas, no editing machinery. Note text is
// pre-rendered to safe HTML on the Go side so the page needs no markdown
// parser and raw note HTML can never reach the DOM.
func ExportHTML(doc *domain.Document, outPath string) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	notes := make(map[string]template.HTML, len(doc.Items))
	for i := range doc.Items {
		it := &doc.Items[i]
		if it.Type != domain.TypeNote {
			continue
		}
		rendered, err := markup.Render(it.Text, it.Format)
		if err != nil {
			return fmt.Errorf("render note %d: %w", it.ID, err)
		}
		notes[strconv.FormatInt(it.ID, 10)] = template.HTML(rendered)
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	title := "deskcanvas"
	if doc.FileInfo != nil && doc.FileInfo.Name != "" {
		title = doc.FileInfo.Name
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create viewer file: %w", err)
	}
	defer f.Close()

	data := struct {
		Title string
		Doc   template.JS
		Notes template.JS
	}{
		Title: title,
		Doc:   template.JS(docJSON),
		Notes: template.JS(notesJSON),
	}
	if err := viewerTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render viewer: %w", err)
	}
	return nil
}

// The viewer mirrors the editor's coordinate model: device = (scene-pan)*zoom,
// wheel zoom anchored at the cursor, minimap with a single uniform scale.
var viewerTmpl = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  html,body { margin:0; height:100%; overflow:hidden; background:#f4f4f4;
              font:13px/1.4 system-ui, sans-serif; }
  #canvas { position:absolute; inset:0; cursor:grab; }
  .item { position:absolute; box-sizing:border-box; overflow:hidden; }
  .item .caption { position:absolute; left:0; right:0; top:100%;
                   text-align:center; color:#444; pointer-events:none; }
  .note { background:#fffde7; border:1px solid #bbb; padding:4px; }
  .rect { border:1px solid #000; }
  .marker { background:#dc3c3c; border-radius:50%; }
  .media { background:#eee; border:1px solid #b43c3c; }
  .media img { width:100%; height:100%; object-fit:contain; }
  #minimap { position:fixed; right:12px; bottom:12px; width:200px; height:150px;
             background:#fff; border:1px solid #999; opacity:.9; cursor:pointer; }
</style>
</head>
<body>
<div id="canvas"></div>
<canvas id="minimap" width="200" height="150"></canvas>
<script>
"use strict";
const DOC = {{.Doc}};
const NOTES = {{.Notes}};
const MIN_ZOOM = 0.1, MAX_ZOOM = 10, STEP = 1.1;
let pan = {x: 0, y: 0}, zoom = 1;
const stage = document.getElementById("canvas");
const mini = document.getElementById("minimap");

function bounds() {
  if (!DOC.items.length) return {x: 0, y: 0, w: 100, h: 100};
  let minX = Infinity, minY = Infinity, maxX = -Infinity, maxY = -Infinity;
  for (const it of DOC.items) {
    const w = Math.max(it.width || 0, 16), h = Math.max(it.height || 0, 16);
    minX = Math.min(minX, it.x); minY = Math.min(minY, it.y);
    maxX = Math.max(maxX, it.x + w); maxY = Math.max(maxY, it.y + h);
  }
  return {x: minX, y: minY, w: maxX - minX, h: maxY - minY};
}

function paintOrder(items) {
  const n = items.length, entries = [];
  const explicit = items.map((it, i) => [it, i]).filter(e => e[0].z != null);
  explicit.sort((a, b) => a[0].z - b[0].z || a[1] - b[1]);
  const rank = new Map(explicit.map((e, r) => [e[1], r]));
  items.forEach((it, i) => {
    const key = it.z == null ? (i + 1) / (n + 1)
      : 1 + (explicit.length > 1 ? rank.get(i) / (explicit.length - 1) : 0);
    entries.push([key, i]);
  });
  entries.sort((a, b) => a[0] - b[0] || a[1] - b[1]);
  return entries.map(e => e[1]);
}

function build() {
  stage.textContent = "";
  for (const idx of paintOrder(DOC.items)) {
    const it = DOC.items[idx];
    const el = document.createElement("div");
    el.className = "item";
    el.dataset.id = it.id;
    const w = Math.max(it.width || 0, 16), h = Math.max(it.height || 0, 16);
    el.style.width = w + "px"; el.style.height = h + "px";
    switch (it.type) {
    case "note": {
      el.classList.add("note");
      const body = document.createElement("div");
      body.innerHTML = NOTES[String(it.id)] || "";
      if (it.color) body.style.color = it.color;
      if (it.fill_background && it.bgcolor) el.style.background = it.bgcolor;
      if (it.fontsize) body.style.fontSize = it.fontsize + "px";
      el.appendChild(body);
      break;
    }
    case "rect":
      el.classList.add("rect");
      if (it.frame_color) el.style.borderColor = it.frame_color;
      if (it.frame_width) el.style.borderWidth = it.frame_width + "px";
      if (it.corner_radius) el.style.borderRadius = it.corner_radius + "px";
      el.style.background = it.background_transparent ? "transparent"
        : (it.background_color || "#fff");
      break;
    case "marker":
      el.classList.add("marker");
      break;
    case "arrow": {
      el.style.pointerEvents = "none";
      const svg = document.createElementNS("http://www.w3.org/2000/svg", "svg");
      svg.setAttribute("width", w); svg.setAttribute("height", h);
      const a = (it.angle || 0) * Math.PI / 180;
      const sa = w / 2, sb = h / 2;
      let len;
      if (w <= 0 || h <= 0) { len = 0.8 * Math.min(w, h); }
      else { len = 2 / Math.sqrt(Math.pow(Math.cos(a) / sa, 2) + Math.pow(Math.sin(a) / sb, 2)); }
      const line = document.createElementNS(svg.namespaceURI, "line");
      line.setAttribute("x1", sa - Math.cos(a) * len / 2);
      line.setAttribute("y1", sb - Math.sin(a) * len / 2);
      line.setAttribute("x2", sa + Math.cos(a) * len / 2);
      line.setAttribute("y2", sb + Math.sin(a) * len / 2);
      line.setAttribute("stroke", it.frame_color || "#000");
      line.setAttribute("stroke-width", it.frame_width || 2);
      svg.appendChild(line);
      el.appendChild(svg);
      break;
    }
    default: {
      el.classList.add("media");
      if (it.embedded && it.embedded_data) {
        const img = document.createElement("img");
        img.src = (it.format || "data:image/png;base64,") + it.embedded_data;
        if (it.brightness != null) {
          const d = Math.max(0, Math.min(100, it.brightness)) - 50;
          img.style.filter = "brightness(" + (1 + d / 50) + ")";
        }
        el.appendChild(img);
      }
    }
    }
    if (it.caption && it.show_caption !== false) {
      const cap = document.createElement("div");
      cap.className = "caption";
      cap.textContent = it.caption;
      el.appendChild(cap);
    }
    el.dataset.x = it.x; el.dataset.y = it.y;
    stage.appendChild(el);
  }
  layout();
}

function layout() {
  for (const el of stage.children) {
    const x = (parseFloat(el.dataset.x) - pan.x) * zoom;
    const y = (parseFloat(el.dataset.y) - pan.y) * zoom;
    el.style.transform = "translate(" + x + "px," + y + "px) scale(" + zoom + ")";
    el.style.transformOrigin = "0 0";
  }
  drawMinimap();
}

function drawMinimap() {
  const ctx = mini.getContext("2d");
  ctx.clearRect(0, 0, mini.width, mini.height);
  const b = bounds();
  const s = Math.min(mini.width / b.w, mini.height / b.h);
  ctx.fillStyle = "#ccc";
  for (const it of DOC.items) {
    ctx.fillRect((it.x - b.x) * s, (it.y - b.y) * s,
      Math.max((it.width || 16) * s, 2), Math.max((it.height || 16) * s, 2));
  }
  ctx.strokeStyle = "#c33";
  ctx.strokeRect((pan.x - b.x) * s, (pan.y - b.y) * s,
    innerWidth / zoom * s, innerHeight / zoom * s);
}

let dragging = false, last = null;
stage.addEventListener("mousedown", e => { dragging = true; last = e; });
addEventListener("mouseup", () => { dragging = false; });
addEventListener("mousemove", e => {
  if (!dragging) return;
  pan.x -= (e.clientX - last.clientX) / zoom;
  pan.y -= (e.clientY - last.clientY) / zoom;
  last = e;
  layout();
});
addEventListener("wheel", e => {
  const anchor = {x: e.clientX / zoom + pan.x, y: e.clientY / zoom + pan.y};
  zoom = Math.min(MAX_ZOOM, Math.max(MIN_ZOOM, zoom * (e.deltaY < 0 ? STEP : 1 / STEP)));
  pan.x = anchor.x - e.clientX / zoom;
  pan.y = anchor.y - e.clientY / zoom;
  layout();
}, {passive: true});
mini.addEventListener("click", e => {
  const b = bounds();
  const s = Math.min(mini.width / b.w, mini.height / b.h);
  const r = mini.getBoundingClientRect();
  const sx = b.x + (e.clientX - r.left) / s, sy = b.y + (e.clientY - r.top) / s;
  pan.x = sx - innerWidth / 2 / zoom;
  pan.y = sy - innerHeight / 2 / zoom;
  layout();
});

const start = DOC.items.find(it => it.type === "marker" && it.is_start);
if (start) {
  pan.x = start.x - innerWidth / 2;
  pan.y = start.y - innerHeight / 2;
}
build();
</script>
</body>
</html>
`))
