//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"deskcanvas/internal/config"
	"deskcanvas/internal/crash"
	"deskcanvas/internal/domain"
	"deskcanvas/internal/export"
	applog "deskcanvas/internal/log"
	"deskcanvas/internal/media"
	"deskcanvas/internal/scene"
	"deskcanvas/internal/storage"
	"deskcanvas/internal/transfer"
	"deskcanvas/internal/vector"
)

// Run starts the desktop editor, optionally opening a scene file right away.
func Run(scenePath string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}

	var h *storage.DocHandle
	defer func() { crash.Recover(h) }()

	fyneApp := app.NewWithID("deskcanvas")
	w := fyneApp.NewWindow("DeskCanvas")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	doc := &domain.Document{FileInfo: domain.NewFileInfo(), Items: []domain.Item{}}
	sc := scene.NewCanvas(doc, float64(winW), float64(winH))
	sc.SnapEnabled = cfg.Canvas.SnapEnabled
	sc.OnLaunch = func(it *domain.Item) error {
		var launcher media.Launcher = media.SystemLauncher{}
		return launcher.Launch(it.Path, it.Workdir)
	}

	sw := NewSceneWidget(sc)
	sw.ShowMinimap = cfg.General.ShowMinimap

	bind := func(nh *storage.DocHandle) {
		h = nh
		size := sw.Size()
		viewW, viewH := float64(size.Width), float64(size.Height)
		if viewW < 1 || viewH < 1 {
			viewW, viewH = float64(winW), float64(winH)
		}
		ns := scene.NewCanvas(&nh.Doc, viewW, viewH)
		ns.SnapEnabled = cfg.Canvas.SnapEnabled
		ns.OnLaunch = sc.OnLaunch
		ns.GoToStart()
		sw.Bind(ns)
		w.SetTitle("DeskCanvas — " + filepath.Base(nh.Path))
		status.SetText(fmt.Sprintf("Opened %s (%d items)", filepath.Base(nh.Path), len(nh.Doc.Items)))
		cfg.RememberRecent(nh.Path)
		if err := config.Save(cfg); err != nil {
			l.Warn("config save failed", slog.Any("err", err))
		}
		// Refresh the search index in the background; the editor never blocks on it.
		go func(path string) {
			db, err := storage.InitOrOpenIndex(path)
			if err != nil {
				l.Warn("index open failed", slog.Any("err", err))
				return
			}
			defer func() { _ = db.Close() }()
			if err := storage.RebuildIndex(context.Background(), db, &nh.Doc); err != nil {
				l.Warn("index rebuild failed", slog.Any("err", err))
			}
		}(nh.Path)
	}

	doOpen := func(path string) {
		nh, err := storage.OpenFile(path)
		if err != nil {
			l.Error("open failed", slog.String("path", path), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		bind(nh)
	}

	doSaveAs := func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("/path/to/scene.json")
		if h != nil {
			entry.SetText(h.Path)
		}
		dialog.ShowForm("Save scene as", "Save", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("File", entry)},
			func(ok bool) {
				if !ok || strings.TrimSpace(entry.Text) == "" {
					return
				}
				path, _ := filepath.Abs(entry.Text)
				if h == nil {
					h = &storage.DocHandle{Path: path, Doc: *sw.Scene().Doc}
				}
				h.Doc = *sw.Scene().Doc
				if err := storage.SaveFileAs(h, path); err != nil {
					dialog.ShowError(err, w)
					return
				}
				bind(h)
			}, w)
	}

	doSave := func() {
		if h == nil {
			doSaveAs()
			return
		}
		h.Doc = *sw.Scene().Doc
		if err := storage.SaveFile(h); err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + filepath.Base(h.Path))
	}

	// placeNew inserts an item at the viewport center and selects it.
	placeNew := func(it domain.Item) {
		s := sw.Scene()
		center := s.Viewport.DeviceToScene(vector.Pt{X: s.Viewport.ViewW / 2, Y: s.Viewport.ViewH / 2})
		it.ID = s.Doc.NextID()
		it.X = center.X - it.Width/2
		it.Y = center.Y - it.Height/2
		s.Doc.Items = append(s.Doc.Items, it)
		s.Selected = it.ID
		sw.Refresh()
		status.SetText(fmt.Sprintf("Added %s #%d", it.Type, it.ID))
	}

	editNote := func(it *domain.Item) {
		entry := widget.NewMultiLineEntry()
		entry.SetText(it.Text)
		entry.Wrapping = fyne.TextWrapWord
		formats := widget.NewSelect([]string{domain.NoteFormatPlain, domain.NoteFormatMarkdown}, nil)
		if it.Format == domain.NoteFormatMarkdown {
			formats.SetSelected(domain.NoteFormatMarkdown)
		} else {
			formats.SetSelected(domain.NoteFormatPlain)
		}
		form := []*widget.FormItem{
			widget.NewFormItem("Text", entry),
			widget.NewFormItem("Format", formats),
		}
		dialog.ShowForm("Edit note", "Apply", "Cancel", form, func(ok bool) {
			if st := sw.Scene().State(it.ID); st != nil {
				st.ExitToWalk()
			}
			if !ok {
				sw.Refresh()
				return
			}
			it.Text = entry.Text
			it.Format = formats.Selected
			sw.Refresh()
		}, w)
	}
	sw.OnEdit = editNote

	doCopy := func() {
		s := sw.Scene()
		if s.Selected == 0 {
			return
		}
		items := []domain.Item{}
		if it := s.Doc.ItemByID(s.Selected); it != nil {
			items = append(items, *it)
		}
		for _, m := range scene.GroupMembers(s.Doc, s.Selected) {
			items = append(items, *m)
		}
		if err := transfer.CopyToClipboard(items); err != nil {
			l.Warn("copy failed", slog.Any("err", err))
			return
		}
		status.SetText(fmt.Sprintf("Copied %d item(s)", len(items)))
	}

	doPaste := func() {
		s := sw.Scene()
		center := s.Viewport.DeviceToScene(vector.Pt{X: s.Viewport.ViewW / 2, Y: s.Viewport.ViewH / 2})
		ids, err := transfer.PasteFromClipboard(s.Doc, center.X, center.Y)
		if err != nil {
			l.Warn("paste failed", slog.Any("err", err))
			return
		}
		if len(ids) == 0 {
			return
		}
		s.Selected = ids[0]
		sw.Refresh()
		status.SetText(fmt.Sprintf("Pasted %d item(s)", len(ids)))
	}

	doDelete := func() {
		s := sw.Scene()
		if s.Selected == 0 {
			return
		}
		scene.DeleteItem(s.Doc, s.Selected)
		s.Selected = 0
		sw.ResetStates()
		sw.Refresh()
	}

	doSearch := func() {
		if h == nil {
			dialog.ShowInformation("Search", "Open a saved scene first; search runs on its index.", w)
			return
		}
		entry := widget.NewEntry()
		entry.SetPlaceHolder("query")
		dialog.ShowForm("Search", "Find", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Text", entry)},
			func(ok bool) {
				if !ok || strings.TrimSpace(entry.Text) == "" {
					return
				}
				db, err := storage.InitOrOpenIndex(h.Path)
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				defer func() { _ = db.Close() }()
				hits, err := storage.SearchItems(context.Background(), db, storage.SearchQuery{Text: entry.Text})
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				if len(hits) == 0 {
					status.SetText("No matches for " + entry.Text)
					return
				}
				names := make([]string, len(hits))
				for i, hit := range hits {
					names[i] = fmt.Sprintf("#%d %s — %s", hit.ItemID, hit.Type, hit.Snippet)
				}
				list := widget.NewList(
					func() int { return len(names) },
					func() fyne.CanvasObject { return widget.NewLabel("") },
					func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(names[i]) },
				)
				var d dialog.Dialog
				list.OnSelected = func(i widget.ListItemID) {
					s := sw.Scene()
					if it := s.Doc.ItemByID(hits[i].ItemID); it != nil {
						b := it.Bounds()
						s.Viewport.CenterOn(b.Center())
						s.Selected = it.ID
						sw.Refresh()
					}
					d.Hide()
				}
				d = dialog.NewCustom("Results", "Close", container.NewStack(list), w)
				d.Resize(fyne.NewSize(500, 400))
				d.Show()
			}, w)
	}

	doExport := func(ext string) {
		if h == nil {
			dialog.ShowInformation("Export", "Save the scene first.", w)
			return
		}
		h.Doc = *sw.Scene().Doc
		out := strings.TrimSuffix(h.Path, filepath.Ext(h.Path)) + ext
		var err error
		switch ext {
		case ".html":
			err = export.ExportHTML(&h.Doc, out)
		case ".png":
			err = export.ExportPNG(&h.Doc, out, export.PNGOptions{Margin: 20})
		case ".pdf":
			err = export.ExportPDF(&h.Doc, out, export.PDFOptions{Margin: 20})
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + out)
	}

	addImage := func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("/path/to/image.png")
		dialog.ShowForm("Add image", "Add", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("File", entry)},
			func(ok bool) {
				if !ok || strings.TrimSpace(entry.Text) == "" {
					return
				}
				data, err := os.ReadFile(entry.Text)
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				format := media.SniffFormat(data)
				if format == "" {
					dialog.ShowError(fmt.Errorf("unsupported image format: %s", entry.Text), w)
					return
				}
				placeNew(domain.Item{
					Type: domain.TypeImage, Width: 200, Height: 200,
					Embedded: true, EmbeddedData: media.EncodeEmbedded(data), Format: format,
					Path: entry.Text,
				})
			}, w)
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() {
			entry := widget.NewEntry()
			entry.SetPlaceHolder("/path/to/scene.json")
			dialog.ShowForm("Open scene", "Open", "Cancel",
				[]*widget.FormItem{widget.NewFormItem("File", entry)},
				func(ok bool) {
					if ok && strings.TrimSpace(entry.Text) != "" {
						doOpen(entry.Text)
					}
				}, w)
		}),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), doSave),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			placeNew(domain.Item{Type: domain.TypeNote, Width: 200, Height: 120, FillBackground: true})
		}),
		widget.NewToolbarAction(theme.RadioButtonIcon(), func() {
			placeNew(domain.Item{Type: domain.TypeRect, Width: 160, Height: 100})
		}),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() {
			placeNew(domain.Item{Type: domain.TypeArrow, Width: 120, Height: 40})
		}),
		widget.NewToolbarAction(theme.RadioButtonCheckedIcon(), func() {
			placeNew(domain.Item{Type: domain.TypeMarker, Width: 24, Height: 24})
		}),
		widget.NewToolbarAction(theme.MediaPhotoIcon(), addImage),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.SearchIcon(), doSearch),
		widget.NewToolbarAction(theme.HomeIcon(), func() {
			sw.Scene().GoToStart()
			sw.Refresh()
		}),
	)

	recentItems := func() []*fyne.MenuItem {
		items := make([]*fyne.MenuItem, 0, len(cfg.Canvas.RecentFiles))
		for _, p := range cfg.Canvas.RecentFiles {
			path := p
			items = append(items, fyne.NewMenuItem(filepath.Base(path), func() { doOpen(path) }))
		}
		return items
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New", func() {
			h = nil
			nd := &domain.Document{FileInfo: domain.NewFileInfo(), Items: []domain.Item{}}
			ns := scene.NewCanvas(nd, sw.Scene().Viewport.ViewW, sw.Scene().Viewport.ViewH)
			ns.SnapEnabled = cfg.Canvas.SnapEnabled
			ns.OnLaunch = sc.OnLaunch
			sw.Bind(ns)
			w.SetTitle("DeskCanvas")
			status.SetText("New scene")
		}),
		fyne.NewMenuItem("Save", doSave),
		fyne.NewMenuItem("Save As…", doSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export HTML", func() { doExport(".html") }),
		fyne.NewMenuItem("Export PNG", func() { doExport(".png") }),
		fyne.NewMenuItem("Export PDF", func() { doExport(".pdf") }),
	)
	if ri := recentItems(); len(ri) > 0 {
		fileMenu.Items = append(fileMenu.Items, fyne.NewMenuItemSeparator())
		fileMenu.Items = append(fileMenu.Items, ri...)
	}

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Copy", doCopy),
		fyne.NewMenuItem("Paste", doPaste),
		fyne.NewMenuItem("Delete", doDelete),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Ungroup", func() {
			s := sw.Scene()
			if s.Selected != 0 {
				scene.Dissolve(s.Doc, s.Selected)
				sw.Refresh()
			}
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() {
			v := sw.Scene().Viewport
			v.ZoomAt(v.ViewW/2, v.ViewH/2, scene.WheelZoomStep)
			sw.Refresh()
		}),
		fyne.NewMenuItem("Zoom Out", func() {
			v := sw.Scene().Viewport
			v.ZoomAt(v.ViewW/2, v.ViewH/2, 1/scene.WheelZoomStep)
			sw.Refresh()
		}),
		fyne.NewMenuItem("Go to Start", func() {
			sw.Scene().GoToStart()
			sw.Refresh()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Minimap", func() {
			sw.ShowMinimap = !sw.ShowMinimap
			sw.Refresh()
		}),
		fyne.NewMenuItem("Toggle Snap", func() {
			sw.Scene().SnapEnabled = !sw.Scene().SnapEnabled
		}),
	)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu))

	ctrl := func(k fyne.KeyName) *desktop.CustomShortcut {
		return &desktop.CustomShortcut{KeyName: k, Modifier: fyne.KeyModifierControl}
	}
	w.Canvas().AddShortcut(ctrl(fyne.KeyS), func(fyne.Shortcut) { doSave() })
	w.Canvas().AddShortcut(ctrl(fyne.KeyC), func(fyne.Shortcut) { doCopy() })
	w.Canvas().AddShortcut(ctrl(fyne.KeyV), func(fyne.Shortcut) { doPaste() })
	w.Canvas().AddShortcut(ctrl(fyne.KeyF), func(fyne.Shortcut) { doSearch() })

	if cfg.Canvas.AutosaveSec > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Canvas.AutosaveSec) * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				if h == nil {
					continue
				}
				fyne.Do(func() {
					h.Doc = *sw.Scene().Doc
					if err := storage.SaveFile(h); err != nil {
						l.Warn("autosave failed", slog.Any("err", err))
					} else {
						status.SetText("Autosaved " + time.Now().Format("15:04:05"))
					}
				})
			}
		}()
	}

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, sw))

	if strings.TrimSpace(scenePath) != "" {
		abs, _ := filepath.Abs(scenePath)
		doOpen(abs)
	}

	w.ShowAndRun()
	return nil
}

// SceneWidget renders a scene.Canvas and feeds pointer/keyboard input into
// its event chain. All geometry goes through the canvas viewport, so the
// widget stays a thin translation layer between Fyne events and scene events.
type SceneWidget struct {
	widget.BaseWidget

	sc *scene.Canvas

	// ShowMinimap toggles the overview in the bottom-right corner.
	ShowMinimap bool

	// OnEdit is called when a note enters edit mode; the host opens an editor.
	OnEdit func(it *domain.Item)
	imgCache map[int64]image.Image
	players  map[int64]*gifPlayback
}

// gifPlayback pairs a running frame player with its stop handle. A nil
// player marks a payload that failed to decode, so it is not retried on
// every repaint.
type gifPlayback struct {
	player *media.Player
	cancel context.CancelFunc
}

func NewSceneWidget(sc *scene.Canvas) *SceneWidget {
	s := &SceneWidget{
		sc:          sc,
		ShowMinimap: true,
		imgCache:    make(map[int64]image.Image),
		players:     make(map[int64]*gifPlayback),
	}
	s.ExtendBaseWidget(s)
	return s
}

// Bind replaces the underlying scene, e.g. after opening another file.
func (s *SceneWidget) Bind(sc *scene.Canvas) {
	s.sc = sc
	s.stopPlayers()
	s.imgCache = make(map[int64]image.Image)
	s.Refresh()
}

// Scene returns the bound interaction canvas.
func (s *SceneWidget) Scene() *scene.Canvas { return s.sc }

// ResetStates drops cached per-item interaction state, decoded images and
// running frame players, needed after wholesale document replacement
// (open, delete, paste of a new doc).
func (s *SceneWidget) ResetStates() {
	s.stopPlayers()
	s.imgCache = make(map[int64]image.Image)
}

func (s *SceneWidget) stopPlayers() {
	for _, pb := range s.players {
		if pb.cancel != nil {
			pb.cancel()
		}
	}
	s.players = make(map[int64]*gifPlayback)
}

// gifFrame returns the current frame of an animated item, starting its
// frame timer on first use. The player requests a repaint on every advance;
// the timer stops when the widget rebinds or the item goes away.
func (s *SceneWidget) gifFrame(it *domain.Item) image.Image {
	if pb, ok := s.players[it.ID]; ok {
		if pb.player == nil {
			return nil
		}
		return pb.player.Current()
	}
	raw, err := media.DecodeEmbedded(it.EmbeddedData)
	if err != nil {
		s.players[it.ID] = &gifPlayback{}
		return nil
	}
	p, err := media.NewPlayer(raw)
	if err != nil {
		s.players[it.ID] = &gifPlayback{}
		return nil
	}
	p.OnFrame = func() { fyne.Do(s.Refresh) }
	ctx, cancel := context.WithCancel(context.Background())
	s.players[it.ID] = &gifPlayback{player: p, cancel: cancel}
	go p.Run(ctx)
	return p.Current()
}

func (s *SceneWidget) PreferredSize() fyne.Size { return fyne.NewSize(1000, 700) }

func (s *SceneWidget) dispatch(kind scene.EventKind, pos fyne.Position, dx, dy float64) {
	ev := &scene.Event{
		Kind:   kind,
		Device: vector.Pt{X: float64(pos.X), Y: float64(pos.Y)},
		Delta:  vector.Pt{X: dx, Y: dy},
	}
	stage := s.sc.Dispatch(ev)
	if stage == "item" && kind == scene.EventDoubleClick && s.OnEdit != nil {
		if cur := s.sc.Registry.Current(); cur != nil {
			if it := s.sc.Doc.ItemByID(cur.ItemID()); it != nil {
				s.OnEdit(it)
			}
		}
	}
	s.Refresh()
}

func (s *SceneWidget) Tapped(e *fyne.PointEvent) {
	s.dispatch(scene.EventClick, e.Position, 0, 0)
}

func (s *SceneWidget) DoubleTapped(e *fyne.PointEvent) {
	s.dispatch(scene.EventDoubleClick, e.Position, 0, 0)
}

func (s *SceneWidget) Dragged(e *fyne.DragEvent) {
	s.dispatch(scene.EventDrag, e.Position, float64(e.Dragged.DX), float64(e.Dragged.DY))
}

func (s *SceneWidget) DragEnd() {}

func (s *SceneWidget) Scrolled(e *fyne.ScrollEvent) {
	dy := float64(e.Scrolled.DY)
	// Normalize wheel ticks: the zoom stage expects +1 per notch in.
	if dy > 1 {
		dy = 1
	} else if dy < -1 {
		dy = -1
	}
	s.dispatch(scene.EventWheel, e.Position, float64(e.Scrolled.DX), dy)
}

func (s *SceneWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 244, G: 244, B: 244, A: 255})
	return &sceneWidgetRenderer{sw: s, bg: bg, objects: []fyne.CanvasObject{bg}}
}

type sceneWidgetRenderer struct {
	sw      *SceneWidget
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *sceneWidgetRenderer) Destroy()                     {}
func (r *sceneWidgetRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sceneWidgetRenderer) MinSize() fyne.Size           { return fyne.NewSize(400, 300) }

func (r *sceneWidgetRenderer) Refresh() {
	r.Layout(r.sw.Size())
	canvas.Refresh(r.sw)
}

// Layout rebuilds the object list from the document on every pass. Scenes are
// small (hundreds of items), so rebuilding beats diffing for simplicity.
func (r *sceneWidgetRenderer) Layout(size fyne.Size) {
	sc := r.sw.sc
	sc.Viewport.ViewW = float64(size.Width)
	sc.Viewport.ViewH = float64(size.Height)

	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	objs := []fyne.CanvasObject{r.bg}

	for _, idx := range sc.Doc.PaintOrder() {
		it := &sc.Doc.Items[idx]
		objs = append(objs, r.itemObjects(it)...)
	}
	if sel := sc.Doc.ItemByID(sc.Selected); sel != nil {
		objs = append(objs, r.selectionOverlay(sel)...)
	}
	if r.sw.ShowMinimap {
		objs = append(objs, r.minimapObjects(size)...)
	}
	r.objects = objs
}

func (r *sceneWidgetRenderer) devRect(b vector.Rect) (fyne.Position, fyne.Size) {
	vp := r.sw.sc.Viewport
	p := vp.SceneToDevice(vector.Pt{X: b.X, Y: b.Y})
	return fyne.NewPos(float32(p.X), float32(p.Y)),
		fyne.NewSize(float32(b.W*vp.Zoom), float32(b.H*vp.Zoom))
}

func (r *sceneWidgetRenderer) itemObjects(it *domain.Item) []fyne.CanvasObject {
	b := it.Bounds()
	pos, size := r.devRect(b)
	zoom := r.sw.sc.Viewport.Zoom

	switch it.Type {
	case domain.TypeNote:
		return r.noteObjects(it, pos, size, zoom)

	case domain.TypeRect:
		rect := canvas.NewRectangle(color.Transparent)
		if it.BackgroundTransparent == nil || !*it.BackgroundTransparent {
			rect.FillColor = uiHexColor(it.BackgroundColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
		rect.StrokeColor = uiHexColor(it.FrameColor, color.RGBA{A: 255})
		rect.StrokeWidth = float32(math.Max(it.FrameWidth, 1) * zoom)
		rect.CornerRadius = float32(it.CornerRadius * zoom)
		rect.Move(pos)
		rect.Resize(size)
		return []fyne.CanvasObject{rect}

	case domain.TypeArrow:
		return r.arrowObjects(it, b)

	case domain.TypeMarker:
		c := canvas.NewCircle(color.RGBA{R: 220, G: 60, B: 60, A: 255})
		c.Move(pos)
		c.Resize(size)
		objs := []fyne.CanvasObject{c}
		if (it.ShowCaption == nil || *it.ShowCaption) && it.Caption != "" {
			objs = append(objs, r.captionText(it, pos, size))
		}
		return objs

	default: // image, animation, pdf, url, launcher, project
		return r.mediaObjects(it, pos, size)
	}
}

func (r *sceneWidgetRenderer) noteObjects(it *domain.Item, pos fyne.Position, size fyne.Size, zoom float64) []fyne.CanvasObject {
	bgCol := color.RGBA{R: 255, G: 253, B: 231, A: 255}
	if it.FillBackground && it.BgColor != "" {
		bgCol = uiHexColor(it.BgColor, bgCol)
	}
	rect := canvas.NewRectangle(bgCol)
	rect.StrokeColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	rect.StrokeWidth = 1
	rect.Move(pos)
	rect.Resize(size)
	objs := []fyne.CanvasObject{rect}

	fontSize := float32(13 * zoom)
	if it.FontSize > 0 {
		fontSize = float32(float64(it.FontSize) * zoom)
	}
	lineH := fontSize * 1.3
	scrollOff := float32(0)
	if st := r.sw.sc.State(it.ID); st != nil {
		scrollOff = float32(st.ScrollOffset * zoom)
	}
	y := pos.Y + 2 - scrollOff
	for _, line := range strings.Split(it.Text, "\n") {
		if y+lineH > pos.Y+size.Height {
			break
		}
		if y >= pos.Y {
			t := canvas.NewText(line, uiHexColor(it.Color, color.RGBA{A: 255}))
			t.TextSize = fontSize
			t.Move(fyne.NewPos(pos.X+4, y))
			objs = append(objs, t)
		}
		y += lineH
	}
	if it.Caption != "" {
		objs = append(objs, r.captionText(it, pos, size))
	}
	return objs
}

func (r *sceneWidgetRenderer) arrowObjects(it *domain.Item, b vector.Rect) []fyne.CanvasObject {
	vp := r.sw.sc.Viewport
	length := vector.ArrowLength(b.W, b.H, it.Angle)
	rad := it.Angle * math.Pi / 180
	c := b.Center()
	tip := vp.SceneToDevice(vector.Pt{X: c.X + math.Cos(rad)*length/2, Y: c.Y + math.Sin(rad)*length/2})
	tail := vp.SceneToDevice(vector.Pt{X: c.X - math.Cos(rad)*length/2, Y: c.Y - math.Sin(rad)*length/2})

	col := uiHexColor(it.FrameColor, color.RGBA{A: 255})
	width := float32(math.Max(it.FrameWidth, 2) * vp.Zoom)

	line := canvas.NewLine(col)
	line.StrokeWidth = width
	line.Position1 = fyne.NewPos(float32(tail.X), float32(tail.Y))
	line.Position2 = fyne.NewPos(float32(tip.X), float32(tip.Y))
	objs := []fyne.CanvasObject{line}

	if !it.IsLine {
		headLen := math.Min(12, length/3) * vp.Zoom
		for _, a := range []float64{rad + math.Pi*7/8, rad - math.Pi*7/8} {
			hl := canvas.NewLine(col)
			hl.StrokeWidth = width
			hl.Position1 = fyne.NewPos(float32(tip.X), float32(tip.Y))
			hl.Position2 = fyne.NewPos(float32(tip.X+math.Cos(a)*headLen), float32(tip.Y+math.Sin(a)*headLen))
			objs = append(objs, hl)
		}
	}
	return objs
}

func (r *sceneWidgetRenderer) mediaObjects(it *domain.Item, pos fyne.Position, size fyne.Size) []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	if img := r.itemImage(it); img != nil {
		ci := canvas.NewImageFromImage(img)
		ci.FillMode = canvas.ImageFillContain
		ci.Move(pos)
		ci.Resize(size)
		objs = append(objs, ci)
		if it.Brightness != nil {
			if alpha, white := domain.BrightnessOverlay(*it.Brightness); alpha > 0 {
				v := uint8(0)
				if white {
					v = 255
				}
				ov := canvas.NewRectangle(color.RGBA{R: v, G: v, B: v, A: alpha})
				ov.Move(pos)
				ov.Resize(size)
				objs = append(objs, ov)
			}
		}
	} else {
		ph := canvas.NewRectangle(color.RGBA{R: 238, G: 238, B: 238, A: 255})
		ph.StrokeColor = color.RGBA{R: 180, G: 60, B: 60, A: 255}
		ph.StrokeWidth = 1.5
		ph.Move(pos)
		ph.Resize(size)
		objs = append(objs, ph)
		name := it.Caption
		if name == "" {
			name = filepath.Base(it.Path)
		}
		t := canvas.NewText(name, color.RGBA{R: 60, G: 60, B: 60, A: 255})
		t.TextSize = 11
		t.Move(fyne.NewPos(pos.X+4, pos.Y+size.Height/2))
		objs = append(objs, t)
	}
	if it.Caption != "" {
		objs = append(objs, r.captionText(it, pos, size))
	}
	return objs
}

func (r *sceneWidgetRenderer) itemImage(it *domain.Item) image.Image {
	if !it.HasEmbeddedMedia() {
		return nil
	}
	if it.Type == domain.TypeGIF {
		if img := r.sw.gifFrame(it); img != nil {
			return img
		}
	}
	if img, ok := r.sw.imgCache[it.ID]; ok {
		return img
	}
	raw, err := media.DecodeEmbedded(it.EmbeddedData)
	if err != nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	r.sw.imgCache[it.ID] = img
	return img
}

func (r *sceneWidgetRenderer) captionText(it *domain.Item, pos fyne.Position, size fyne.Size) fyne.CanvasObject {
	t := canvas.NewText(it.Caption, color.RGBA{R: 68, G: 68, B: 68, A: 255})
	t.TextSize = 12
	t.Alignment = fyne.TextAlignCenter
	t.Move(fyne.NewPos(pos.X, pos.Y+size.Height+2))
	t.Resize(fyne.NewSize(size.Width, t.MinSize().Height))
	return t
}

func (r *sceneWidgetRenderer) selectionOverlay(it *domain.Item) []fyne.CanvasObject {
	pos, size := r.devRect(it.Bounds())
	box := canvas.NewRectangle(color.Transparent)
	box.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	if st := r.sw.sc.State(it.ID); st != nil && st.Mode() == scene.ModeScroll {
		box.StrokeColor = color.RGBA{R: 255, G: 170, B: 0, A: 255}
	}
	box.StrokeWidth = 2
	box.Move(fyne.NewPos(pos.X-2, pos.Y-2))
	box.Resize(fyne.NewSize(size.Width+4, size.Height+4))
	return []fyne.CanvasObject{box}
}

func (r *sceneWidgetRenderer) minimapObjects(size fyne.Size) []fyne.CanvasObject {
	sc := r.sw.sc
	bounds, ok := sc.Doc.ContentBounds()
	if !ok {
		return nil
	}
	mm := scene.Minimap{W: 200, H: 150, Margin: 12}
	s := mm.Scale(bounds)
	ox := size.Width - float32(mm.W) - float32(mm.Margin)
	oy := size.Height - float32(mm.H) - float32(mm.Margin)

	panel := canvas.NewRectangle(color.RGBA{R: 255, G: 255, B: 255, A: 230})
	panel.StrokeColor = color.RGBA{R: 153, G: 153, B: 153, A: 255}
	panel.StrokeWidth = 1
	panel.Move(fyne.NewPos(ox, oy))
	panel.Resize(fyne.NewSize(float32(mm.W), float32(mm.H)))
	objs := []fyne.CanvasObject{panel}

	for i := range sc.Doc.Items {
		b := sc.Doc.Items[i].Bounds()
		mark := canvas.NewRectangle(color.RGBA{R: 204, G: 204, B: 204, A: 255})
		mark.Move(fyne.NewPos(ox+float32((b.X-bounds.X)*s), oy+float32((b.Y-bounds.Y)*s)))
		mark.Resize(fyne.NewSize(float32(math.Max(b.W*s, 2)), float32(math.Max(b.H*s, 2))))
		objs = append(objs, mark)
	}

	view := sc.Viewport.VisibleRect()
	vr := canvas.NewRectangle(color.Transparent)
	vr.StrokeColor = color.RGBA{R: 204, G: 51, B: 51, A: 255}
	vr.StrokeWidth = 1
	vr.Move(fyne.NewPos(ox+float32((view.X-bounds.X)*s), oy+float32((view.Y-bounds.Y)*s)))
	vr.Resize(fyne.NewSize(float32(view.W*s), float32(view.H*s)))
	objs = append(objs, vr)
	return objs
}

// uiHexColor parses #rgb/#rrggbb/#rrggbbaa with a fallback.
func uiHexColor(s string, def color.RGBA) color.RGBA {
	s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6, 8:
	default:
		return def
	}
	v, err := strconv.ParseUint(s[:6], 16, 32)
	if err != nil {
		return def
	}
	c := color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
	if len(s) == 8 {
		if a, err := strconv.ParseUint(s[6:8], 16, 16); err == nil {
			c.A = uint8(a)
		}
	}
	return c
}
