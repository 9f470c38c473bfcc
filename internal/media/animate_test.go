/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"time"
)

func encodeTestGIF(t *testing.T, frames int) []byte {
	t.Helper()
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 1) // 10ms
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func TestNewPlayerDecodesFrames(t *testing.T) {
	p, err := NewPlayer(encodeTestGIF(t, 3))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	if p.FrameCount() != 3 {
		t.Fatalf("frame count: %d", p.FrameCount())
	}
	if p.Current() == nil {
		t.Fatalf("current frame must be available before Run")
	}
}

func TestPlayerAdvancesAndStopsOnCancel(t *testing.T) {
	p, err := NewPlayer(encodeTestGIF(t, 2))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	advanced := make(chan struct{}, 8)
	p.OnFrame = func() {
		select {
		case advanced <- struct{}{}:
		default:
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-advanced:
	case <-time.After(2 * time.Second):
		t.Fatalf("player never advanced")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("player did not stop on cancel")
	}
}

func TestSingleFramePlayerNeverRuns(t *testing.T) {
	p, err := NewPlayer(encodeTestGIF(t, 1))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	p.Run(ctx) // must return immediately, not block until timeout
	if p.FrameCount() != 1 {
		t.Fatalf("frame count: %d", p.FrameCount())
	}
}

func TestNewPlayerRejectsGarbage(t *testing.T) {
	if _, err := NewPlayer([]byte("not a gif")); err == nil {
		t.Fatalf("garbage payload must fail to decode")
	}
}
