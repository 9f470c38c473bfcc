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
	"fmt"
	"image"
	"image/gif"
	"sync"
	"time"
)

// Player advances the frames of an animated GIF on its own timer and
// publishes the latest frame. The interaction core only ever reads the
// current frame; it never drives or waits on the timer.
type Player struct {
	frames []image.Image
	delays []time.Duration

	mu  sync.RWMutex
	cur int

	// OnFrame, when set, is called after each advance (e.g. to request a
	// canvas repaint). Called from the player goroutine.
	OnFrame func()
}

// NewPlayer decodes an animated GIF payload. A single-frame or non-animated
// payload yields a player that simply never advances.
func NewPlayer(data []byte) (*Player, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	p := &Player{}
	for i, img := range g.Image {
		p.frames = append(p.frames, img)
		d := time.Duration(g.Delay[i]) * 10 * time.Millisecond
		if d <= 0 {
			d = 100 * time.Millisecond
		}
		p.delays = append(p.delays, d)
	}
	return p, nil
}

// FrameCount returns the number of decoded frames.
func (p *Player) FrameCount() int { return len(p.frames) }

// Current returns the most recently published frame.
func (p *Player) Current() image.Image {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[p.cur]
}

// advance publishes the next frame and returns its display duration.
func (p *Player) advance() time.Duration {
	p.mu.Lock()
	p.cur = (p.cur + 1) % len(p.frames)
	d := p.delays[p.cur]
	p.mu.Unlock()
	if p.OnFrame != nil {
		p.OnFrame()
	}
	return d
}

// Run drives the frame timer until the context is cancelled. Fire and
// forget: callers never wait on it.
func (p *Player) Run(ctx context.Context) {
	if len(p.frames) < 2 {
		return
	}
	p.mu.RLock()
	next := p.delays[p.cur]
	p.mu.RUnlock()
	t := time.NewTimer(next)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			t.Reset(p.advance())
		}
	}
}
