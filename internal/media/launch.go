/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package media

import (
	"errors"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	applog "deskcanvas/internal/log"
)

// Launcher resolves a launcher item's target to an executable action.
// Consumers treat it as an opaque service; the default implementation
// shells out to the platform opener.
type Launcher interface {
	Launch(path, workdir string) error
}

// SystemLauncher opens targets with the OS default handler (xdg-open,
// open, or cmd start).
type SystemLauncher struct{}

func (SystemLauncher) Launch(path, workdir string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("launcher has no target path")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if workdir != "" {
		cmd.Dir = workdir
	}
	applog.WithComponent("media").Info("launching target",
		slog.String("path", path), slog.String("workdir", workdir))
	// Fire and forget; the process outlives the canvas interaction.
	return cmd.Start()
}

// NopLauncher ignores every launch request. Used by the read-only viewer
// and in tests.
type NopLauncher struct{}

func (NopLauncher) Launch(string, string) error { return nil }
