/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

func TestEnvOverridesSnap(t *testing.T) {
	old := os.Getenv(EnvSnapEnabled)
	_ = os.Setenv(EnvSnapEnabled, "off")
	t.Cleanup(func() { _ = os.Setenv(EnvSnapEnabled, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.SnapEnabled {
		t.Fatalf("Canvas.SnapEnabled expected false from env override")
	}
}

func TestEnvOverridesAutosave(t *testing.T) {
	old := os.Getenv(EnvAutosaveSec)
	_ = os.Setenv(EnvAutosaveSec, "30")
	t.Cleanup(func() { _ = os.Setenv(EnvAutosaveSec, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Canvas.AutosaveSec, 30; got != want {
		t.Fatalf("Canvas.AutosaveSec = %d, want %d", got, want)
	}
}

func TestMergeIncludesCanvas(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Canvas.SnapEnabled = false
	src.Canvas.AutosaveSec = 45
	src.Canvas.RecentFiles = []string{"/tmp/a.json"}
	mergeInto(&dst, &src)
	if dst.Canvas.SnapEnabled || dst.Canvas.AutosaveSec != 45 || len(dst.Canvas.RecentFiles) != 1 {
		t.Fatalf("canvas fields not merged correctly: %#v", dst.Canvas)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/dcv.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/dcv.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/dcv.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/dcv.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestRememberRecentDedupesAndCaps(t *testing.T) {
	cfg := Defaults()
	cfg.Canvas.MaxRecent = 3
	for _, p := range []string{"/a", "/b", "/c", "/b", "/d"} {
		cfg.RememberRecent(p)
	}
	got := cfg.Canvas.RecentFiles
	if len(got) != 3 || got[0] != "/d" || got[1] != "/b" || got[2] != "/c" {
		t.Fatalf("recent list wrong: %v", got)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	old := os.Getenv(EnvLogLevel)
	_ = os.Setenv(EnvLogLevel, "warn")
	t.Cleanup(func() { _ = os.Setenv(EnvLogLevel, old) })
	name, ok := EnvOverrideFor("logging.level")
	if !ok || name != EnvLogLevel {
		t.Fatalf("EnvOverrideFor = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("nonexistent.key"); ok {
		t.Fatalf("unexpected override for unknown key")
	}
}
