/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package media handles embedded payload formats, animation playback and
// launching of external targets.
package media

import (
	"bytes"
	"encoding/base64"
	"strings"
)

// Data-URL prefixes stored in an item's format field for embedded payloads.
const (
	FormatPNG  = "data:image/png;base64,"
	FormatJPEG = "data:image/jpeg;base64,"
	FormatGIF  = "data:image/gif;base64,"
	FormatSVG  = "data:image/svg+xml;base64,"
)

var magics = []struct {
	prefix []byte
	format string
}{
	{[]byte("\x89PNG\r\n\x1a\n"), FormatPNG},
	{[]byte("\xff\xd8\xff"), FormatJPEG},
	{[]byte("GIF87a"), FormatGIF},
	{[]byte("GIF89a"), FormatGIF},
	{[]byte("<svg"), FormatSVG},
	{[]byte("<?xml"), FormatSVG},
}

// SniffFormat classifies raw payload bytes by magic number and returns the
// matching data-URL prefix, or "" when the payload is not a recognized
// image format.
func SniffFormat(data []byte) string {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.prefix) {
			return m.format
		}
	}
	return ""
}

// SniffBase64 decodes just enough of a base64 payload to classify it.
// Invalid base64 yields "".
func SniffBase64(b64 string) string {
	head := b64
	if len(head) > 64 {
		head = head[:64]
	}
	// Trim to a decodable quantum so a truncated tail does not fail decode.
	head = head[:len(head)-len(head)%4]
	raw, err := base64.StdEncoding.DecodeString(head)
	if err != nil {
		return ""
	}
	return SniffFormat(raw)
}

// FormatFromDataURL normalizes a stored format field: a bare mime type or a
// full data URL both resolve to the canonical prefix. Unknown values fall
// back to PNG, the most common embedded payload.
func FormatFromDataURL(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	switch {
	case strings.Contains(f, "image/png"):
		return FormatPNG
	case strings.Contains(f, "image/jpeg"), strings.Contains(f, "image/jpg"):
		return FormatJPEG
	case strings.Contains(f, "image/gif"):
		return FormatGIF
	case strings.Contains(f, "image/svg"):
		return FormatSVG
	default:
		return FormatPNG
	}
}

// DecodeEmbedded decodes an embedded_data payload into raw bytes.
func DecodeEmbedded(b64 string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
}

// EncodeEmbedded encodes raw payload bytes for storage in embedded_data.
func EncodeEmbedded(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
