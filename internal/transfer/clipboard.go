/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transfer

import (
	"log/slog"

	"github.com/atotto/clipboard"

	"deskcanvas/internal/domain"
	applog "deskcanvas/internal/log"
)

// CopyToClipboard encodes the selection and places it on the system
// clipboard as text.
func CopyToClipboard(items []domain.Item) error {
	data, err := Encode(items)
	if err != nil {
		return err
	}
	return clipboard.WriteAll(string(data))
}

// PasteFromClipboard reads the system clipboard and inserts its items at
// the given scene point. Non-payload clipboard content is a no-op paste
// and returns no ids and no error.
func PasteFromClipboard(doc *domain.Document, atX, atY float64) ([]int64, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, err
	}
	p, err := Decode([]byte(text))
	if err != nil {
		applog.WithComponent("transfer").Debug("clipboard content is not a selection",
			slog.Any("err", err))
		return nil, nil
	}
	return PasteAt(doc, p, atX, atY), nil
}
