//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package buffer

import (
	"testing"

	"github.com/runepad/runepad/types"
)

func TestLoadAndRoundTrip(t *testing.T) {
	b := NewBuffer("test")
	text := "first\nsecond\nthird"
	b.LoadString(text)
	if b.GetRowCount() != 3 {
		t.Errorf("expected 3 rows, got %d", b.GetRowCount())
	}
	if b.Text() != text {
		t.Errorf("round trip changed the text: %q", b.Text())
	}
	if b.GetRow(1) != "second" {
		t.Errorf("expected second, got %q", b.GetRow(1))
	}
	if b.GetRowLength(2) != len("third") {
		t.Errorf("wrong row length: %d", b.GetRowLength(2))
	}
	if b.GetRow(99) != "" {
		t.Errorf("out of range rows should be empty")
	}
}

func TestAppendAndClear(t *testing.T) {
	b := NewBuffer("test")
	if !b.IsEmpty() {
		t.Errorf("new buffer should be empty")
	}
	b.AppendLine("x = 1")
	b.AppendLine("x + 1")
	if b.Text() != "x = 1\nx + 1" {
		t.Errorf("unexpected text: %q", b.Text())
	}
	b.Clear()
	if !b.IsEmpty() {
		t.Errorf("cleared buffer should be empty")
	}
}

func TestLanguageFromFileName(t *testing.T) {
	tests := []struct {
		fileName string
		language string
	}{
		{"scratch.js", types.LanguageJavaScript},
		{"config.star", types.LanguageStarlark},
		{"tools.py", types.LanguageStarlark},
		{"prelude.lisp", types.LanguageLisp},
		{"notes.txt", ""},
	}
	for _, test := range tests {
		b := NewBuffer("test")
		b.SetFileName(test.fileName)
		if b.GetLanguage() != test.language {
			t.Errorf("%s: expected %q, got %q", test.fileName, test.language, b.GetLanguage())
		}
	}
}
