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
	"strings"

	"github.com/runepad/runepad/types"
)

// A Buffer holds the scratchpad text being accumulated and executed

type Buffer struct {
	Name     string
	fileName string
	language string
	rows     []string
}

func NewBuffer(name string) *Buffer {
	return &Buffer{Name: name, rows: make([]string, 0)}
}

func (b *Buffer) GetName() string {
	return b.Name
}

func (b *Buffer) GetFileName() string {
	return b.fileName
}

// GetLanguage returns the language inferred from the file name, or the
// empty string when there is none.
func (b *Buffer) GetLanguage() string {
	return b.language
}

func (b *Buffer) SetFileName(name string) {
	b.fileName = name
	b.Name = name
	b.language = LanguageForFileName(name)
}

// LanguageForFileName maps a file extension to a registered language name,
// or "" when the extension names no language.
func LanguageForFileName(name string) string {
	switch {
	case strings.HasSuffix(name, ".js"):
		return types.LanguageJavaScript
	case strings.HasSuffix(name, ".star"), strings.HasSuffix(name, ".py"):
		return types.LanguageStarlark
	case strings.HasSuffix(name, ".lisp"), strings.HasSuffix(name, ".lsp"):
		return types.LanguageLisp
	default:
		return ""
	}
}

func (b *Buffer) LoadString(text string) {
	b.rows = strings.Split(text, "\n")
}

func (b *Buffer) LoadBytes(data []byte) {
	b.LoadString(string(data))
}

func (b *Buffer) Text() string {
	return strings.Join(b.rows, "\n")
}

func (b *Buffer) Bytes() []byte {
	return []byte(b.Text())
}

func (b *Buffer) AppendLine(line string) {
	b.rows = append(b.rows, line)
}

func (b *Buffer) Clear() {
	b.rows = make([]string, 0)
}

func (b *Buffer) IsEmpty() bool {
	return len(b.rows) == 0 || (len(b.rows) == 1 && b.rows[0] == "")
}

func (b *Buffer) GetRowCount() int {
	return len(b.rows)
}

func (b *Buffer) GetRow(i int) string {
	if i >= 0 && i < len(b.rows) {
		return b.rows[i]
	}
	return ""
}

func (b *Buffer) GetRowLength(i int) int {
	return len(b.GetRow(i))
}
