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

// Package textfmt detects and rewrites structured text: JSON
// pretty-printing with sorted keys, whitespace normalization, and
// delimiter-detected table alignment.
package textfmt

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Recognized format types.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatClean   = "clean"
	FormatTable   = "table"
	FormatUnknown = "unknown"
)

const minColumnWidth = 3

var multiSpace = regexp.MustCompile(`\s{2,}`)

// A Result carries the rewritten text and the format that produced it.
type Result struct {
	Text   string
	Format string
}

// Format rewrites text as the given format type. The empty string and
// FormatAuto run detection first; detection failure is an error.
func Format(text string, formatType string) (Result, error) {
	if formatType == "" || formatType == FormatAuto {
		detected := Detect(text)
		if detected == FormatUnknown {
			return Result{}, &UnsupportedFormatError{Format: FormatAuto}
		}
		formatType = detected
	}
	switch formatType {
	case FormatJSON:
		out, err := formatJSON(text)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: out, Format: FormatJSON}, nil
	case FormatClean:
		return Result{Text: formatClean(text), Format: FormatClean}, nil
	case FormatTable:
		out, err := formatTable(text)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: out, Format: FormatTable}, nil
	}
	return Result{}, &UnsupportedFormatError{Format: formatType}
}

// Detect reports the format of text. Only structured data is recognized;
// anything else is FormatUnknown.
func Detect(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= 2 {
		first, last := trimmed[0], trimmed[len(trimmed)-1]
		if (first == '{' && last == '}') || (first == '[' && last == ']') {
			var probe any
			if json.Unmarshal([]byte(trimmed), &probe) == nil {
				return FormatJSON
			}
		}
	}
	return FormatUnknown
}

// formatJSON reparses text as JSON and reserializes it with 4-space
// indentation. Object keys come out sorted at every nesting level.
func formatJSON(text string) (string, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return "", &InvalidJSONError{Message: err.Error()}
	}
	out, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return "", &InvalidJSONError{Message: err.Error()}
	}
	return string(out), nil
}

// formatClean strips trailing whitespace from every line, drops trailing
// empty lines, and normalizes line endings. Idempotent.
func formatClean(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// formatTable splits delimited text into cells and renders a pipe-bordered
// table with a separator rule under the first row.
func formatTable(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	var lines []string
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	delimiter := detectDelimiter(lines[0])

	var rows [][]string
	columnCount := 0
	for _, line := range lines {
		var cells []string
		if delimiter == "" {
			cells = multiSpace.Split(strings.TrimSpace(line), -1)
		} else {
			cells = strings.Split(line, delimiter)
		}
		row := make([]string, len(cells))
		empty := true
		for i, cell := range cells {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
		if len(row) > columnCount {
			columnCount = len(row)
		}
	}
	if len(rows) == 0 {
		return "", ErrNoData
	}

	widths := make([]int, columnCount)
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for i, row := range rows {
		for len(row) < columnCount {
			row = append(row, "")
		}
		rows[i] = row
		for c, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}

	var b strings.Builder
	for i, row := range rows {
		writeTableRow(&b, row, widths)
		if i == 0 {
			writeTableRule(&b, widths)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeTableRow(b *strings.Builder, row []string, widths []int) {
	b.WriteString("|")
	for c, cell := range row {
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[c]-runewidth.StringWidth(cell)))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeTableRule(b *strings.Builder, widths []int) {
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
}

// detectDelimiter counts candidate delimiters in the first line. The most
// frequent non-comma delimiter wins when it meets or exceeds the comma
// count; the empty string selects the multi-space fallback.
func detectDelimiter(line string) string {
	commas := strings.Count(line, ",")
	best := ""
	bestCount := 0
	for _, candidate := range []string{"\t", "|", ";"} {
		if count := strings.Count(line, candidate); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	if bestCount > 0 && bestCount >= commas {
		return best
	}
	if commas > 0 {
		return ","
	}
	return ""
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}
