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

package display

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/runepad/runepad/types"
)

const (
	inlineFunctionLimit = 100
	inlineArrayLimit    = 5
	normalizeDepthLimit = 64
)

var (
	functionPattern = regexp.MustCompile(`^(async\s+)?function\s*\*?\s*([A-Za-z_$][0-9A-Za-z_$]*)?\s*\(`)
	arrowPattern    = regexp.MustCompile(`^(async\s+)?(\([^)]*\)|[A-Za-z_$][0-9A-Za-z_$]*)\s*=>`)
)

// Format converts an execution result to its canonical display string.
// It accepts any value and never fails.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case types.Undefined:
		return "undefined"
	case types.Function:
		return formatFunction(v.Source)
	case time.Time:
		return v.UTC().Format("2006-01-02T15:04:05.000Z")
	case *big.Int:
		return v.String() + "n"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return formatString(v)
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case error:
		return "Error: " + v.Error()
	case []any:
		return formatSlice(v)
	}
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Func:
		return "[Function]"
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
		return formatSlice(items)
	case reflect.Map, reflect.Struct, reflect.Ptr:
		return formatObject(value)
	}
	return fmt.Sprintf("%v", value)
}

// FormatForConsole prepares a value for interactive console inspection.
// Composite values pass through unmodified so the console can expand them;
// primitives are formatted as usual.
func FormatForConsole(value any) any {
	switch value.(type) {
	case nil, types.Undefined, time.Time, *big.Int, bool, string,
		float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, error:
		return Format(value)
	case types.Function, []any:
		return value
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Ptr:
		return value
	}
	return Format(value)
}

func formatString(s string) string {
	if strings.ContainsAny(s, "\n\t\"") {
		return strconv.Quote(s)
	}
	return s
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs > 1e10 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	// round away binary floating-point artifacts like 0.30000000000000004
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > 10 {
		return strconv.FormatFloat(f, 'g', 12, 64)
	}
	return s
}

func formatFunction(source string) string {
	src := strings.TrimSpace(source)
	if src != "" && len(src) <= inlineFunctionLimit && !strings.Contains(src, "\n") {
		return src
	}
	if m := functionPattern.FindStringSubmatch(src); m != nil {
		name := m[2]
		if name == "" {
			name = "anonymous"
		}
		if m[1] != "" {
			return "async function " + name + "() { ... }"
		}
		return "function " + name + "() { ... }"
	}
	if arrowPattern.MatchString(src) {
		return "(...) => { ... }"
	}
	return "[Function]"
}

func formatSlice(items []any) string {
	if len(items) == 0 {
		return "[]"
	}
	if len(items) <= inlineArrayLimit && allPrimitive(items) {
		if data, err := json.Marshal(normalize(items, 0)); err == nil {
			return string(data)
		}
	}
	return formatObject(items)
}

func formatObject(value any) string {
	data, err := json.MarshalIndent(normalize(value, 0), "", "    ")
	if err != nil {
		return "[" + reflect.TypeOf(value).String() + "]"
	}
	return string(data)
}

func allPrimitive(items []any) bool {
	for _, item := range items {
		switch item.(type) {
		case nil, bool, string, float64, float32,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
		default:
			return false
		}
	}
	return true
}

// normalize rewrites the value kinds the JSON encoder cannot represent.
// Recursion stops at a fixed depth; cyclic structures are left for the
// encoder to reject.
func normalize(value any, depth int) any {
	if depth > normalizeDepthLimit {
		return value
	}
	switch v := value.(type) {
	case types.Undefined:
		return nil
	case types.Function:
		return "[Function]"
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item, depth+1)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for name, item := range v {
			out[name] = normalize(item, depth+1)
		}
		return out
	}
	return value
}
