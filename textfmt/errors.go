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

package textfmt

import "errors"

var (
	ErrNoText            = errors.New("no text to format")
	ErrNoData            = errors.New("no data to format")
	ErrInvalidJSON       = errors.New("invalid JSON")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// InvalidJSONError reports a parse failure, preserving the parser's
// message text.
type InvalidJSONError struct {
	Message string
}

func (e *InvalidJSONError) Error() string {
	return "invalid JSON: " + e.Message
}

func (e *InvalidJSONError) Is(target error) bool {
	return target == ErrInvalidJSON
}

// UnsupportedFormatError reports a format type the formatter does not
// recognize, or a failed auto-detection.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported format: " + e.Format
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}
