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
package types

// Well-known registers
const (
	ResultsRegister = "r"
)

// Built-in language names
const (
	LanguageJavaScript = "javascript"
	LanguageStarlark   = "starlark"
	LanguageLisp       = "lisp"
)

// Undefined marks the absence of a value, as distinct from a null value.
type Undefined struct{}

func (u Undefined) String() string {
	return "undefined"
}

// Function carries the source text of a callable execution result.
type Function struct {
	Source string
}

type Executor interface {
	Execute(source string) (any, error)
	GetDisplayName() string
	IsReady() bool
}

type Registers interface {
	Set(name string, value string)
	Get(name string) (string, bool)
	Clear(name string)
	Names() []string
}
