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

package execution

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrExecutionFailed      = errors.New("execution failed")
	ErrInitializationFailed = errors.New("initialization failed")
	ErrUnsupportedLanguage  = errors.New("unsupported language")
	ErrRegisterNotFound     = errors.New("register not found")
	ErrNoCode               = errors.New("no code found")
)

// ExecutionError reports that source ran and failed. Message is the
// underlying runtime's message text, unrewritten.
type ExecutionError struct {
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	return "execution failed: " + e.Message
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailed
}

// InitializationError reports that a lazily-loaded runtime failed to load.
type InitializationError struct {
	Message string
	Err     error
}

func (e *InitializationError) Error() string {
	return "initialization failed: " + e.Message
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

func (e *InitializationError) Is(target error) bool {
	return target == ErrInitializationFailed
}

// LanguageError reports a language with no registered executor.
type LanguageError struct {
	Name string
}

func (e *LanguageError) Error() string {
	return "unsupported language: " + e.Name
}

func (e *LanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// RegisterError reports a register lookup that yielded nothing.
type RegisterError struct {
	Key string
}

func (e *RegisterError) Error() string {
	return "register not found: " + e.Key
}

func (e *RegisterError) Is(target error) bool {
	return target == ErrRegisterNotFound
}

// failureMessage extracts the text shown where a result would have shown.
func failureMessage(err error) string {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Message
	}
	var initErr *InitializationError
	if errors.As(err, &initErr) {
		return initErr.Message
	}
	return err.Error()
}
