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

// Package execution routes source text to language executors and turns
// whatever they produce into a structured Outcome. The engine never lets
// an executor failure escape as a panic or error; callers always receive
// an Outcome.
package execution

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/runepad/runepad/display"
	"github.com/runepad/runepad/types"
)

// An Outcome reports one execution attempt. RawResult is present only on
// success; Err is present only on failure. Only FormattedResult outlives
// the call, in the results register.
type Outcome struct {
	Success         bool
	RawResult       any
	FormattedResult string
	Language        string
	Err             error
}

// RegisterLookup resolves a register name to its stored text.
type RegisterLookup func(key string) (string, bool)

// ResultSink receives the formatted result of each successful execution.
type ResultSink interface {
	Set(name string, value string)
}

// An Engine maps language names and aliases to executors. Names are
// case-folded; the last registration for a name wins.
type Engine struct {
	mu              sync.RWMutex
	executors       map[string]types.Executor
	defaultLanguage string
	results         ResultSink
}

func NewEngine(results ResultSink) *Engine {
	return &Engine{
		executors: make(map[string]types.Executor),
		results:   results,
	}
}

func (e *Engine) RegisterExecutor(name string, executor types.Executor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executors[strings.ToLower(name)] = executor
}

func (e *Engine) SetDefaultLanguage(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := strings.ToLower(name)
	if _, ok := e.executors[key]; !ok {
		return &LanguageError{Name: name}
	}
	e.defaultLanguage = key
	return nil
}

func (e *Engine) GetDefaultLanguage() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.defaultLanguage
}

// Supports reports whether a language name or alias is registered.
func (e *Engine) Supports(language string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.executors[strings.ToLower(language)]
	return ok
}

// Languages returns the registered names and aliases, sorted.
func (e *Engine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.executors))
	for name := range e.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs source in the named language, or the default language when
// language is empty. The formatted result of a successful run is written
// to the results register; a failed run leaves the register untouched.
func (e *Engine) Execute(source string, language string) Outcome {
	key := strings.ToLower(language)
	if key == "" {
		key = e.GetDefaultLanguage()
	}
	e.mu.RLock()
	executor, ok := e.executors[key]
	e.mu.RUnlock()
	if !ok {
		return e.failed(key, &LanguageError{Name: key})
	}
	raw, err := e.run(executor, source)
	if err != nil {
		return e.failed(key, err)
	}
	formatted := display.Format(raw)
	if e.results != nil {
		e.results.Set(types.ResultsRegister, formatted)
	}
	return Outcome{
		Success:         true,
		RawResult:       raw,
		FormattedResult: formatted,
		Language:        key,
	}
}

// ExecuteFromRegister resolves source text through a caller-supplied
// register lookup and executes it. Lookup failures produce failed
// Outcomes without invoking any executor.
func (e *Engine) ExecuteFromRegister(key string, lookup RegisterLookup, language string) Outcome {
	lang := strings.ToLower(language)
	if lang == "" {
		lang = e.GetDefaultLanguage()
	}
	if lookup == nil {
		return e.failed(lang, &RegisterError{Key: key})
	}
	source, ok := lookup(key)
	if !ok {
		return e.failed(lang, &RegisterError{Key: key})
	}
	if strings.TrimSpace(source) == "" {
		return e.failed(lang, ErrNoCode)
	}
	return e.Execute(source, lang)
}

// run guards the executor call; a panicking executor becomes a failure.
func (e *Engine) run(executor types.Executor, source string) (raw any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExecutionError{Message: fmt.Sprintf("%v", r)}
		}
	}()
	return executor.Execute(source)
}

func (e *Engine) failed(language string, err error) Outcome {
	return Outcome{
		Success:         false,
		FormattedResult: "Error: " + failureMessage(err),
		Language:        language,
		Err:             err,
	}
}
