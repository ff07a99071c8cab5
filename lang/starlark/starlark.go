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

// Package starlark executes source against an embedded Starlark
// interpreter. The interpreter's environment loads lazily, once, on first
// use; module globals persist across executions for the lifetime of the
// process.
package starlark

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	starlarkjson "go.starlark.net/lib/json"
	starlarkmath "go.starlark.net/lib/math"
	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/runepad/runepad/execution"
	"github.com/runepad/runepad/types"
)

type state int

const (
	stateUninitialized state = iota
	stateLoading
	stateReady
)

// A Loader builds the predeclared environment for the interpreter.
type Loader func() (starlark.StringDict, error)

// An initAttempt is shared by every caller waiting on one initialization.
type initAttempt struct {
	done chan struct{}
	err  error
}

type Executor struct {
	mu          sync.Mutex
	state       state
	attempt     *initAttempt
	loader      Loader
	predeclared starlark.StringDict

	runMu   sync.Mutex
	globals starlark.StringDict
	output  io.Writer
}

func NewExecutor() *Executor {
	return &Executor{
		loader:  StandardLoader,
		globals: make(starlark.StringDict),
		output:  os.Stdout,
	}
}

// StandardLoader declares the interpreter's standard environment.
func StandardLoader() (starlark.StringDict, error) {
	return starlark.StringDict{
		"json":   starlarkjson.Module,
		"math":   starlarkmath.Module,
		"time":   starlarktime.Module,
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
		"env":    starlark.NewBuiltin("env", hostEnv),
	}, nil
}

func hostEnv(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs("env", args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	return starlark.String(os.Getenv(name)), nil
}

// SetLoader replaces the environment loader. Only meaningful before the
// first execution.
func (e *Executor) SetLoader(loader Loader) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loader = loader
}

// SetOutput routes print output.
func (e *Executor) SetOutput(w io.Writer) {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	e.output = w
}

func (e *Executor) GetDisplayName() string {
	return "Starlark"
}

func (e *Executor) IsReady() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateReady
}

// Execute evaluates source as an expression when it parses as one, or
// runs it as a program otherwise. Programs produce no value; their
// bindings persist for later executions.
func (e *Executor) Execute(source string) (any, error) {
	if strings.TrimSpace(source) == "" {
		return nil, execution.ErrInvalidInput
	}
	if err := e.ensureReady(); err != nil {
		return nil, err
	}

	e.runMu.Lock()
	defer e.runMu.Unlock()
	thread := &starlark.Thread{Name: "runepad", Print: e.print}
	if _, err := syntax.ParseExpr("scratch.star", source, 0); err == nil {
		value, err := starlark.Eval(thread, "scratch.star", source, e.environment())
		if err != nil {
			return nil, wrapError(err)
		}
		return fromStarlark(value), nil
	}
	globals, err := starlark.ExecFile(thread, "scratch.star", source, e.environment())
	if err != nil {
		return nil, wrapError(err)
	}
	for name, value := range globals {
		e.globals[name] = value
	}
	return types.Undefined{}, nil
}

// ensureReady drives the Uninitialized/Loading/Ready machine. Concurrent
// first callers share one attempt; a failed attempt returns the executor
// to Uninitialized so a later call can retry.
func (e *Executor) ensureReady() error {
	e.mu.Lock()
	switch e.state {
	case stateReady:
		e.mu.Unlock()
		return nil
	case stateLoading:
		attempt := e.attempt
		e.mu.Unlock()
		<-attempt.done
		if attempt.err != nil {
			return &execution.InitializationError{Message: attempt.err.Error(), Err: attempt.err}
		}
		return nil
	}

	attempt := &initAttempt{done: make(chan struct{})}
	e.attempt = attempt
	e.state = stateLoading
	loader := e.loader
	e.mu.Unlock()

	predeclared, err := loader()

	e.mu.Lock()
	if err != nil {
		e.state = stateUninitialized
		e.attempt = nil
		e.mu.Unlock()
		log.Printf("environment load failed: %v", err)
		attempt.err = err
		close(attempt.done)
		return &execution.InitializationError{Message: err.Error(), Err: err}
	}
	e.predeclared = predeclared
	e.state = stateReady
	e.attempt = nil
	e.mu.Unlock()
	close(attempt.done)
	return nil
}

// environment layers persisted globals over the predeclared modules.
func (e *Executor) environment() starlark.StringDict {
	env := make(starlark.StringDict, len(e.predeclared)+len(e.globals))
	for name, value := range e.predeclared {
		env[name] = value
	}
	for name, value := range e.globals {
		env[name] = value
	}
	return env
}

func (e *Executor) print(thread *starlark.Thread, msg string) {
	fmt.Fprintln(e.output, msg)
}

func wrapError(err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return &execution.ExecutionError{Message: evalErr.Msg, Err: err}
	}
	return &execution.ExecutionError{Message: err.Error(), Err: err}
}

// fromStarlark converts interpreter values with a natural host form.
// Anything without one is returned as-is and displays through its own
// string form.
func fromStarlark(value starlark.Value) any {
	return fromStarlarkDepth(value, 0)
}

// Starlark lists can contain themselves; recursion stops at a fixed depth.
const convertDepthLimit = 64

func fromStarlarkDepth(value starlark.Value, depth int) any {
	if depth > convertDepthLimit {
		return value.String()
	}
	switch v := value.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.BigInt()
	case starlark.Float:
		return float64(v)
	case starlark.String:
		return string(v)
	case *starlark.List:
		items := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = fromStarlarkDepth(v.Index(i), depth+1)
		}
		return items
	case starlark.Tuple:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = fromStarlarkDepth(item, depth+1)
		}
		return items
	case *starlark.Dict:
		out := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			name := ""
			if s, ok := item[0].(starlark.String); ok {
				name = string(s)
			} else {
				name = item[0].String()
			}
			out[name] = fromStarlarkDepth(item[1], depth+1)
		}
		return out
	}
	return value
}
