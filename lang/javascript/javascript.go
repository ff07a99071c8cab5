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

// Package javascript executes source against an embedded ECMAScript
// runtime driven by an event loop, so timers and promises work the way a
// scratchpad user expects. Scripts get full ambient host access; this is
// a scratchpad tool, not a sandbox.
package javascript

import (
	"errors"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"

	"github.com/runepad/runepad/execution"
	"github.com/runepad/runepad/types"
)

type execResult struct {
	value any
	err   error
}

// An Executor owns one runtime and its event loop. Program state persists
// across executions for the lifetime of the process.
type Executor struct {
	loop *eventloop.EventLoop
}

func NewExecutor() *Executor {
	loop := eventloop.NewEventLoop()
	loop.Start()
	e := &Executor{loop: loop}
	e.loop.RunOnLoop(bindHost)
	return e
}

// bindHost exposes a few host capabilities to scripts.
func bindHost(vm *goja.Runtime) {
	vm.Set("readFile", func(path string) (string, error) {
		data, err := os.ReadFile(path)
		return string(data), err
	})
	vm.Set("writeFile", func(path string, content string) error {
		return os.WriteFile(path, []byte(content), 0644)
	})
	vm.Set("env", func(name string) string {
		return os.Getenv(name)
	})
	vm.Set("now", func() int64 {
		return time.Now().UnixMilli()
	})
}

func (e *Executor) GetDisplayName() string {
	return "JavaScript"
}

func (e *Executor) IsReady() bool {
	return true
}

// Execute runs source on the event loop. A promise result blocks the
// caller until the promise settles; a promise that never settles blocks
// forever, as there is no cancellation.
func (e *Executor) Execute(source string) (any, error) {
	if strings.TrimSpace(source) == "" {
		return nil, execution.ErrInvalidInput
	}
	results := make(chan execResult, 1)
	e.loop.RunOnLoop(func(vm *goja.Runtime) {
		value, err := vm.RunString(source)
		if err != nil {
			results <- execResult{err: wrapException(err)}
			return
		}
		if promise, ok := value.Export().(*goja.Promise); ok {
			settle(vm, value, promise, results)
			return
		}
		results <- execResult{value: fromValue(vm, value)}
	})
	r := <-results
	return r.value, r.err
}

// settle delivers a promise's value once it settles. A still-pending
// promise gets then-callbacks scheduled on the loop.
func settle(vm *goja.Runtime, value goja.Value, promise *goja.Promise, results chan execResult) {
	switch promise.State() {
	case goja.PromiseStateFulfilled:
		results <- execResult{value: fromValue(vm, promise.Result())}
		return
	case goja.PromiseStateRejected:
		results <- execResult{err: rejectionError(promise.Result())}
		return
	}
	then, ok := goja.AssertFunction(value.ToObject(vm).Get("then"))
	if !ok {
		results <- execResult{value: fromValue(vm, value)}
		return
	}
	onFulfilled := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		results <- execResult{value: fromValue(vm, call.Argument(0))}
		return goja.Undefined()
	})
	onRejected := vm.ToValue(func(call goja.FunctionCall) goja.Value {
		results <- execResult{err: rejectionError(call.Argument(0))}
		return goja.Undefined()
	})
	if _, err := then(value, onFulfilled, onRejected); err != nil {
		results <- execResult{err: wrapException(err)}
	}
}

// fromValue converts a runtime value to its host form. Must run on the
// loop goroutine.
func fromValue(vm *goja.Runtime, value goja.Value) any {
	if value == nil || goja.IsUndefined(value) {
		return types.Undefined{}
	}
	if goja.IsNull(value) {
		return nil
	}
	if _, ok := goja.AssertFunction(value); ok {
		return types.Function{Source: value.String()}
	}
	if err, ok := errorValue(value); ok {
		return err
	}
	exported := value.Export()
	switch v := exported.(type) {
	case time.Time:
		return v
	case *big.Int:
		return v
	}
	return exported
}

// errorValue recognizes runtime error objects by shape.
func errorValue(value goja.Value) (error, bool) {
	obj, ok := value.(*goja.Object)
	if !ok {
		return nil, false
	}
	name := obj.Get("name")
	message := obj.Get("message")
	if name == nil || message == nil || goja.IsUndefined(name) || goja.IsUndefined(message) {
		return nil, false
	}
	if !strings.HasSuffix(name.String(), "Error") {
		return nil, false
	}
	return errors.New(message.String()), true
}

func wrapException(err error) error {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return &execution.ExecutionError{Message: reasonMessage(ex.Value()), Err: err}
	}
	return &execution.ExecutionError{Message: err.Error(), Err: err}
}

func rejectionError(reason goja.Value) error {
	return &execution.ExecutionError{Message: reasonMessage(reason)}
}

// reasonMessage extracts the message of a thrown or rejected value.
func reasonMessage(reason goja.Value) string {
	if reason == nil {
		return "unknown error"
	}
	if obj, ok := reason.(*goja.Object); ok {
		if message := obj.Get("message"); message != nil && !goja.IsUndefined(message) {
			return message.String()
		}
	}
	return reason.String()
}
