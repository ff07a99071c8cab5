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

// Package lisp executes source against the embedded GoLisp interpreter.
// The interpreter's global symbol table is process-wide, so definitions
// persist across executions and across executor instances.
package lisp

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/steelseries/golisp"

	"github.com/runepad/runepad/execution"
)

// bindOnce guards the host primitives; the interpreter's global symbol
// table is shared by every executor in the process.
var bindOnce sync.Once

type Executor struct {
	mu sync.Mutex
}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) GetDisplayName() string {
	return "Lisp"
}

func (e *Executor) IsReady() bool {
	return true
}

func (e *Executor) Execute(source string) (any, error) {
	if strings.TrimSpace(source) == "" {
		return nil, execution.ErrInvalidInput
	}
	bindOnce.Do(bindPrimitives)
	e.mu.Lock()
	defer e.mu.Unlock()
	value, err := golisp.ParseAndEval(source)
	if err != nil {
		return nil, &execution.ExecutionError{Message: err.Error(), Err: err}
	}
	return fromLisp(value), nil
}

func bindPrimitives() {
	golisp.MakePrimitiveFunction("host-env", "1", HostEnvImpl)
}

func HostEnvImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (result *golisp.Data, err error) {
	name := golisp.Car(args)
	if !golisp.StringP(name) {
		return nil, errors.New("host-env requires a string argument")
	}
	return golisp.StringWithValue(os.Getenv(golisp.StringValue(name))), nil
}

// fromLisp converts interpreter values with a natural host form; other
// forms convert to their printed representation.
func fromLisp(d *golisp.Data) any {
	if d == nil || golisp.NilP(d) {
		return nil
	}
	switch {
	case golisp.BooleanP(d):
		return golisp.BooleanValue(d)
	case golisp.IntegerP(d):
		return golisp.IntegerValue(d)
	case golisp.FloatP(d):
		return float64(golisp.FloatValue(d))
	case golisp.StringP(d):
		return golisp.StringValue(d)
	case golisp.PairP(d):
		var items []any
		for cell := d; cell != nil && golisp.PairP(cell); cell = golisp.Cdr(cell) {
			items = append(items, fromLisp(golisp.Car(cell)))
		}
		return items
	}
	return golisp.String(d)
}
