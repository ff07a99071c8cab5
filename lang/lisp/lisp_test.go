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

package lisp

import (
	"errors"
	"reflect"
	"testing"

	"github.com/runepad/runepad/execution"
)

func TestExecuteExpression(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != int64(3) {
		t.Errorf("expected 3, got %v (%T)", result, result)
	}
}

func TestStringsAndFloats(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute(`"hello"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "hello" {
		t.Errorf("expected hello, got %v", result)
	}
	result, err = e.Execute("3.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 3.5 {
		t.Errorf("expected 3.5, got %v", result)
	}
}

func TestDefinitionsPersist(t *testing.T) {
	e := NewExecutor()
	if _, err := e.Execute("(define forty 40)"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := e.Execute("(+ forty 2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != int64(42) {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestListResults(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute("(list 1 2 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result, []any{int64(1), int64(2), int64(3)}) {
		t.Errorf("expected [1 2 3], got %v", result)
	}
}

func TestEvaluationErrors(t *testing.T) {
	e := NewExecutor()
	_, err := e.Execute("(no-such-function 1)")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, execution.ErrExecutionFailed) {
		t.Errorf("expected ErrExecutionFailed, got %v", err)
	}
}

func TestEmptySource(t *testing.T) {
	e := NewExecutor()
	if _, err := e.Execute("   "); !errors.Is(err, execution.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHostEnvPrimitive(t *testing.T) {
	t.Setenv("RUNEPAD_LISP_TEST", "bound")
	e := NewExecutor()
	result, err := e.Execute(`(host-env "RUNEPAD_LISP_TEST")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "bound" {
		t.Errorf("expected bound, got %v", result)
	}
}
