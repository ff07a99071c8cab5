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

package starlark

import (
	"bytes"
	"errors"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.starlark.net/starlark"

	"github.com/runepad/runepad/execution"
	"github.com/runepad/runepad/types"
)

func TestExecuteExpression(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute("1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != int64(3) {
		t.Errorf("expected 3, got %v (%T)", result, result)
	}
}

func TestGlobalsPersistAcrossExecutions(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute("x = 41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.(types.Undefined); !ok {
		t.Errorf("programs should produce no value, got %v (%T)", result, result)
	}
	result, err = e.Execute("x + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != int64(42) {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestValueConversions(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute(`[1, 2.5, "s", True, None]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []any{int64(1), 2.5, "s", true, nil}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %v, got %v", expected, result)
	}
	result, err = e.Execute(`{"a": 1, "b": [2]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectedMap := map[string]any{"a": int64(1), "b": []any{int64(2)}}
	if !reflect.DeepEqual(result, expectedMap) {
		t.Errorf("expected %v, got %v", expectedMap, result)
	}
}

func TestLargeIntegers(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute("1 << 80")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bigValue, ok := result.(*big.Int)
	if !ok {
		t.Fatalf("expected a big integer, got %T", result)
	}
	expected := new(big.Int).Lsh(big.NewInt(1), 80)
	if bigValue.Cmp(expected) != 0 {
		t.Errorf("expected %v, got %v", expected, bigValue)
	}
}

func TestStandardEnvironment(t *testing.T) {
	e := NewExecutor()
	result, err := e.Execute(`json.encode({"a": 1})`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != `{"a":1}` {
		t.Errorf("expected encoded JSON, got %v", result)
	}
}

func TestRuntimeErrors(t *testing.T) {
	e := NewExecutor()
	_, err := e.Execute(`fail("kaput")`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, execution.ErrExecutionFailed) {
		t.Errorf("expected ErrExecutionFailed, got %v", err)
	}
	var execErr *execution.ExecutionError
	if !errors.As(err, &execErr) || !strings.Contains(execErr.Message, "kaput") {
		t.Errorf("expected the runtime message to be preserved, got %v", err)
	}
}

func TestEmptySource(t *testing.T) {
	e := NewExecutor()
	if _, err := e.Execute("   \n"); !errors.Is(err, execution.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEnvironmentLoadsLazilyAndOnce(t *testing.T) {
	e := NewExecutor()
	var loads int32
	e.SetLoader(func() (starlark.StringDict, error) {
		atomic.AddInt32(&loads, 1)
		return StandardLoader()
	})
	if e.IsReady() {
		t.Fatalf("executor should not be ready before first use")
	}
	if _, err := e.Execute("1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Execute("2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&loads) != 1 {
		t.Errorf("expected one load, got %d", loads)
	}
	if !e.IsReady() {
		t.Errorf("executor should be ready after first use")
	}
}

func TestConcurrentFirstUseLoadsOnce(t *testing.T) {
	e := NewExecutor()
	var loads int32
	e.SetLoader(func() (starlark.StringDict, error) {
		atomic.AddInt32(&loads, 1)
		time.Sleep(20 * time.Millisecond)
		return StandardLoader()
	})
	var wg sync.WaitGroup
	failures := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Execute("1 + 1"); err != nil {
				failures <- err
			}
		}()
	}
	wg.Wait()
	close(failures)
	for err := range failures {
		t.Errorf("concurrent execution failed: %v", err)
	}
	if atomic.LoadInt32(&loads) != 1 {
		t.Errorf("expected exactly one load, got %d", loads)
	}
}

func TestFailedLoadRetries(t *testing.T) {
	e := NewExecutor()
	var loads int32
	e.SetLoader(func() (starlark.StringDict, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			return nil, errors.New("package fetch failed")
		}
		return StandardLoader()
	})
	_, err := e.Execute("1")
	if !errors.Is(err, execution.ErrInitializationFailed) {
		t.Fatalf("expected ErrInitializationFailed, got %v", err)
	}
	if e.IsReady() {
		t.Errorf("failed load must not leave the executor ready")
	}
	if _, err := e.Execute("1"); err != nil {
		t.Fatalf("retry should succeed, got %v", err)
	}
	if atomic.LoadInt32(&loads) != 2 {
		t.Errorf("expected a second load on retry, got %d", loads)
	}
}

func TestHostEnvironmentAccess(t *testing.T) {
	t.Setenv("RUNEPAD_STARLARK_TEST", "reachable")
	e := NewExecutor()
	result, err := e.Execute(`env("RUNEPAD_STARLARK_TEST")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "reachable" {
		t.Errorf("expected reachable, got %v", result)
	}
}

func TestPrintOutput(t *testing.T) {
	e := NewExecutor()
	var captured bytes.Buffer
	e.SetOutput(&captured)
	if _, err := e.Execute(`print("hi")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.String() != "hi\n" {
		t.Errorf("expected print output, got %q", captured.String())
	}
}
