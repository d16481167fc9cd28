// Package engine provides the Lisp evaluation engine for reboot scripts.
// It wraps zygomys in a sandboxed environment and produces an instruction
// sequence from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/reboot/pkg/sequence"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	steps  []sequence.Instruction
	errors []EvalError
	err    error
}

// Engine wraps the zygomys interpreter for reboot scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine creates a new Engine with the default EvalTimeout.
func NewEngine() *Engine {
	return NewEngineWithTimeout(EvalTimeout)
}

// NewEngineWithTimeout creates an Engine whose evaluations are abandoned
// after d. A non-positive d selects EvalTimeout.
func NewEngineWithTimeout(d time.Duration) *Engine {
	if d <= 0 {
		d = EvalTimeout
	}
	return &Engine{timeout: d}
}

// Evaluate takes Lisp source code and produces the instructions it emits,
// in the order the script called on and off.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns instructions + nil errors + nil error
//   - On parse/eval failure: returns nil instructions + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) ([]sequence.Instruction, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		steps, evalErrs, err := e.evaluate(source)
		ch <- evalResult{steps: steps, errors: evalErrs, err: err}
	}()

	return e.await(ch, gen)
}

// await returns the result sent on ch unless the timeout fires first or a
// newer call to Evaluate has started since gen was issued. An abandoned
// goroutine keeps running; its result is dropped into the buffered channel.
func (e *Engine) await(ch <-chan evalResult, gen uint64) ([]sequence.Instruction, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", e.timeout)
	case res := <-ch:
		if !e.isCurrent(gen) {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.steps, res.errors, res.err
	}
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) ([]sequence.Instruction, []EvalError, error) {
	// Empty source is a valid program that emits nothing.
	if strings.TrimSpace(source) == "" {
		return []sequence.Instruction{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	steps := []sequence.Instruction{}
	registerBuiltins(env, &steps)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return steps, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// No line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
