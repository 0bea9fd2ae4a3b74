// Package vm provides a VirtualMachine that interprets linearized PINS IR.
//
// Memory is a sparse map from addresses to values. The stack starts at the
// stack origin and grows downward; data chunks are placed upward from the
// data base. Each call follows the frame layout computed by package frame:
// the caller stores the static link and the arguments at SP, SP+4, ...; the
// callee saves the caller's FP below its locals, moves FP to SP and SP down
// by the frame size, and leaves its result at the caller's SP on return.
package vm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/uuid"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/frame"
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/temp"
	"github.com/rs/zerolog"
)

const (
	// MaxFrameDepth is the default limit on nested calls.
	MaxFrameDepth = 1024

	// DefaultContextCheckInterval is the number of statements between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000

	// DefaultStackOrigin is the initial value of SP.
	DefaultStackOrigin = 1000

	// DefaultDataBase is the address of the first data chunk.
	DefaultDataBase = 1 << 24
)

type VirtualMachine struct {
	program *ir.Program
	code    map[temp.Label]*code
	data    map[temp.Label]int

	halt       *atomic.Bool  // set when the context of the current run is done
	release    chan struct{} // closed by stop to release the context watcher
	startCount int64
	running    bool
	runMutex   sync.Mutex

	// State of the current run
	machine *Machine
	calls   []errors.StackFrame
	steps   int
	runID   string
	log     zerolog.Logger

	stackOrigin          int
	dataBase             int
	maxDepth             int
	contextCheckInterval int

	// observer receives callbacks for execution events. If nil, no callbacks
	// are made.
	observer       Observer
	observerConfig ObserverConfig

	stdin  io.Reader
	input  *bufio.Reader
	stdout io.Writer
	logger zerolog.Logger
}

// New creates a Virtual Machine for prog. Every code chunk of prog must have
// been linearized.
func New(prog *ir.Program, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		program:              prog,
		code:                 map[temp.Label]*code{},
		data:                 map[temp.Label]int{},
		stackOrigin:          DefaultStackOrigin,
		dataBase:             DefaultDataBase,
		maxDepth:             MaxFrameDepth,
		contextCheckInterval: DefaultContextCheckInterval,
		stdin:                os.Stdin,
		stdout:               os.Stdout,
		logger:               zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.observer != nil {
		vm.observerConfig = NormalizeConfig(vm.observer.Config())
	}
	vm.input = bufio.NewReader(vm.stdin)

	for _, c := range prog.Functions() {
		vm.code[c.Frame.Label] = loadCode(c)
	}
	addr := vm.dataBase
	for _, d := range prog.Data() {
		vm.data[d.Label] = addr
		addr += max(d.Size, frame.WordSize)
	}
	return vm
}

// Machine returns the memory and registers of the most recent run, or nil if
// nothing has run yet.
func (vm *VirtualMachine) Machine() *Machine {
	return vm.machine
}

// RunID returns the identifier of the most recent top-level call.
func (vm *VirtualMachine) RunID() string {
	return vm.runID
}

func (vm *VirtualMachine) start(ctx context.Context) error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	vm.startCount++
	// Halt execution when the context is cancelled. Each run gets its own
	// flag, so a watcher of an earlier run cannot halt a later one.
	halt := &atomic.Bool{}
	vm.halt = halt
	vm.release = nil
	if doneChan := ctx.Done(); doneChan != nil {
		done := make(chan struct{})
		vm.release = done
		go func() {
			select {
			case <-doneChan:
				halt.Store(true)
			case <-done:
			}
		}()
	}
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
	if vm.release != nil {
		close(vm.release)
		vm.release = nil
	}
}

// reset prepares a fresh Machine with initialized string literals.
func (vm *VirtualMachine) reset() {
	vm.machine = newMachine(vm.stackOrigin, vm.data)
	for _, d := range vm.program.Data() {
		if d.Literal != nil {
			vm.machine.Store(vm.data[d.Label], *d.Literal)
		}
	}
	vm.calls = vm.calls[:0]
	vm.steps = 0
	vm.runID = uuid.Must(uuid.NewV4()).String()
	vm.log = vm.logger.With().Str("run_id", vm.runID).Logger()
}

// Call runs the function with the given name or label on a fresh Machine and
// returns its result. Arguments are stored after the static link, which is 0
// for the outermost call.
func (vm *VirtualMachine) Call(ctx context.Context, name string, args ...Value) (result Value, err error) {
	label, ok := vm.lookup(name)
	if !ok {
		return nil, errors.EvalErrorf(errors.E3005, "function %q not found", name)
	}
	if err := vm.start(ctx); err != nil {
		return nil, err
	}
	defer vm.stop()
	vm.reset()
	defer func() {
		if r := recover(); r != nil {
			err = vm.recovered(r)
		}
	}()
	m := vm.machine
	m.Store(m.SP, 0)
	for i, arg := range args {
		v, err := toValue(arg)
		if err != nil {
			return nil, err
		}
		m.Store(m.SP+frame.WordSize*(i+1), v)
	}
	if err := vm.call(ctx, label); err != nil {
		return nil, err
	}
	return m.Load(m.SP), nil
}

func (vm *VirtualMachine) lookup(name string) (temp.Label, bool) {
	if c, ok := vm.program.Function(name); ok {
		return c.Frame.Label, true
	}
	if _, ok := builtins[temp.Label(name)]; ok {
		return temp.Label(name), true
	}
	if _, ok := builtins[temp.Label("_"+name)]; ok {
		return temp.Label("_" + name), true
	}
	return "", false
}

func (vm *VirtualMachine) recovered(r any) error {
	if err, ok := r.(error); ok && strings.Contains(err.Error(), "divide by zero") {
		return vm.evalError(errors.E3002, "division by zero")
	}
	return fmt.Errorf("panic: %v", r)
}

// evalError returns a runtime error carrying the current call stack.
func (vm *VirtualMachine) evalError(code errors.ErrorCode, format string, args ...any) *errors.EvalError {
	err := errors.EvalErrorf(code, format, args...)
	err.Stack = vm.captureStack()
	return err
}

func (vm *VirtualMachine) captureStack() []errors.StackFrame {
	stack := make([]errors.StackFrame, len(vm.calls))
	for i, f := range vm.calls {
		// Innermost first
		stack[len(vm.calls)-1-i] = f
	}
	return stack
}

// call runs the function with the given label. The caller has already
// stored the static link and the arguments at SP.
func (vm *VirtualMachine) call(ctx context.Context, label temp.Label) error {
	if len(vm.calls) >= vm.maxDepth {
		return vm.evalError(errors.E3006, "stack overflow: call depth exceeds %d", vm.maxDepth)
	}
	m := vm.machine
	if fn, ok := builtins[label]; ok {
		if err := vm.onCall(label, true); err != nil {
			return err
		}
		vm.calls = append(vm.calls, errors.StackFrame{Function: string(label), FP: m.FP, SP: m.SP})
		if err := fn(vm); err != nil {
			return err
		}
		vm.calls = vm.calls[:len(vm.calls)-1]
		return vm.onReturn(label, m.Load(m.SP))
	}
	c, ok := vm.code[label]
	if !ok {
		return vm.evalError(errors.E3005, "call to unknown function %s", label)
	}
	if c.stmts == nil {
		return vm.evalError(errors.E3007, "function %s has no linear code", label)
	}
	if err := vm.onCall(label, false); err != nil {
		return err
	}
	f := c.frame
	m.Store(m.SP-f.LocalsSize-frame.WordSize, m.FP)
	m.FP = m.SP
	m.SP -= f.Size()
	vm.calls = append(vm.calls, errors.StackFrame{Function: f.Name, FP: m.FP, SP: m.SP})
	vm.log.Debug().
		Str("function", f.Name).
		Int("fp", m.FP).
		Int("sp", m.SP).
		Int("depth", len(vm.calls)).
		Msg("call")

	value, err := vm.exec(ctx, newActivation(c, m.FP))
	if err != nil {
		return err
	}

	m.SP += f.Size()
	fp, err := vm.intValue(m.Load(m.SP - f.LocalsSize - frame.WordSize))
	if err != nil {
		return err
	}
	m.FP = fp
	vm.calls = vm.calls[:len(vm.calls)-1]
	vm.store(m.SP, value)
	vm.log.Debug().
		Str("function", f.Name).
		Interface("value", value).
		Int("fp", m.FP).
		Int("sp", m.SP).
		Int("depth", len(vm.calls)).
		Msg("return")
	return vm.onReturn(label, value)
}

// exec runs the statements of an activation and returns the value of the
// last one executed.
func (vm *VirtualMachine) exec(ctx context.Context, a *activation) (Value, error) {
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	var last Value
	for a.pc < len(a.code.stmts) {
		if vm.halt.Load() {
			return nil, vm.cancelled(ctx)
		}
		vm.steps++
		// Deterministic check of ctx.Done() every N statements
		if checkInterval > 0 && doneChan != nil && vm.steps%checkInterval == 0 {
			select {
			case <-doneChan:
				vm.halt.Store(true)
				return nil, vm.cancelled(ctx)
			default:
			}
		}
		s := a.code.stmts[a.pc]
		if err := vm.onStep(a, s); err != nil {
			return nil, err
		}
		a.pc++
		v, err := vm.execute(ctx, a, s)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (vm *VirtualMachine) execute(ctx context.Context, a *activation, s ir.Stmt) (Value, error) {
	switch s := s.(type) {
	case *ir.Move:
		v, err := vm.eval(ctx, a, s.Src)
		if err != nil {
			return nil, err
		}
		switch dst := s.Dst.(type) {
		case *ir.Temp:
			a.temps[dst.Temp] = v
			vm.log.Trace().Str("temp", dst.Temp.String()).Interface("value", v).Msg("move")
		case *ir.Mem:
			addr, err := vm.evalInt(ctx, a, dst.Addr)
			if err != nil {
				return nil, err
			}
			vm.store(addr, v)
		default:
			return nil, vm.evalError(errors.E3007, "cannot move into %s", s.Dst)
		}
		return v, nil
	case *ir.Exp:
		return vm.eval(ctx, a, s.X)
	case *ir.Jump:
		if !a.jump(s.Label) {
			return nil, vm.evalError(errors.E3004, "undefined label %s", s.Label)
		}
		return nil, nil
	case *ir.CJump:
		cond, err := vm.evalInt(ctx, a, s.Cond)
		if err != nil {
			return nil, err
		}
		target := s.False
		if cond != 0 {
			target = s.True
		}
		if !a.jump(target) {
			return nil, vm.evalError(errors.E3004, "undefined label %s", target)
		}
		return nil, nil
	case *ir.Label:
		return nil, nil
	}
	return nil, vm.evalError(errors.E3007, "cannot execute %T outside of canonical form", s)
}

func (vm *VirtualMachine) eval(ctx context.Context, a *activation, e ir.Expr) (Value, error) {
	m := vm.machine
	switch e := e.(type) {
	case *ir.Const:
		return e.Value, nil
	case *ir.Name:
		switch e.Label {
		case temp.FP:
			return m.FP, nil
		case temp.SP:
			return m.SP, nil
		}
		if addr, ok := vm.data[e.Label]; ok {
			return addr, nil
		}
		return nil, vm.evalError(errors.E3004, "undefined label %s", e.Label)
	case *ir.Temp:
		v, ok := a.temps[e.Temp]
		if !ok {
			return nil, vm.evalError(errors.E3007, "temporary %s read before it was set", e.Temp)
		}
		return v, nil
	case *ir.Mem:
		addr, err := vm.evalInt(ctx, a, e.Addr)
		if err != nil {
			return nil, err
		}
		return m.Load(addr), nil
	case *ir.BinOp:
		x, err := vm.eval(ctx, a, e.X)
		if err != nil {
			return nil, err
		}
		y, err := vm.eval(ctx, a, e.Y)
		if err != nil {
			return nil, err
		}
		return vm.binary(e.Op, x, y)
	case *ir.Call:
		for i, arg := range e.Args {
			v, err := vm.eval(ctx, a, arg)
			if err != nil {
				return nil, err
			}
			vm.store(m.SP+frame.WordSize*i, v)
		}
		if err := vm.call(ctx, e.Label); err != nil {
			return nil, err
		}
		return m.Load(m.SP), nil
	}
	return nil, vm.evalError(errors.E3007, "cannot evaluate %T outside of canonical form", e)
}

func (vm *VirtualMachine) evalInt(ctx context.Context, a *activation, e ir.Expr) (int, error) {
	v, err := vm.eval(ctx, a, e)
	if err != nil {
		return 0, err
	}
	return vm.intValue(v)
}

func (vm *VirtualMachine) binary(op ir.Op, x, y Value) (Value, error) {
	if op == ir.Eq || op == ir.Ne {
		if xs, ok := x.(string); ok {
			ys, err := vm.stringValue(y)
			if err != nil {
				return nil, err
			}
			return truth((xs == ys) == (op == ir.Eq)), nil
		}
	}
	a, err := vm.intValue(x)
	if err != nil {
		return nil, err
	}
	b, err := vm.intValue(y)
	if err != nil {
		return nil, err
	}
	switch op {
	case ir.Or:
		return truth(a != 0 || b != 0), nil
	case ir.And:
		return truth(a != 0 && b != 0), nil
	case ir.Eq:
		return truth(a == b), nil
	case ir.Ne:
		return truth(a != b), nil
	case ir.Le:
		return truth(a <= b), nil
	case ir.Ge:
		return truth(a >= b), nil
	case ir.Lt:
		return truth(a < b), nil
	case ir.Gt:
		return truth(a > b), nil
	case ir.Add:
		return a + b, nil
	case ir.Sub:
		return a - b, nil
	case ir.Mul:
		return a * b, nil
	case ir.Div:
		return a / b, nil
	case ir.Mod:
		return a % b, nil
	}
	return nil, vm.evalError(errors.E3007, "unknown operator %s", op)
}

func truth(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intValue converts a value to an int. Unwritten memory reads as 0.
func (vm *VirtualMachine) intValue(v Value) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case nil:
		return 0, nil
	}
	return 0, vm.evalError(errors.E3001, "expected an integer, got %T %v", v, v)
}

// stringValue converts a value to a string. Unwritten memory reads as "".
func (vm *VirtualMachine) stringValue(v Value) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	return "", vm.evalError(errors.E3001, "expected a string, got %T %v", v, v)
}

func (vm *VirtualMachine) store(addr int, v Value) {
	vm.machine.Store(addr, v)
	vm.log.Trace().Int("addr", addr).Interface("value", v).Msg("store")
}

// toValue converts a Go argument to a machine value.
func toValue(v any) (Value, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case bool:
		return truth(v), nil
	case string:
		return v, nil
	}
	return nil, errors.EvalErrorf(errors.E3010, "unsupported argument type %T", v)
}

func (vm *VirtualMachine) onStep(a *activation, s ir.Stmt) error {
	if vm.observer == nil {
		return nil
	}
	switch vm.observerConfig.StepMode {
	case StepNone:
		return nil
	case StepSampled:
		if vm.steps%vm.observerConfig.SampleInterval != 0 {
			return nil
		}
	case StepOnLabel:
		if _, ok := s.(*ir.Label); !ok {
			return nil
		}
	}
	event := StepEvent{
		Function: a.code.frame.Label,
		PC:       a.pc,
		Stmt:     s,
		FP:       vm.machine.FP,
		SP:       vm.machine.SP,
		Depth:    len(vm.calls),
	}
	if !vm.observer.OnStep(event) {
		return vm.halted()
	}
	return nil
}

func (vm *VirtualMachine) onCall(label temp.Label, builtin bool) error {
	if vm.observer == nil || !vm.observerConfig.ObserveCalls {
		return nil
	}
	event := CallEvent{
		Function: label,
		Builtin:  builtin,
		FP:       vm.machine.FP,
		SP:       vm.machine.SP,
		Depth:    len(vm.calls) + 1,
		RunID:    vm.runID,
	}
	if !vm.observer.OnCall(event) {
		return vm.halted()
	}
	return nil
}

func (vm *VirtualMachine) onReturn(label temp.Label, value Value) error {
	if vm.observer == nil || !vm.observerConfig.ObserveReturns {
		return nil
	}
	event := ReturnEvent{
		Function: label,
		Value:    value,
		FP:       vm.machine.FP,
		SP:       vm.machine.SP,
		Depth:    len(vm.calls),
	}
	if !vm.observer.OnReturn(event) {
		return vm.halted()
	}
	return nil
}

// cancelled returns the error for a run halted through its context.
func (vm *VirtualMachine) cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return vm.evalError(errors.E3009, "execution halted")
}

func (vm *VirtualMachine) halted() error {
	return vm.evalError(errors.E3009, "execution halted by observer")
}
