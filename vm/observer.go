package vm

import (
	"github.com/pinslang/pins/ir"
	"github.com/pinslang/pins/temp"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every statement.
	// Use for: detailed tracing, statement-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: profilers and stack checkers that only need Call/Return events.
	StepNone

	// StepSampled calls OnStep every N statements.
	// Use for: statistical profiling.
	StepSampled

	// StepOnLabel calls OnStep only when a label statement is reached.
	// Use for: block coverage.
	StepOnLabel
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of statements between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveCalls enables OnCall callbacks.
	ObserveCalls bool

	// ObserveReturns enables OnReturn callbacks.
	ObserveReturns bool
}

// NewObserverConfig creates a config with safe defaults.
// ObserveCalls and ObserveReturns default to true.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveCalls:   true,
		ObserveReturns: true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution events. It can be used
// for tracing, profiling or checking stack discipline without modifying the
// interpreter.
//
// Implementations can embed NoOpObserver and override only the methods they
// need. Methods are called synchronously during execution.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when the VM is created.
	Config() ObserverConfig

	// OnStep is called based on the StepMode in the observer's config.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnCall is called when a function is entered (if ObserveCalls is true).
	// Returns false to halt execution immediately.
	OnCall(event CallEvent) bool

	// OnReturn is called when a function returns (if ObserveReturns is true).
	// Returns false to halt execution immediately.
	OnReturn(event ReturnEvent) bool
}

// StepEvent describes one statement about to be executed.
type StepEvent struct {
	// Function is the label of the code chunk being executed.
	Function temp.Label

	// PC is the index of the statement in the chunk's linear code.
	PC int

	// Stmt is the statement itself.
	Stmt ir.Stmt

	// FP and SP are the registers of the running activation.
	FP int
	SP int

	// Depth is the number of active calls.
	Depth int
}

// CallEvent describes a function call. FP and SP hold the caller's registers
// at the moment of the call.
type CallEvent struct {
	// Function is the label of the function being called.
	Function temp.Label

	// Builtin is true for the runtime's I/O routines.
	Builtin bool

	FP int
	SP int

	// Depth is the call depth after the call.
	Depth int

	// RunID identifies the top-level Call this call belongs to.
	RunID string
}

// ReturnEvent describes a function return. FP and SP hold the caller's
// registers after they have been restored.
type ReturnEvent struct {
	// Function is the label of the function returning.
	Function temp.Label

	// Value is the result stored in the caller's result slot.
	Value Value

	FP int
	SP int

	// Depth is the call depth after returning.
	Depth int
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
//
// NoOpObserver uses StepAll mode with ObserveCalls and ObserveReturns
// enabled. Override Config() to use a different mode.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

var _ Observer = NoOpObserver{}
