package pins

import (
	"io"

	"github.com/pinslang/pins/compiler"
	"github.com/pinslang/pins/parser"
	"github.com/pinslang/pins/semantic"
	"github.com/pinslang/pins/vm"
	"github.com/rs/zerolog"
)

// DefaultEntry is the function Run calls unless WithEntry says otherwise.
const DefaultEntry = "main"

// Option configures a PINS compilation or execution.
type Option func(*options)

type options struct {
	filename     string
	boundsChecks bool
	entry        string
	args         []any
	observer     vm.Observer
	stdin        io.Reader
	stdout       io.Writer
	logger       *zerolog.Logger
	maxDepth     int
	stackOrigin  int
}

func collectOptions(opts ...Option) *options {
	o := &options{
		boundsChecks: true,
		entry:        DefaultEntry,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) checkerOpts(source string) []semantic.Option {
	return []semantic.Option{semantic.WithSource(source)}
}

func (o *options) compilerOpts() []compiler.Option {
	return []compiler.Option{compiler.WithBoundsChecks(o.boundsChecks)}
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.stdin != nil {
		opts = append(opts, vm.WithStdin(o.stdin))
	}
	if o.stdout != nil {
		opts = append(opts, vm.WithStdout(o.stdout))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	if o.maxDepth > 0 {
		opts = append(opts, vm.WithMaxDepth(o.maxDepth))
	}
	if o.stackOrigin > 0 {
		opts = append(opts, vm.WithStackOrigin(o.stackOrigin))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// This is used for error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithBoundsChecks controls whether array indexing is checked at runtime.
// Checks are enabled by default.
func WithBoundsChecks(enabled bool) Option {
	return func(o *options) {
		o.boundsChecks = enabled
	}
}

// WithEntry sets the function that Run calls. The default is "main".
func WithEntry(name string) Option {
	return func(o *options) {
		o.entry = name
	}
}

// WithArgs sets the arguments passed to the entry function. Integers,
// booleans and strings are accepted.
func WithArgs(args ...any) Option {
	return func(o *options) {
		o.args = args
	}
}

// WithObserver sets an observer for execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithStdin sets the input read by getInt and getString.
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// WithStdout sets the output written by putInt and putString.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithLogger enables execution tracing to the given logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithMaxDepth limits the number of nested calls.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithStackOrigin sets the initial stack pointer.
func WithStackOrigin(addr int) Option {
	return func(o *options) {
		o.stackOrigin = addr
	}
}
