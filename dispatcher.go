package texcas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/njchilds90/texcas/engine"
	"github.com/njchilds90/texcas/internal/observability"
	"github.com/njchilds90/texcas/numeric"
	"github.com/njchilds90/texcas/parse"
	"github.com/njchilds90/texcas/symbolic"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrNoEngine             = errors.New("no engine supports the operation")
)

// IntegrationConstant is appended to every antiderivative.
const IntegrationConstant = " + C"

// ResetPolicy decides when engine bindings are cleared.
type ResetPolicy int

const (
	// ResetNever keeps bindings across calls so that sessions can build on
	// earlier Bind calls.
	ResetNever ResetPolicy = iota
	ResetBefore
	ResetAfter
)

func (p ResetPolicy) String() string {
	switch p {
	case ResetBefore:
		return "before"
	case ResetAfter:
		return "after"
	}
	return "never"
}

// ParseResetPolicy reads "never", "before" or "after".
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch strings.ToLower(s) {
	case "", "never":
		return ResetNever, nil
	case "before":
		return ResetBefore, nil
	case "after":
		return ResetAfter, nil
	}
	return ResetNever, fmt.Errorf("unknown reset policy %q", s)
}

// Dispatcher translates LaTeX input, runs it through an ordered chain of
// engines and translates the answer back.
//
// For each operation the engines are tried in order; the first one that
// has the capability and succeeds answers. A Dispatcher is not safe for
// concurrent use because engines hold bindings; use one per goroutine.
type Dispatcher struct {
	engines   []engine.Engine
	logger    *slog.Logger
	localizer *Localizer
	reset     ResetPolicy
	tracer    trace.Tracer
}

type Option func(*Dispatcher)

// WithEngines replaces the engine chain.
func WithEngines(engines ...engine.Engine) Option {
	return func(d *Dispatcher) { d.engines = engines }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithLocalizer(l *Localizer) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.localizer = l
		}
	}
}

func WithResetPolicy(p ResetPolicy) Option {
	return func(d *Dispatcher) { d.reset = p }
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// DefaultEngines returns the numeric engine followed by the symbolic one,
// both parsing through cache.
func DefaultEngines(cache *parse.Cache) []engine.Engine {
	return []engine.Engine{numeric.New(cache), symbolic.NewEngine(cache)}
}

// NewDispatcher returns a dispatcher over the default engines, a French
// localizer and the never-reset policy unless options say otherwise.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:    slog.Default(),
		localizer: NewLocalizer("fr"),
		tracer:    otel.Tracer("github.com/njchilds90/texcas"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.engines == nil {
		cache, err := parse.NewCache(parse.DefaultCacheSize)
		if err != nil {
			d.logger.Warn("parse cache disabled", "error", err)
		}
		d.engines = DefaultEngines(cache)
	}
	return d
}

// Engines returns the names of the chain in order.
func (d *Dispatcher) Engines() []string {
	names := make([]string, len(d.engines))
	for i, e := range d.engines {
		names[i] = e.Name()
	}
	return names
}

func (d *Dispatcher) Localizer() *Localizer { return d.localizer }

// Reset clears the state of every engine.
func (d *Dispatcher) Reset() {
	for _, e := range d.engines {
		switch v := e.(type) {
		case engine.Resetter:
			v.Reset()
		case engine.Binder:
			v.ClearVars()
		}
	}
}

// Bind sets name to the CAS expression value in every engine that keeps
// bindings. Engines that cannot evaluate value report an error but the
// others keep the binding.
func (d *Dispatcher) Bind(name, value string) error {
	var errs []error
	bound := false
	for _, e := range d.engines {
		b, ok := e.(engine.Binder)
		if !ok {
			continue
		}
		if err := b.SetVar(name, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		bound = true
	}
	if !bound {
		if len(errs) == 0 {
			return fmt.Errorf("bind %s: %w", name, ErrNoEngine)
		}
		return errors.Join(errs...)
	}
	if len(errs) > 0 {
		d.logger.Debug("binding skipped by some engines", "name", name, "error", errors.Join(errs...))
	}
	return nil
}

// Perform runs op on the LaTeX input. It never panics and never returns a
// Go error: failures come back as a result with Success false and a
// localized message.
func (d *Dispatcher) Perform(ctx context.Context, op OperationKind, latex string) OperationResult {
	ctx, span := d.tracer.Start(ctx, "texcas.Perform",
		trace.WithAttributes(attribute.String("texcas.operation", string(op))))
	defer span.End()
	start := time.Now()

	switch d.reset {
	case ResetBefore:
		d.Reset()
	case ResetAfter:
		defer d.Reset()
	}

	res := OperationResult{Operation: op, InputLatex: latex}
	out, used, err := d.perform(ctx, op, latex)
	observability.OperationDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
	if used != "" {
		span.SetAttributes(attribute.String("texcas.engine", used))
	}
	if err != nil {
		res.Error = d.localizer.Translate(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Error)
		observability.OperationsTotal.WithLabelValues(string(op), observability.ResultError).Inc()
		d.logger.DebugContext(ctx, "operation failed", "operation", op, "input", latex, "error", err)
		return res
	}
	res.Success = true
	res.OutputLatex = out
	observability.OperationsTotal.WithLabelValues(string(op), observability.ResultSuccess).Inc()
	d.logger.DebugContext(ctx, "operation done", "operation", op, "engine", used, "output", out)
	return res
}

func (d *Dispatcher) perform(ctx context.Context, op OperationKind, latex string) (out, used string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()

	cas := LatexToCAS(latex)
	d.logger.DebugContext(ctx, "translated input", "latex", latex, "cas", cas)

	switch op {
	case Evaluate:
		v, used, err := attempt(ctx, d, op, func(e engine.Evaluator) (engine.Value, error) { return e.Evaluate(cas) })
		if err != nil {
			return "", used, err
		}
		if v.IsNumber {
			return FormatNumericResult(v.Number), used, nil
		}
		return CASToLatex(v.Text), used, nil

	case Simplify:
		return translated(attempt(ctx, d, op, func(e engine.Simplifier) (string, error) { return e.Simplify(cas) }))

	case Factor:
		return translated(attempt(ctx, d, op, func(e engine.Factorer) (string, error) { return e.Factor(cas) }))

	case Expand:
		return translated(attempt(ctx, d, op, func(e engine.Expander) (string, error) { return e.Expand(cas) }))

	case Solve:
		v := ExtractVariable(cas)
		expr := cas
		if left, right, ok := strings.Cut(cas, "="); ok {
			expr = "(" + strings.TrimSpace(left) + ")-(" + strings.TrimSpace(right) + ")"
		}
		sols, used, err := attempt(ctx, d, op, func(e engine.Solver) (string, error) { return e.Solve(expr, v) })
		if err != nil {
			return "", used, err
		}
		return formatSolutions(v, sols), used, nil

	case Derivative:
		v := ExtractVariable(cas)
		return translated(attempt(ctx, d, op, func(e engine.Differentiator) (string, error) { return e.Diff(cas, v) }))

	case Integrate:
		v := ExtractVariable(cas)
		out, used, err := translated(attempt(ctx, d, op, func(e engine.Integrator) (string, error) { return e.Integrate(cas, v) }))
		if err != nil {
			return "", used, err
		}
		return out + IntegrationConstant, used, nil
	}
	return "", "", &UnsupportedOperationError{Op: string(op)}
}

// attempt walks the chain and returns the first successful answer of an
// engine with capability C, or the last error.
func attempt[C engine.Engine, R any](ctx context.Context, d *Dispatcher, op OperationKind, call func(C) (R, error)) (R, string, error) {
	var zero R
	var last error
	lastName := ""
	for _, e := range d.engines {
		c, ok := e.(C)
		if !ok {
			continue
		}
		r, err := call(c)
		if err == nil {
			return r, e.Name(), nil
		}
		observability.EngineFailures.WithLabelValues(string(op), e.Name()).Inc()
		d.logger.DebugContext(ctx, "engine failed", "operation", op, "engine", e.Name(), "error", err)
		last, lastName = err, e.Name()
	}
	if last == nil {
		return zero, "", fmt.Errorf("%s: %w", op, ErrNoEngine)
	}
	return zero, lastName, last
}

func translated(cas, used string, err error) (string, string, error) {
	if err != nil {
		return "", used, err
	}
	return CASToLatex(cas), used, nil
}

// formatSolutions renders a solver answer as "x = a, \; x = b"; a list is
// split on every comma like CASToLatex does.
func formatSolutions(v, sols string) string {
	items, ok := splitList(strings.TrimSpace(sols))
	if !ok {
		return v + " = " + CASToLatex(sols)
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = v + " = " + CASToLatex(item)
	}
	return strings.Join(out, SolutionSeparator)
}
