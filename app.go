package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/reboot/pkg/config"
	"github.com/chazu/reboot/pkg/engine"
	"github.com/chazu/reboot/pkg/grid"
	"github.com/chazu/reboot/pkg/kernel"
	"github.com/chazu/reboot/pkg/kernel/manifold"
	"github.com/chazu/reboot/pkg/kernel/sdfx"
	"github.com/chazu/reboot/pkg/logging"
	"github.com/chazu/reboot/pkg/parse"
	"github.com/chazu/reboot/pkg/reactor"
	"github.com/chazu/reboot/pkg/sequence"
	"github.com/chazu/reboot/pkg/tessellate"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// colorPalette assigns distinct colors to exported meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the instruction readers, the reactor and the mesh exporter
// together. Every command of the CLI goes through it.
type App struct {
	cfg    config.Config
	log    *logrus.Entry
	engine *engine.Engine
	runID  string
}

// MeshData is the JSON-serializable mesh format written by the mesh command.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable evaluation error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the outcome of evaluating a script end to end.
type EvalResult struct {
	Count    int64           `json:"count"`
	Segments int             `json:"segments"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// ScriptError carries the non-fatal errors of a failed script evaluation.
type ScriptError struct {
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return "script: " + strings.Join(msgs, "; ")
}

// CheckResult reports the counts of the reactor and the dense grid over the
// init region.
type CheckResult struct {
	Steps   int
	Reactor int64
	Grid    int64
}

// NewApp creates an App for cfg. Each App gets its own run ID, attached to
// every log line it writes.
func NewApp(cfg config.Config, logger logrus.FieldLogger) *App {
	runID := uuid.NewString()
	return &App{
		cfg:    cfg,
		log:    logging.Named(logger, "app").WithField("run_id", runID),
		engine: engine.NewEngineWithTimeout(cfg.ScriptTimeout),
		runID:  runID,
	}
}

// RunID returns the identifier of this App's run.
func (a *App) RunID() string { return a.runID }

// Load reads the instructions in path and rejects them when validation
// finds a blocking error, so no command counts geometry whose volume could
// overflow. Warnings are logged.
func (a *App) Load(path, format string) ([]sequence.Instruction, error) {
	steps, err := a.Read(path, format)
	if err != nil {
		return nil, err
	}
	res := a.Validate(steps)
	for _, f := range res.Warnings {
		a.log.WithField("file", path).Warn(f.Error())
	}
	if !res.OK() {
		return nil, fmt.Errorf("%s: %w", path, res.Errors[0])
	}
	return steps, nil
}

// Read reads the instructions in path without validating them. format is
// "text", "script" or "auto"; auto picks script for .lisp and .zy files.
func (a *App) Read(path, format string) ([]sequence.Instruction, error) {
	format = resolveFormat(path, format)

	var (
		steps []sequence.Instruction
		err   error
	)
	switch format {
	case "text":
		steps, err = a.readText(path)
	case "script":
		steps, err = a.readScript(path)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"file": path, "format": format, "steps": len(steps)}).Debug("loaded instructions")
	return steps, nil
}

func resolveFormat(path, format string) string {
	if format != "" && format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".zy":
		return "script"
	}
	return "text"
}

func (a *App) readText(path string) ([]sequence.Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	steps, err := parse.Reader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

func (a *App) readScript(path string) ([]sequence.Instruction, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	steps, err := a.script(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return steps, nil
}

// script evaluates source. Evaluation errors in the script come back as a
// *ScriptError; anything else is fatal.
func (a *App) script(source string) ([]sequence.Instruction, error) {
	steps, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Errors: evalErrs}
	}
	return steps, nil
}

// Run applies every instruction to a fresh reactor and returns it.
func (a *App) Run(steps []sequence.Instruction) *reactor.Reactor {
	r := reactor.New()
	count := a.sequencer().Run(r, steps)
	log := a.log.WithFields(logrus.Fields{"steps": len(steps), "segments": r.Len(), "count": count})
	if b, ok := r.Bounds(); ok {
		log = log.WithField("bounds", b.String())
	}
	log.Info("reboot complete")
	return r
}

// Init applies only the instructions inside the init region and returns the
// number of cells on. With useGrid the dense grid does the counting.
func (a *App) Init(steps []sequence.Instruction, useGrid bool) int64 {
	inside := a.initSteps(steps)
	var target sequence.Target = reactor.New()
	if useGrid {
		target = grid.NewWithRadius(a.cfg.InitRadius)
	}
	count := a.sequencer().Run(target, inside)
	a.log.WithFields(logrus.Fields{"steps": len(inside), "skipped": len(steps) - len(inside), "grid": useGrid, "count": count}).Info("initialization complete")
	return count
}

// Check runs the init region instructions through the reactor and the
// dense grid concurrently and fails if their counts differ.
func (a *App) Check(ctx context.Context, steps []sequence.Instruction) (CheckResult, error) {
	inside := a.initSteps(steps)
	res := CheckResult{Steps: len(inside)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Reactor = sequence.Run(reactor.New(), inside)
		return ctx.Err()
	})
	g.Go(func() error {
		res.Grid = sequence.Run(grid.NewWithRadius(a.cfg.InitRadius), inside)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return res, err
	}

	log := a.log.WithFields(logrus.Fields{"steps": res.Steps, "reactor": res.Reactor, "grid": res.Grid})
	if res.Reactor != res.Grid {
		log.Error("reactor and grid disagree")
		return res, fmt.Errorf("check failed: reactor counted %d cells, grid counted %d", res.Reactor, res.Grid)
	}
	log.Info("reactor and grid agree")
	return res, nil
}

// Validate reports malformed and suspicious instructions.
func (a *App) Validate(steps []sequence.Instruction) sequence.Result {
	return sequence.Validate(steps)
}

// Mesh runs the instructions and tessellates the resulting on-region.
func (a *App) Mesh(steps []sequence.Instruction, opts tessellate.Options) ([]MeshData, error) {
	k, err := a.kernel()
	if err != nil {
		return nil, err
	}
	r := a.Run(steps)
	meshes, err := tessellate.Tessellate(r.Cuboids(), k, opts)
	if err != nil {
		return nil, err
	}

	out := make([]MeshData, 0, len(meshes))
	triangles := 0
	for i, m := range meshes {
		triangles += m.TriangleCount()
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	a.log.WithFields(logrus.Fields{"kernel": a.cfg.Kernel, "meshes": len(out), "triangles": triangles}).Info("tessellation complete")
	return out, nil
}

// Report reads path and summarizes it like Evaluate. Script and validation
// errors are part of the result; only unreadable input fails.
func (a *App) Report(path, format string) (EvalResult, error) {
	if resolveFormat(path, format) == "script" {
		source, err := os.ReadFile(path)
		if err != nil {
			return EvalResult{}, err
		}
		return a.Evaluate(string(source)), nil
	}
	steps, err := a.Read(path, format)
	if err != nil {
		return EvalResult{}, err
	}
	return a.summarize(steps), nil
}

// Evaluate runs script source end to end and reports the resulting count
// together with any evaluation errors and validation findings.
func (a *App) Evaluate(source string) EvalResult {
	steps, err := a.script(source)
	if err == nil {
		return a.summarize(steps)
	}

	result := newEvalResult()
	var se *ScriptError
	if errors.As(err, &se) {
		for _, e := range se.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	a.log.WithError(err).Error("evaluation failed")
	result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	return result
}

// summarize validates steps and, when they are valid, runs them.
func (a *App) summarize(steps []sequence.Instruction) EvalResult {
	result := newEvalResult()
	check := a.Validate(steps)
	for _, f := range check.Warnings {
		result.Warnings = append(result.Warnings, findingData(f))
	}
	if !check.OK() {
		for _, f := range check.Errors {
			result.Errors = append(result.Errors, findingData(f))
		}
		return result
	}

	r := a.Run(steps)
	result.Count = r.CountActive()
	result.Segments = r.Len()
	return result
}

func newEvalResult() EvalResult {
	return EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func findingData(f sequence.Finding) EvalErrorData {
	msg := f.Message
	if f.Line == 0 {
		msg = fmt.Sprintf("step %d: %s", f.Index+1, f.Message)
	}
	return EvalErrorData{Line: f.Line, Message: msg}
}

func (a *App) initSteps(steps []sequence.Instruction) []sequence.Instruction {
	return sequence.Filter(steps, func(in sequence.Instruction) bool {
		return grid.InRegion(in.Cuboid, a.cfg.InitRadius)
	})
}

func (a *App) sequencer() *sequence.Sequencer {
	return sequence.New(
		sequence.WithLogger(logging.Named(a.log, "sequence")),
		sequence.WithProgressEvery(a.cfg.ProgressEvery),
	)
}

func (a *App) kernel() (kernel.Kernel, error) {
	switch a.cfg.Kernel {
	case "manifold":
		return manifold.New()
	case "", "sdfx":
		return sdfx.NewWithCells(a.cfg.MeshCells), nil
	}
	return nil, fmt.Errorf("unknown kernel %q", a.cfg.Kernel)
}
