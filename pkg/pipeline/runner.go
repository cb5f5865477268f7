package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bingo/pkg/assemble"
	"github.com/matzehuels/bingo/pkg/buildinfo"
	"github.com/matzehuels/bingo/pkg/card"
	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/fonts"
	"github.com/matzehuels/bingo/pkg/observability"
	"github.com/matzehuels/bingo/pkg/render"
	"github.com/matzehuels/bingo/pkg/squares"
)

// Runner executes generation and assembly runs.
//
// The Runner holds no per-run state, so one Runner can serve several runs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(l **log.Logger) {
	if *l == nil {
		*l = r.Logger
	}
}

// Generate composes opts.Count cards and writes them as PNGs into
// opts.OutputDir, followed by the run manifest.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts.Logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Count)
	start := time.Now()
	result, err := r.generate(ctx, opts, hooks)
	cards := 0
	if result != nil {
		cards = len(result.Files)
	}
	hooks.OnGenerateComplete(ctx, cards, time.Since(start), err)
	return result, err
}

func (r *Runner) generate(ctx context.Context, opts Options, hooks observability.PipelineHooks) (*Result, error) {
	logger := opts.Logger

	result := &Result{RunID: uuid.NewString(), Seed: opts.Seed}

	// Stage 1: Load inputs
	loadStart := time.Now()
	pool, err := squares.ParseFile(opts.Squares)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "square pool %s has no squares", opts.Squares)
	}
	if len(pool) <= card.Slots {
		logger.Warn("square pool is small, squares will repeat on each card",
			"squares", len(pool)-1, "slots", card.Slots)
	}

	tmpl, err := render.LoadTemplate(opts.Template)
	if err != nil {
		return nil, err
	}

	set, err := fonts.Resolve(opts.FontSources, opts.FontSizes, logger)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load fonts")
	}
	defer set.Close()
	result.Font = set.Name()

	renderer, err := render.NewRenderer(tmpl, set, opts.Layout)
	if err != nil {
		return nil, err
	}
	result.Stats.PoolSize = len(pool)
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded inputs",
		"squares", len(pool),
		"font", set.Name(),
		"duration", result.Stats.LoadTime)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.OutputDir)
	}

	// Stage 2: Compose and render
	renderStart := time.Now()
	rng := card.NewRand(opts.Seed)
	manifest := &Manifest{
		RunID:     result.RunID,
		Generator: buildinfo.Generator(),
		Seed:      opts.Seed,
		CreatedAt: time.Now().UTC(),
		Squares:   opts.Squares,
		PoolHash:  PoolHash(pool),
		Font:      set.Name(),
	}
	for i := 1; i <= opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		c, err := card.Compose(rng, pool)
		if err != nil {
			return nil, err
		}
		cardStart := time.Now()
		path := filepath.Join(opts.OutputDir, cardFile(opts.FilePattern, i))
		if err := render.SavePNG(path, renderer.Render(c), opts.DPI); err != nil {
			return result, errors.Wrap(errors.ErrCodeRender, err, "write %s", path)
		}
		hooks.OnCardRendered(ctx, i, path, time.Since(cardStart))
		logger.Debug("wrote card", "file", path)

		result.Cards = append(result.Cards, c)
		result.Files = append(result.Files, path)
		manifest.Cards = append(manifest.Cards, ManifestCard{
			File:    filepath.Base(path),
			Squares: cellTexts(c),
		})
		if opts.Progress != nil {
			opts.Progress(i, opts.Count)
		}
	}
	result.Stats.CardCount = len(result.Cards)
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered cards",
		"count", result.Stats.CardCount,
		"duration", result.Stats.RenderTime)

	// Stage 3: Manifest
	result.Manifest = filepath.Join(opts.OutputDir, ManifestFile)
	if err := WriteManifest(result.Manifest, manifest); err != nil {
		return result, errors.Wrap(errors.ErrCodeInternal, err, "write manifest")
	}
	return result, nil
}

func cellTexts(c card.Card) []string {
	cells := c.Cells()
	out := make([]string, len(cells))
	for i, sq := range cells {
		out[i] = sq.Text()
	}
	return out
}

// Assemble builds the PDFs selected by opts.Mode from the card images in
// opts.Dir. Reports are returned in the order the PDFs were written, even
// when an error stops the run early.
func (r *Runner) Assemble(ctx context.Context, opts AssembleOptions) ([]*assemble.Report, error) {
	r.applyLogger(&opts.Logger)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	files, err := assemble.FindCards(opts.Dir, GlobFor(opts.FilePattern))
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("found card images", "count", len(files), "dir", opts.Dir)
	checkManifest(opts.Logger, opts.Dir, len(files))

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.OutputDir)
	}

	type job struct {
		build  func(context.Context, []string, string, assemble.Options) (*assemble.Report, error)
		output string
	}
	var jobs []job
	if opts.Mode == assemble.ModeFull || opts.Mode == assemble.ModeBoth {
		jobs = append(jobs, job{assemble.Full, assemble.FullOutput})
	}
	if opts.Mode == assemble.ModeCompact || opts.Mode == assemble.ModeBoth {
		jobs = append(jobs, job{assemble.Compact, assemble.CompactOutput})
	}

	hooks := observability.Pipeline()
	var reports []*assemble.Report
	for _, j := range jobs {
		start := time.Now()
		output := filepath.Join(opts.OutputDir, j.output)
		hooks.OnAssembleStart(ctx, output, len(files))
		report, err := j.build(ctx, files, output, opts.PDF)
		if err != nil {
			hooks.OnAssembleComplete(ctx, output, 0, 0, time.Since(start), err)
			return reports, err
		}
		hooks.OnAssembleComplete(ctx, output, report.Pages, len(report.Failures), time.Since(start), nil)
		reports = append(reports, report)
		opts.Logger.Info("assembled pdf",
			"file", report.Output,
			"pages", report.Pages,
			"skipped", len(report.Failures),
			"duration", time.Since(start))
	}
	return reports, nil
}

// checkManifest logs which run produced the cards in dir and warns when
// the folder no longer matches it. A missing manifest is not an error.
func checkManifest(logger *log.Logger, dir string, found int) {
	m, err := ReadManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("unreadable manifest", "dir", dir, "error", err)
		}
		return
	}
	logger.Info("cards from run", "run", m.RunID, "seed", m.Seed, "created", m.CreatedAt.Format(time.DateTime))
	if len(m.Cards) != found {
		logger.Warn("card folder differs from manifest", "manifest", len(m.Cards), "found", found)
	}
}
