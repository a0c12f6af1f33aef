// Package exporter builds a static HTML site from a flat directory of markdown pages.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/euforicio/wikigen/internal/metrics"
	"github.com/euforicio/wikigen/internal/output"
	"github.com/euforicio/wikigen/internal/renderer"
	"github.com/euforicio/wikigen/internal/source"
	"github.com/euforicio/wikigen/internal/tags"
	wikistatic "github.com/euforicio/wikigen/static"
)

const defaultSiteTitle = "wikigen"

// Options configure a single build.
type Options struct {
	PagesDir     string
	OutputDir    string
	TemplatesDir string
	AssetsDir    string
	SiteTitle    string
	// Clean wipes the output directory before building.
	Clean bool
	// Prune removes outputs recorded by the previous manifest that this build no longer produces.
	Prune bool
}

// Result summarizes a build.
type Result struct {
	// Pages holds page names in scan order.
	Pages []string
	// Tags holds the indexed tags in first-seen order.
	Tags []string
	// Written lists every generated file relative to the output root, the manifest excluded.
	Written  []string
	Pruned   []string
	Duration time.Duration
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithRenderer replaces the default markdown renderer.
func WithRenderer(r *renderer.Service) Option {
	return func(e *Exporter) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithRecorder reports build metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Exporter) {
		if r != nil {
			e.recorder = r
		}
	}
}

// Exporter renders markdown pages into a static HTML bundle. Builds must not overlap.
type Exporter struct {
	renderer  *renderer.Service
	templates *templateRenderer
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// New constructs an exporter with the embedded templates.
func New(logger *slog.Logger, opts ...Option) (*Exporter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := newTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	e := &Exporter{
		templates: tmpl,
		recorder:  metrics.NoopRecorder{},
		logger:    logger.With("component", "exporter"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.renderer == nil {
		e.renderer = renderer.NewService(logger, renderer.Options{Anchors: true})
	}
	return e, nil
}

// Export scans opts.PagesDir and writes the site to opts.OutputDir. The first failure
// aborts the run; files written before it stay on disk.
func (e *Exporter) Export(ctx context.Context, opts Options) (Result, error) {
	start := time.Now()
	res, err := e.export(ctx, opts)
	res.Duration = time.Since(start)

	e.recorder.ObserveBuildDuration(res.Duration)
	switch {
	case err == nil:
		e.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
	default:
		e.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	}
	return res, err
}

// build carries the state of one Export call.
type build struct {
	logger    *slog.Logger
	renderer  *renderer.Service
	templates *templateRenderer
	dir       *output.Dir
	site      string
	// sources is the set of scanned filenames.
	sources  map[string]struct{}
	tagFiles map[string]string
	// owners maps each lower-cased output file to what produced it, so names that differ
	// only in case collide as they would on a case-insensitive filesystem.
	owners  map[string]string
	written []string
}

//nolint:gocognit,gocyclo // build orchestration is a fixed sequence of steps
func (e *Exporter) export(ctx context.Context, opts Options) (Result, error) {
	if strings.TrimSpace(opts.PagesDir) == "" {
		return Result{}, errors.New("pages directory is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return Result{}, errors.New("output directory is required")
	}
	if strings.TrimSpace(opts.SiteTitle) == "" {
		opts.SiteTitle = defaultSiteTitle
	}

	tmpl, err := e.templates.withOverrides(opts.TemplatesDir)
	if err != nil {
		return Result{}, classify(opts.TemplatesDir, err)
	}

	dir, err := output.Prepare(opts.OutputDir, opts.Clean)
	if err != nil {
		return Result{}, classify(opts.OutputDir, err)
	}

	prunable := opts.Prune && !opts.Clean
	var previous []string
	if prunable {
		if previous, err = readManifest(dir); err != nil {
			e.logger.Warn("ignoring unreadable manifest", slog.Any("err", err))
			previous = nil
		}
	}

	files, err := source.Scan(opts.PagesDir)
	if err != nil {
		return Result{}, classify(opts.PagesDir, err)
	}
	e.logger.Debug("scanned pages", slog.String("dir", opts.PagesDir), slog.Int("files", len(files)))

	b := &build{
		logger:    e.logger,
		renderer:  e.renderer,
		templates: tmpl,
		dir:       dir,
		site:      opts.SiteTitle,
		sources:   make(map[string]struct{}, len(files)),
		tagFiles:  make(map[string]string),
		owners:    map[string]string{strings.ToLower(ManifestFile): "build manifest"},
	}
	for _, f := range files {
		b.sources[f] = struct{}{}
	}

	index := tags.NewIndex()
	res := Result{Pages: make([]string, 0, len(files))}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := source.Load(opts.PagesDir, file)
		if err != nil {
			return res, classify(file, err)
		}

		pageTags := b.pageTags(page)
		index.Add(page.Name, pageTags)

		rendered, err := b.renderPage(ctx, page, pageTags)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			return res, classify(file, err)
		}
		if err := b.emit(rendered.Output, "page "+file, rendered.HTML); err != nil {
			return res, err
		}
		res.Pages = append(res.Pages, page.Name)
		e.recorder.AddPagesRendered(1)
		e.logger.Debug("rendered page", slog.String("page", file), slog.Int("tags", len(pageTags)))
	}

	explorer, err := b.renderExplorer(files)
	if err != nil {
		return res, classify(ExplorerFile, err)
	}
	if err := b.emit(ExplorerFile, "explorer", explorer); err != nil {
		return res, err
	}

	for _, tag := range index.Tags() {
		file, err := b.tagFile(tag)
		if err != nil {
			return res, classify(tag, err)
		}
		html, err := b.renderTagPage(index, tag)
		if err != nil {
			return res, classify(file, err)
		}
		if err := b.emit(file, "tag "+strconv.Quote(tag), html); err != nil {
			return res, err
		}
	}
	res.Tags = index.Tags()
	e.recorder.SetTags(index.Len())

	if err := b.copyAssets(opts.AssetsDir); err != nil {
		return res, err
	}

	if err := writeManifest(dir, b.written); err != nil {
		return res, classify(ManifestFile, err)
	}
	res.Written = b.written

	if prunable {
		pruned, err := prune(dir, previous, b.written, e.logger)
		res.Pruned = pruned
		e.recorder.AddFilesPruned(len(pruned))
		if err != nil {
			return res, classify(opts.OutputDir, err)
		}
	}

	e.logger.Info("build complete",
		slog.Int("pages", len(res.Pages)),
		slog.Int("tags", len(res.Tags)),
		slog.Int("pruned", len(res.Pruned)),
		slog.String("output", dir.Root()))
	return res, nil
}

// reserve claims rel for owner and fails if another artifact already claimed it.
func (b *build) reserve(rel, owner string) error {
	key := strings.ToLower(rel)
	if prev, ok := b.owners[key]; ok {
		return newError(KindOutputCollision, rel,
			fmt.Errorf("%w: %s and %s both map to %s", ErrOutputCollision, prev, owner, rel))
	}
	b.owners[key] = owner
	return nil
}

func (b *build) emit(rel, owner string, data []byte) error {
	if err := b.reserve(rel, owner); err != nil {
		return err
	}
	if err := b.dir.Write(rel, data); err != nil {
		return classify(rel, err)
	}
	b.written = append(b.written, rel)
	return nil
}

// copyAssets copies the stylesheets into the output root. A usable override directory
// replaces the embedded set entirely.
func (b *build) copyAssets(override string) error {
	src := wikistatic.FS()
	if override = strings.TrimSpace(override); override != "" {
		info, err := os.Stat(override)
		switch {
		case err == nil && info.IsDir():
			src = os.DirFS(override)
			b.logger.Debug("using override assets", slog.String("source", override))
		case err == nil, errors.Is(err, fs.ErrNotExist):
			b.logger.Warn("assets override is not a directory, using embedded assets", slog.String("source", override))
		default:
			return newError(KindFileRead, override, err)
		}
	}

	var names []string
	err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return newError(KindFileRead, override, fmt.Errorf("%w: list assets: %w", ErrReadFailure, err))
	}
	for _, name := range names {
		if err := b.reserve(name, "asset "+name); err != nil {
			return err
		}
	}

	written, err := b.dir.CopyFS(src, "")
	if err != nil {
		return classify(b.dir.Root(), err)
	}
	b.written = append(b.written, written...)
	return nil
}
