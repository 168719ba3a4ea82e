package thumbs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"artref/internal/fileutil"
	"artref/internal/logging"
	"artref/internal/manifest"
)

// ErrSourceMissing is returned when the source root does not exist or is not
// a directory.
var ErrSourceMissing = errors.New("source folder not found")

// Ledger stores the checksum each thumbnail was rendered from.
type Ledger interface {
	Lookup(ctx context.Context, destRoot, relPath string) (manifest.Entry, bool, error)
	Record(ctx context.Context, entry manifest.Entry) error
}

// Failure is a source file that could not be mirrored.
type Failure struct {
	SourcePath string
	Err        error
}

// Observer receives per-file outcomes as the run progresses.
type Observer interface {
	OnGenerated(task Task)
	OnSkipped(task Task, reason string)
	OnFailed(failure Failure)
}

// Options configures a Mirror.
type Options struct {
	SourceRoot      string
	DestinationRoot string
	Width           int
	Quality         int
	// Method is the encoder effort setting. It is only recorded in the
	// ledger so a changed setting regenerates thumbnails.
	Method int
	// Extensions lists source extensions to mirror. Empty selects
	// SupportedExtensions.
	Extensions []string
	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to the source root.
	Exclude  []string
	Encoder  Encoder
	Ledger   Ledger
	Observer Observer
	Logger   *slog.Logger
}

// Summary aggregates the outcome of a run.
type Summary struct {
	SourceRoot      string
	DestinationRoot string
	Generated       int
	Skipped         int
	Adopted         int
	Failed          int
	Failures        []Failure
	Duration        time.Duration
	Cancelled       bool
}

// PlannedTask is a task a run would execute, with the reason.
type PlannedTask struct {
	Task
	Reason string
}

// Plan lists what a run would do without writing anything.
type Plan struct {
	Pending  []PlannedTask
	Current  int
	Failures []Failure
}

// Mirror regenerates stale thumbnails of a source tree.
type Mirror struct {
	srcRoot  string
	dstRoot  string
	width    int
	quality  int
	method   int
	exts     extensionSet
	exclude  []string
	encoder  Encoder
	ledger   Ledger
	observer Observer
	logger   *slog.Logger
}

// New validates opts and resolves both roots to absolute paths with symlinks
// evaluated.
func New(opts Options) (*Mirror, error) {
	if opts.Encoder == nil {
		return nil, errors.New("thumbs: encoder is required")
	}
	if opts.Width <= 0 {
		return nil, fmt.Errorf("thumbs: width must be positive, got %d", opts.Width)
	}
	if opts.Quality < 0 || opts.Quality > 100 {
		return nil, fmt.Errorf("thumbs: quality must be between 0 and 100, got %d", opts.Quality)
	}
	if strings.TrimSpace(opts.SourceRoot) == "" || strings.TrimSpace(opts.DestinationRoot) == "" {
		return nil, errors.New("thumbs: source and destination roots are required")
	}
	srcRoot, err := ResolveRoot(opts.SourceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve source root: %w", err)
	}
	dstRoot, err := ResolveRoot(opts.DestinationRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve destination root: %w", err)
	}
	if srcRoot == dstRoot {
		return nil, fmt.Errorf("thumbs: destination %s must differ from source", dstRoot)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = SupportedExtensions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Mirror{
		srcRoot:  srcRoot,
		dstRoot:  dstRoot,
		width:    opts.Width,
		quality:  opts.Quality,
		method:   opts.Method,
		exts:     newExtensionSet(exts),
		exclude:  append([]string(nil), opts.Exclude...),
		encoder:  opts.Encoder,
		ledger:   opts.Ledger,
		observer: opts.Observer,
		logger:   logging.NewComponentLogger(logger, "thumbs"),
	}, nil
}

// ResolveRoot makes path absolute and evaluates symlinks in its longest
// existing prefix. A root that does not exist yet keeps its missing tail, so
// CheckSource can still report it and the destination can be created later.
func ResolveRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	existing, rest := abs, ""
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
}

// SourceRoot returns the absolute source root.
func (m *Mirror) SourceRoot() string { return m.srcRoot }

// DestinationRoot returns the absolute destination root.
func (m *Mirror) DestinationRoot() string { return m.dstRoot }

// CheckSource returns ErrSourceMissing unless root is an existing directory.
func CheckSource(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, root)
		}
		return fmt.Errorf("stat source folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceMissing, root)
	}
	return nil
}

// Run mirrors the source tree. Per-file failures are collected in the
// summary; only a missing source root, a walk error on the root or context
// cancellation end the run early. Cancellation is checked between files.
func (m *Mirror) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{SourceRoot: m.srcRoot, DestinationRoot: m.dstRoot}
	logger := logging.WithContext(ctx, m.logger)

	if err := CheckSource(m.srcRoot); err != nil {
		return summary, err
	}

	logger.Info("thumbnail mirror started",
		logging.String(logging.FieldEventType, "mirror_started"),
		logging.String("source", m.srcRoot),
		logging.String("destination", m.dstRoot),
		logging.Int("width", m.width),
		logging.Int("quality", m.quality),
		logging.Bool("checksum", m.ledger != nil),
	)

	entries, err := m.collect(ctx)
	if err != nil && !isCancellation(err) {
		return summary, err
	}

	for _, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
			break
		}
		if entry.err != nil {
			m.fail(logger, &summary, Failure{SourcePath: entry.path, Err: entry.err})
			continue
		}
		m.process(ctx, logger, &summary, entry.task)
	}

	summary.Duration = time.Since(start)
	if err != nil {
		summary.Cancelled = true
		logging.WarnWithContext(logger, "thumbnail mirror cancelled", "mirror_cancelled",
			logging.Int("generated", summary.Generated),
			logging.Int("skipped", summary.Skipped),
			logging.String(logging.FieldErrorHint, "rerun to finish; completed thumbnails are kept"),
			logging.String(logging.FieldImpact, "remaining files were not processed"),
		)
		return summary, err
	}

	logger.Info("thumbnail mirror finished",
		logging.String(logging.FieldEventType, "mirror_finished"),
		logging.Int("generated", summary.Generated),
		logging.Int("skipped", summary.Skipped),
		logging.Int("adopted", summary.Adopted),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// Plan walks the source tree and reports pending tasks without writing.
// The ledger, when present, is only read.
func (m *Mirror) Plan(ctx context.Context) (Plan, error) {
	var plan Plan
	if err := CheckSource(m.srcRoot); err != nil {
		return plan, err
	}
	entries, err := m.collect(ctx)
	if err != nil {
		return plan, err
	}
	for _, entry := range entries {
		if entry.err != nil {
			plan.Failures = append(plan.Failures, Failure{SourcePath: entry.path, Err: entry.err})
			continue
		}
		d, err := m.decide(ctx, entry.task)
		if err != nil {
			plan.Failures = append(plan.Failures, Failure{SourcePath: entry.task.SourcePath, Err: err})
			continue
		}
		if d.generate {
			plan.Pending = append(plan.Pending, PlannedTask{Task: entry.task, Reason: d.reason})
		} else {
			plan.Current++
		}
	}
	return plan, nil
}

type decision struct {
	generate bool
	reason   string
	hash     string
}

// decide applies the timestamp check, then the ledger comparison when a
// ledger is configured.
func (m *Mirror) decide(ctx context.Context, task Task) (decision, error) {
	upToDate, err := IsUpToDate(task.SourcePath, task.DestinationPath)
	if err != nil {
		return decision{}, err
	}
	if !upToDate {
		reason := ReasonStale
		if _, statErr := os.Stat(task.DestinationPath); errors.Is(statErr, fs.ErrNotExist) {
			reason = ReasonMissing
		}
		return decision{generate: true, reason: reason}, nil
	}
	if m.ledger == nil {
		return decision{reason: ReasonCurrent}, nil
	}

	hash, err := fileutil.HashFile(task.SourcePath)
	if err != nil {
		return decision{}, fmt.Errorf("hash source: %w", err)
	}
	entry, found, err := m.ledger.Lookup(ctx, m.dstRoot, task.RelPath)
	if err != nil {
		return decision{}, err
	}
	switch {
	case !found:
		return decision{reason: ReasonAdopted, hash: hash}, nil
	case !entry.Matches(hash, task.Width, task.Quality, task.Method):
		return decision{generate: true, reason: ReasonChanged, hash: hash}, nil
	default:
		return decision{reason: ReasonCurrent, hash: hash}, nil
	}
}

func (m *Mirror) process(ctx context.Context, logger *slog.Logger, summary *Summary, task Task) {
	d, err := m.decide(ctx, task)
	if err != nil {
		m.fail(logger, summary, Failure{SourcePath: task.SourcePath, Err: err})
		return
	}

	if !d.generate {
		if d.reason == ReasonAdopted {
			if err := m.record(ctx, task, d.hash); err != nil {
				m.fail(logger, summary, Failure{SourcePath: task.SourcePath, Err: err})
				return
			}
			summary.Adopted++
		}
		summary.Skipped++
		logger.Debug("thumbnail up to date",
			logging.String(logging.FieldPath, task.DestinationPath),
			logging.String("reason", d.reason),
		)
		if m.observer != nil {
			m.observer.OnSkipped(task, d.reason)
		}
		return
	}

	if m.ledger != nil && d.hash == "" {
		if d.hash, err = fileutil.HashFile(task.SourcePath); err != nil {
			m.fail(logger, summary, Failure{SourcePath: task.SourcePath, Err: fmt.Errorf("hash source: %w", err)})
			return
		}
	}

	if err := m.generate(task); err != nil {
		m.fail(logger, summary, Failure{SourcePath: task.SourcePath, Err: err})
		return
	}
	if m.ledger != nil {
		if err := m.record(ctx, task, d.hash); err != nil {
			logging.WarnWithContext(logger, "thumbnail written but ledger update failed", "manifest_record_failed",
				logging.String(logging.FieldPath, task.DestinationPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the next checksum run will adopt this thumbnail"),
			)
		}
	}

	summary.Generated++
	logger.Debug("thumbnail generated",
		logging.String(logging.FieldPath, task.DestinationPath),
		logging.String("reason", d.reason),
	)
	if m.observer != nil {
		m.observer.OnGenerated(task)
	}
}

// generate renders the task and replaces the destination atomically. The
// destination directory is created only here, so skipped files never touch
// the destination tree.
func (m *Mirror) generate(task Task) error {
	img, err := Render(task.SourcePath, task.Width)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(task.DestinationPath), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	return fileutil.WriteAtomic(task.DestinationPath, 0o644, func(w io.Writer) error {
		if err := m.encoder.Encode(w, img, task.Quality); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	})
}

func (m *Mirror) record(ctx context.Context, task Task, hash string) error {
	return m.ledger.Record(ctx, manifest.Entry{
		DestRoot:    m.dstRoot,
		RelPath:     task.RelPath,
		SourceHash:  hash,
		Width:       task.Width,
		Quality:     task.Quality,
		Method:      task.Method,
		GeneratedAt: time.Now(),
	})
}

func (m *Mirror) fail(logger *slog.Logger, summary *Summary, failure Failure) {
	summary.Failed++
	summary.Failures = append(summary.Failures, failure)
	logging.WarnWithContext(logger, "thumbnail failed", "thumbnail_failed",
		logging.String(logging.FieldPath, failure.SourcePath),
		logging.Error(failure.Err),
		logging.String(logging.FieldErrorHint, "check that the source is a readable image"),
		logging.String(logging.FieldImpact, "file skipped; the rest of the batch continues"),
	)
	if m.observer != nil {
		m.observer.OnFailed(failure)
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
