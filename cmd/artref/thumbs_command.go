package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"artref/internal/config"
	"artref/internal/encoding"
	"artref/internal/logging"
	"artref/internal/manifest"
	"artref/internal/thumbs"
)

type thumbsFlags struct {
	src      string
	dst      string
	width    int
	quality  int
	checksum bool
}

func (f *thumbsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.src, "src", "images", "Source images folder")
	cmd.Flags().StringVar(&f.dst, "dst", "thumbnails", "Output thumbnails folder")
	cmd.Flags().IntVar(&f.width, "width", 480, "Thumbnail width in pixels")
	cmd.Flags().IntVar(&f.quality, "quality", 85, "WebP quality (0-100)")
	cmd.Flags().BoolVar(&f.checksum, "checksum", false, "Also compare source checksums recorded in the manifest")
}

// settings merges explicitly set flags over the configured thumbnail settings.
func (f *thumbsFlags) settings(cmd *cobra.Command, cfg *config.Config) (config.Thumbnails, bool, error) {
	t := cfg.Thumbnails
	if src, ok, err := pathFlag(cmd, "src", f.src); err != nil {
		return t, false, err
	} else if ok {
		t.SourceDir = src
	}
	if dst, ok, err := pathFlag(cmd, "dst", f.dst); err != nil {
		return t, false, err
	} else if ok {
		t.DestinationDir = dst
	}
	if cmd.Flags().Changed("width") {
		t.Width = f.width
	}
	if cmd.Flags().Changed("quality") {
		t.Quality = f.quality
	}
	if err := config.ValidateThumbnailSettings(t); err != nil {
		return t, false, err
	}
	useLedger := cfg.Manifest.Enabled || f.checksum
	return t, useLedger, nil
}

func newMirror(t config.Thumbnails, ledger thumbs.Ledger, observer thumbs.Observer, logger *slog.Logger) (*thumbs.Mirror, error) {
	enc, err := encoding.NewWebP(t.Method)
	if err != nil {
		return nil, err
	}
	return thumbs.New(thumbs.Options{
		SourceRoot:      t.SourceDir,
		DestinationRoot: t.DestinationDir,
		Width:           t.Width,
		Quality:         t.Quality,
		Method:          t.Method,
		Extensions:      t.Extensions,
		Exclude:         t.Exclude,
		Encoder:         enc,
		Ledger:          ledger,
		Observer:        observer,
		Logger:          logger,
	})
}

func newThumbsCommand(ctx *commandContext) *cobra.Command {
	var flags thumbsFlags

	cmd := &cobra.Command{
		Use:   "thumbs",
		Short: "Mirror the image tree into WebP thumbnails",
		Long: "Walks the source folder and writes a resized WebP for every image whose\n" +
			"thumbnail is missing or older than the source. Failing files are reported\n" +
			"and skipped; the rest of the batch continues.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			settings, useLedger, err := flags.settings(cmd, cfg)
			if err != nil {
				return err
			}
			return runThumbs(cmd, cfg, settings, useLedger, logger)
		},
	}
	flags.register(cmd)

	cmd.AddCommand(newThumbsPlanCommand(ctx))
	cmd.AddCommand(newThumbsHistoryCommand(ctx))
	return cmd
}

func runThumbs(cmd *cobra.Command, cfg *config.Config, settings config.Thumbnails, useLedger bool, logger *slog.Logger) error {
	srcRoot, err := thumbs.ResolveRoot(settings.SourceDir)
	if err != nil {
		return fmt.Errorf("resolve source folder: %w", err)
	}
	dstRoot, err := thumbs.ResolveRoot(settings.DestinationDir)
	if err != nil {
		return fmt.Errorf("resolve output folder: %w", err)
	}
	settings.SourceDir, settings.DestinationDir = srcRoot, dstRoot
	if err := thumbs.CheckSource(srcRoot); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := logging.NewRunID()
	runCtx = logging.WithRunID(runCtx, runID)

	lock, err := thumbs.AcquireLock(cfg.LockDir(), dstRoot)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()
	logger.Debug("run lock acquired", logging.String(logging.FieldPath, lock.Path()))

	var (
		ledger thumbs.Ledger
		store  *manifest.Store
	)
	if useLedger {
		store, err = manifest.Open(cfg.Manifest.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		ledger = store
		logger.Debug("manifest opened", logging.String(logging.FieldPath, store.Path()))
		if err := store.BeginRun(runCtx, runID, srcRoot, dstRoot, time.Now()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	mirror, err := newMirror(settings, ledger, &progressPrinter{out: out}, logger)
	if err != nil {
		return err
	}

	summary, runErr := mirror.Run(runCtx)
	if store != nil {
		status := manifest.RunCompleted
		if summary.Cancelled {
			status = manifest.RunCancelled
		}
		// The run context may be cancelled; record the outcome regardless.
		if err := store.FinishRun(context.WithoutCancel(runCtx), manifest.Run{
			ID:        runID,
			Generated: summary.Generated,
			Skipped:   summary.Skipped,
			Failed:    summary.Failed,
			Status:    status,
		}); err != nil {
			logging.WarnWithContext(logger, "failed to record run", "manifest_run_failed", logging.Error(err))
		}
	}
	if runErr != nil && !summary.Cancelled {
		return runErr
	}

	printSummary(out, summary)
	return runErr
}

type progressPrinter struct {
	out io.Writer
}

func (p *progressPrinter) OnGenerated(task thumbs.Task) {
	fmt.Fprintf(p.out, "✓ %s\n", task.DestinationPath)
}

func (p *progressPrinter) OnSkipped(thumbs.Task, string) {}

func (p *progressPrinter) OnFailed(failure thumbs.Failure) {
	fmt.Fprintf(p.out, "✗ ERROR: %s %v\n", failure.SourcePath, failure.Err)
}

func printSummary(out io.Writer, summary thumbs.Summary) {
	fmt.Fprintln(out)
	if summary.Cancelled {
		fmt.Fprintln(out, "CANCELLED")
	} else {
		fmt.Fprintln(out, "DONE")
	}
	fmt.Fprintf(out, "Generated: %d\n", summary.Generated)
	fmt.Fprintf(out, "Skipped: %d\n", summary.Skipped)
	fmt.Fprintf(out, "Failed: %d\n", summary.Failed)
	if summary.Adopted > 0 {
		fmt.Fprintf(out, "Adopted: %d\n", summary.Adopted)
	}
	fmt.Fprintf(out, "Output: %s\n", summary.DestinationRoot)
}

func newThumbsPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  thumbsFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List thumbnails a mirror run would regenerate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			settings, useLedger, err := flags.settings(cmd, cfg)
			if err != nil {
				return err
			}

			var ledger thumbs.Ledger
			if useLedger {
				if _, statErr := os.Stat(cfg.Manifest.Path); statErr == nil {
					store, err := manifest.Open(cfg.Manifest.Path)
					if err != nil {
						return err
					}
					defer store.Close()
					ledger = store
				}
			}

			mirror, err := newMirror(settings, ledger, nil, logging.NewNop())
			if err != nil {
				return err
			}
			plan, err := mirror.Plan(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, planView(plan))
			}

			out := cmd.OutOrStdout()
			if len(plan.Pending) > 0 {
				rows := make([][]string, 0, len(plan.Pending))
				for _, p := range plan.Pending {
					rows = append(rows, []string{p.Reason, p.SourcePath, p.DestinationPath})
				}
				fmt.Fprintln(out, renderTable([]string{"Reason", "Source", "Thumbnail"}, rows, nil))
			}
			for _, failure := range plan.Failures {
				fmt.Fprintf(out, "✗ ERROR: %s %v\n", failure.SourcePath, failure.Err)
			}
			fmt.Fprintf(out, "Pending: %d\n", len(plan.Pending))
			fmt.Fprintf(out, "Up to date: %d\n", plan.Current)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type plannedTaskJSON struct {
	Reason      string `json:"reason"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type planJSON struct {
	Pending  []plannedTaskJSON `json:"pending"`
	Current  int               `json:"current"`
	Failures []string          `json:"failures"`
}

func planView(plan thumbs.Plan) planJSON {
	view := planJSON{Pending: []plannedTaskJSON{}, Current: plan.Current, Failures: []string{}}
	for _, p := range plan.Pending {
		view.Pending = append(view.Pending, plannedTaskJSON{Reason: p.Reason, Source: p.SourcePath, Destination: p.DestinationPath})
	}
	for _, f := range plan.Failures {
		view.Failures = append(view.Failures, fmt.Sprintf("%s: %v", f.SourcePath, f.Err))
	}
	return view
}

func newThumbsHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded thumbnail runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.Manifest.Path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, "No runs recorded (enable [manifest] or pass --checksum)")
				return nil
			}
			store, err := manifest.Open(cfg.Manifest.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Status,
					strconv.Itoa(run.Generated),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
					run.DestRoot,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Status", "Generated", "Skipped", "Failed", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show (0 shows all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
