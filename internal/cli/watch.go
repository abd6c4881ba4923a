package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/config"
	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/core/logger"
	"github.com/guiyumin/srt-translator/internal/core/pipeline"
	"github.com/guiyumin/srt-translator/internal/core/watcher"
)

var (
	watchOutDir   string
	watchMaxFiles int
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Translate every new .srt file that appears in a directory",
	Long: `Watch a directory and translate each new .srt file once it stops changing.

A file named movie.srt is written as movie.<lang>.srt, next to the input or
in --out-dir. Files that already look like translations are ignored.

Examples:
  translator watch ./subs -t zh
  translator watch ~/Downloads -t ja --out-dir ~/Subtitles`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchOutDir, "out-dir", "", "directory for translated files (default: next to the input)")
	watchCmd.Flags().IntVar(&watchMaxFiles, "max-files", 1, "files translated at once")
	watchCmd.Flags().BoolVar(&renumber, "renumber", false, "renumber cues 1..n in the output")
	addTranslateFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if watchMaxFiles <= 0 {
		return usageErrorf("--max-files must be positive, got %d", watchMaxFiles)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return usageErrorf("not a directory: %s", dir)
	}

	outDir := watchOutDir
	if !cmd.Flags().Changed("out-dir") {
		outDir = cfg.WatchOutputDir
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return usageErrorf("create output directory: %v", err)
		}
	}

	log, _ := logger.WithRun(logger.New(s.LogLevel, os.Stderr))
	defer log.Sync()

	runner, _, err := newRunner(cfg, s, log)
	if err != nil {
		return err
	}

	t := i18n.T(cfg.Language)
	handle := func(ctx context.Context, path string) error {
		out := translatedPath(path, outDir, s.TargetLang)
		if _, err := os.Stat(out); err == nil {
			fmt.Fprintln(os.Stderr, color.YellowString(t.Watch.Skipped, filepath.Base(path), "already translated"))
			return nil
		}

		fmt.Fprintln(os.Stderr, color.CyanString(t.Watch.Detected, filepath.Base(path)))
		res, err := runner.Run(ctx, pipeline.Job{Input: path, Output: out, Renumber: renumber})
		if err != nil {
			fmt.Fprintln(os.Stderr, color.RedString(t.Watch.Skipped, filepath.Base(path), err))
			return err
		}
		fmt.Fprintln(os.Stderr, color.GreenString(t.Translate.Completed, res.Cues, formatDuration(res.Elapsed)))
		fmt.Fprintf(os.Stderr, t.Translate.SavedTo+"\n", res.Output)
		return nil
	}

	w, err := watcher.New(dir, handle, watcher.Options{
		MaxConcurrent: watchMaxFiles,
		Filter:        func(path string) bool { return !isTranslation(path, s.TargetLang) },
		Logger:        log,
	})
	if err != nil {
		return usageErrorf("%v", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, color.CyanString(t.Watch.Watching, dir))
	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, t.Watch.Stopped)
		return nil
	}
	return err
}

// translatedPath returns where the translation of input is written:
// movie.srt becomes movie.<lang>.srt, in outDir when set.
func translatedPath(input, outDir, lang string) string {
	dir := filepath.Dir(input)
	if outDir != "" {
		dir = outDir
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+"."+langTag(lang)+".srt")
}

// isTranslation reports whether path is named like an output for lang.
func isTranslation(path, lang string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(strings.ToLower(base), "."+langTag(lang))
}

// langTag turns a language code or name into a file name segment.
func langTag(lang string) string {
	tag := strings.ToLower(strings.TrimSpace(lang))
	tag = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, tag)
	if tag == "" {
		return config.DefaultTargetLanguage
	}
	return tag
}
