package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guiyumin/srt-translator/internal/core/config"
	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/core/logger"
	"github.com/guiyumin/srt-translator/internal/core/pipeline"
	"github.com/guiyumin/srt-translator/internal/core/translate"
	"github.com/guiyumin/srt-translator/internal/core/version"
)

var rootCmd = &cobra.Command{
	Use:   "translator -i <input.srt> -o <output.srt>",
	Short: "Translate SRT subtitles with large language models",
	Long: `Translate an SRT subtitle file with a large language model.

Cue numbers and timestamps are copied unchanged; only the text is translated.
The output file is written only after every cue has been translated.

Examples:
  translator -i movie.srt -o movie.zh.srt
  translator -i talk.srt -o talk.ja.srt -t ja -p anthropic
  translator -i ep01.srt -o ep01.es.srt -t es --hint "cooking show, host is Marco"`,
	Version:       version.Version,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTranslate,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input SRT file (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output SRT file (required)")
	rootCmd.Flags().BoolVar(&renumber, "renumber", false, "renumber cues 1..n in the output")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	addTranslateFlags(rootCmd)
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
	rootCmd.MarkFlagFilename("input", "srt")
	rootCmd.MarkFlagFilename("output", "srt")
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	return reportError(os.Stderr, i18n.T(uiLanguage()), err)
}

// uiLanguage is the configured message language, English when unknown.
func uiLanguage() string {
	cfg, err := config.LoadOrDefault()
	if err != nil || cfg.Language == "" {
		return "en"
	}
	return cfg.Language
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	return cfg, nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if filepath.Clean(inputPath) == filepath.Clean(outputPath) {
		return usageErrorf("output must differ from input: %s", outputPath)
	}

	tui := useTUI()
	var logOut io.Writer = os.Stderr
	if tui {
		logOut = io.Discard
	}
	log, _ := logger.WithRun(logger.New(s.LogLevel, logOut))
	defer log.Sync()

	runner, tr, err := newRunner(cfg, s, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := i18n.T(cfg.Language)
	fmt.Fprintln(os.Stderr, color.CyanString(t.Translate.Translating,
		filepath.Base(inputPath), s.SourceLang, s.TargetLang, tr.Name()))

	job := func(ctx context.Context, progress translate.ProgressFunc) (*pipeline.Result, error) {
		return runner.Run(ctx, pipeline.Job{
			Input:    inputPath,
			Output:   outputPath,
			Renumber: renumber,
			Progress: progress,
		})
	}

	var res *pipeline.Result
	if tui {
		res, err = runWithTUI(ctx, filepath.Base(inputPath), cfg.Language, job)
	} else {
		res, err = runPlain(ctx, os.Stderr, cfg.Language, job)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, color.GreenString(t.Translate.Completed, res.Cues, formatDuration(res.Elapsed)))
	fmt.Fprintf(os.Stderr, t.Translate.SavedTo+"\n", res.Output)
	return nil
}

// newRunner builds the provider, the dispatcher and the pipeline for s.
func newRunner(cfg *config.Config, s settings, log *zap.SugaredLogger) (*pipeline.Runner, translate.Translator, error) {
	key, err := resolveAPIKey(cfg, s.Provider)
	if err != nil {
		return nil, nil, err
	}

	tr, err := translate.New(translate.Config{
		Provider: s.Provider,
		APIKey:   key,
		Model:    s.Model,
		BaseURL:  s.BaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	d, err := translate.NewDispatcher(tr, translate.Options{
		SourceLang:  s.SourceLang,
		TargetLang:  s.TargetLang,
		Hint:        s.Hint,
		ChunkSize:   s.ChunkSize,
		Concurrency: s.Concurrency,
		MaxRetries:  s.MaxRetries,
		Logger:      log,
	})
	if err != nil {
		return nil, nil, usageErrorf("%v", err)
	}

	log.Debugw("settings", "effective", s.String())
	return pipeline.New(d, log), tr, nil
}
