// Package main provides the CLI entrypoint for graffiti.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/graffiti/internal/calendar"
	"github.com/verte-zerg/graffiti/internal/config"
	"github.com/verte-zerg/graffiti/internal/git"
	"github.com/verte-zerg/graffiti/internal/glyph"
	"github.com/verte-zerg/graffiti/internal/model"
	"github.com/verte-zerg/graffiti/internal/preview"
	"github.com/verte-zerg/graffiti/internal/render"
	"github.com/verte-zerg/graffiti/internal/schedule"
	"github.com/verte-zerg/graffiti/internal/stats"
	"github.com/verte-zerg/graffiti/internal/store"
	"github.com/verte-zerg/graffiti/internal/tui"
)

const (
	defaultMinCommits = 30
	defaultMaxCommits = 35
	defaultCharset    = string(glyph.CharsetExtended)
	defaultWindow     = string(calendar.LengthInclusive)
	defaultHistoryN   = 20
)

const rootLong = `Paint a message onto the GitHub contribution calendar.

The message is every positional argument joined with a space. A message
whose first word names a subcommand (preview, glyphs, history, config,
help, completion) must follow "--", as in: graffiti -- history lesson`

const rootExample = `  graffiti --dry-run HELLO
  graffiti --preview -- config`

var (
	paintMinCommits int
	paintMaxCommits int
	paintDryRun     bool
	paintInvert     bool
	paintPreview    bool
	paintStart      string
	paintWeeksBack  int
	paintCharset    string
	paintWindow     string
	paintFont       string
	paintRepo       string
	paintSeed       int64
	paintEnvFile    string
	paintNoTUI      bool
	paintNoHistory  bool
	paintVerbose    bool

	glyphsShow bool

	historyLast int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "graffiti [flags] MESSAGE...",
		Short:         "Paint a message onto the GitHub contribution calendar",
		Long:          rootLong,
		Example:       rootExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runPaintCmd,
	}

	flags := rootCmd.Flags()
	flags.IntVarP(&paintMinCommits, "min-commits", "c", defaultMinCommits, "minimum commits per painted day")
	flags.IntVarP(&paintMaxCommits, "max-commits", "C", defaultMaxCommits, "maximum commits per painted day")
	flags.BoolVarP(&paintDryRun, "dry-run", "d", false, "walk the calendar without committing")
	flags.BoolVarP(&paintInvert, "invert", "i", false, "paint the background instead of the glyphs")
	flags.BoolVarP(&paintPreview, "preview", "p", false, "print the grid and exit")
	flags.StringVarP(&paintStart, "start", "s", "", "start date (YYYY-MM-DD); painting starts on the Sunday on or before it")
	flags.IntVar(&paintWeeksBack, "weeks-back", calendar.DefaultWeeksBack, "weeks before the current one to start painting")
	flags.StringVar(&paintCharset, "charset", defaultCharset, "character set (extended or alpha)")
	flags.StringVar(&paintWindow, "window", defaultWindow, "window length profile (inclusive or exact)")
	flags.StringVar(&paintFont, "font", "", "glyph font file (default: built-in 5x7)")
	flags.StringVar(&paintRepo, "repo", "", "git repository to commit to (default: current directory)")
	flags.Int64Var(&paintSeed, "seed", 0, "seed for reproducible commit counts")
	flags.StringVar(&paintEnvFile, "env-file", "", "env file with git identity variables (default: <repo>/.env)")
	flags.BoolVar(&paintNoTUI, "no-tui", false, "print a plain progress line instead of the live grid")
	flags.BoolVar(&paintNoHistory, "no-history", false, "do not record the run")
	flags.BoolVar(&paintVerbose, "verbose", false, "log diagnostics to stderr")

	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newGlyphsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPaintCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if cfg.Preview {
		return writePreview(cmd, cfg)
	}
	return paint(cmd.Context(), cmd.OutOrStdout(), cfg, git.NewExecExecutor())
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview MESSAGE...",
		Short: "Print the grid for a message without committing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paintPreview = true
			return runPaintCmd(cmd, args)
		},
	}
	cmd.Flags().BoolVarP(&paintInvert, "invert", "i", false, "swap foreground and background")
	cmd.Flags().StringVar(&paintCharset, "charset", defaultCharset, "character set (extended or alpha)")
	cmd.Flags().StringVar(&paintFont, "font", "", "glyph font file (default: built-in 5x7)")
	return cmd
}

func writePreview(cmd *cobra.Command, cfg model.Config) error {
	lay, err := buildLayout(cfg, time.Now())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	color := tui.ShouldUseColor(out)
	return preview.Render(out, lay.grid, lay.polarity, preview.Options{Color: color, Labels: color})
}

func newGlyphsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glyphs",
		Short: "List the characters a message may contain",
		Args:  cobra.NoArgs,
		RunE:  runGlyphsCmd,
	}
	cmd.Flags().StringVar(&paintCharset, "charset", defaultCharset, "character set (extended or alpha)")
	cmd.Flags().StringVar(&paintFont, "font", "", "glyph font file (default: built-in 5x7)")
	cmd.Flags().BoolVar(&glyphsShow, "show", false, "print each glyph")
	return cmd
}

func runGlyphsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	charset, err := glyph.ParseCharset(paintCharset)
	if err != nil {
		return err
	}
	table, err := loadFont(paintFont)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	chars := supportedChars(table, charset)
	if !glyphsShow {
		names := make([]string, len(chars))
		for i, ch := range chars {
			names[i] = glyph.Describe(ch)
		}
		_, err := fmt.Fprintln(out, strings.Join(names, " "))
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, ch := range chars {
		grid, err := render.Render(table, string(ch))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, glyph.Describe(ch)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := preview.Render(out, grid, calendar.Normal, preview.Options{}); err != nil {
			return err
		}
	}
	return nil
}

// supportedChars lists the characters in table a charset lets through.
func supportedChars(table *glyph.Table, charset glyph.Charset) []rune {
	var chars []rune
	for _, ch := range table.Chars() {
		if charset.Supports(ch) {
			chars = append(chars, ch)
		}
	}
	return chars
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryN, "limit to last N runs (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		logErrln("No runs recorded yet.")
		return nil
	}
	return stats.WriteRuns(cmd.OutOrStdout(), runs)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	p := fileCfg.Paint
	applyIntConfig(cmd, "min-commits", &paintMinCommits, p.MinCommits)
	applyIntConfig(cmd, "max-commits", &paintMaxCommits, p.MaxCommits)
	applyStringConfig(cmd, "charset", &paintCharset, p.Charset)
	applyStringConfig(cmd, "window", &paintWindow, p.Window)
	applyBoolConfig(cmd, "invert", &paintInvert, p.Invert)
	applyBoolConfig(cmd, "dry-run", &paintDryRun, p.DryRun)
	applyIntConfig(cmd, "weeks-back", &paintWeeksBack, p.WeeksBack)
	applyStringConfig(cmd, "font", &paintFont, p.Font)
	applyStringConfig(cmd, "repo", &paintRepo, p.Repo)
	applyStringConfig(cmd, "env-file", &paintEnvFile, p.EnvFile)
	if p.History != nil && !cmd.Flags().Changed("no-history") {
		paintNoHistory = !*p.History
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func buildConfig(cmd *cobra.Command, args []string) (model.Config, error) {
	cfg := model.Config{
		Message:    strings.Join(args, " "),
		MinCommits: paintMinCommits,
		MaxCommits: paintMaxCommits,
		WeeksBack:  paintWeeksBack,
		Charset:    paintCharset,
		Window:     paintWindow,
		Invert:     paintInvert,
		DryRun:     paintDryRun,
		Preview:    paintPreview,
		Font:       paintFont,
		Repo:       paintRepo,
		EnvFile:    paintEnvFile,
		NoTUI:      paintNoTUI,
		History:    !paintNoHistory,
		Verbose:    paintVerbose,
	}
	if cmd.Flags().Changed("seed") {
		seed := paintSeed
		cfg.Seed = &seed
	}
	if paintStart != "" {
		start, err := time.ParseInLocation(time.DateOnly, paintStart, time.Local)
		if err != nil {
			return model.Config{}, fmt.Errorf("invalid --start value: %w", err)
		}
		cfg.Start = &start
	}
	return cfg, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# graffiti configuration
# Uncomment a value to enable it. CLI flags override config values.

[paint]
# min-commits = %d        # Minimum commits per painted day
# max-commits = %d        # Maximum commits per painted day
# charset = %q      # Character set: "extended" or "alpha"
# window = %q      # Window length profile: "inclusive" or "exact"
# weeks-back = %d         # Weeks before the current one to start painting
# invert = false          # Paint the background instead of the glyphs
# dry-run = false         # Walk the calendar without committing
# font = ""               # Glyph font file (empty for the built-in font)
# repo = ""               # Git repository to commit to
# env-file = ""           # Env file with GIT_AUTHOR_* / GIT_COMMITTER_* variables
# history = true          # Record runs in the history database
`,
		defaultMinCommits,
		defaultMaxCommits,
		defaultCharset,
		defaultWindow,
		calendar.DefaultWeeksBack,
	)
}

func validateConfig(cfg model.Config) error {
	if _, err := glyph.ParseCharset(cfg.Charset); err != nil {
		return err
	}
	if _, err := calendar.ParseLength(cfg.Window); err != nil {
		return err
	}
	if err := (schedule.Range{Min: cfg.MinCommits, Max: cfg.MaxCommits}).Validate(); err != nil {
		return err
	}
	if cfg.WeeksBack < 0 {
		return fmt.Errorf("--weeks-back must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
