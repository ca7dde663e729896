package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"

	"github.com/davidRoussov/json-to-terminal/internal/datasource"
	"github.com/davidRoussov/json-to-terminal/pkg/config"
	"github.com/davidRoussov/json-to-terminal/pkg/content"
	"github.com/davidRoussov/json-to-terminal/pkg/debug"
	"github.com/davidRoussov/json-to-terminal/pkg/history"
	"github.com/davidRoussov/json-to-terminal/pkg/metrics"
	"github.com/davidRoussov/json-to-terminal/pkg/navigator"
	"github.com/davidRoussov/json-to-terminal/pkg/render"
	"github.com/davidRoussov/json-to-terminal/pkg/session"
	"github.com/davidRoussov/json-to-terminal/pkg/ui"
	"github.com/davidRoussov/json-to-terminal/pkg/version"
	"github.com/davidRoussov/json-to-terminal/pkg/watcher"
)

// historyLimit is how many sessions the history database keeps.
const historyLimit = 1000

type cliOptions struct {
	file       string
	depth      config.StartDepth
	depthSet   bool
	primary    bool
	primarySet bool
	configPath string
	watch      bool
	watchSet   bool
	noHistory  bool
	dump       bool
	history    int
	help       bool
	version    bool
	logFile    string
	timings    bool
	cpuProfile string
	initConfig bool
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, *flag.FlagSet, error) {
	var o cliOptions
	o.depth = config.Auto

	fs := flag.NewFlagSet("tooey", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.file, "file", "", "Document to open (default: read stdin)")
	fs.Var(&o.depth, "depth", "Start depth: a level number or \"auto\"")
	fs.BoolVar(&o.primary, "primary", false, "Start in primary-content-only mode")
	fs.StringVar(&o.configPath, "config", "", "Config file (default: "+config.ConfigPath()+")")
	fs.BoolVar(&o.watch, "watch", false, "Reload the document when the file changes")
	fs.BoolVar(&o.noHistory, "no-history", false, "Do not record this session")
	fs.BoolVar(&o.dump, "dump", false, "Print the starting view as plain text and exit")
	fs.IntVar(&o.history, "history", 0, "Print the N most recent sessions and exit")
	fs.BoolVar(&o.help, "help", false, "Show help")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.StringVar(&o.logFile, "log-file", "", "Write debug logs to this file (enables debug logging)")
	fs.BoolVar(&o.timings, "timings", false, "Print timing metrics to stderr on exit")
	fs.StringVar(&o.cpuProfile, "cpu-profile", "", "Write CPU profile to file")
	fs.BoolVar(&o.initConfig, "init-config", false, "Write the default config file and exit")

	if err := fs.Parse(args); err != nil {
		return o, fs, err
	}
	if fs.NArg() > 0 {
		return o, fs, fmt.Errorf("unexpected argument %q (use --file)", fs.Arg(0))
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			o.depthSet = true
		case "primary":
			o.primarySet = true
		case "watch":
			o.watchSet = true
		}
	})
	return o, fs, nil
}

// applyFlags lets explicit flags override the config file.
func applyFlags(cfg config.Config, o cliOptions) config.Config {
	if o.depthSet {
		cfg.Navigation.StartDepth = o.depth
	}
	if o.primarySet {
		cfg.Navigation.PrimaryOnly = o.primary
	}
	if o.watchSet {
		cfg.Watch = o.watch
	}
	if o.noHistory {
		cfg.History.Enabled = false
	}
	return cfg
}

func navigatorOptions(cfg config.Config) navigator.Options {
	return navigator.Options{
		StartDepth:  int(cfg.Navigation.StartDepth),
		PrimaryOnly: cfg.Navigation.PrimaryOnly,
		KeepEmpty:   cfg.Navigation.KeepEmpty,
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if o.help {
		fmt.Fprintln(stdout, "Usage: tooey [options] [--file PATH | < document.json]")
		fmt.Fprintln(stdout, "\nNavigate a hierarchical content document one depth at a time.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if o.version {
		fmt.Fprintf(stdout, "tooey %s\n", version.Version)
		return 0
	}

	if o.initConfig {
		path, err := initConfig(o.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s\n", path)
		return 0
	}

	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Could not open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		debug.SetOutput(f)
		debug.SetEnabled(true)
	}

	if o.timings {
		metrics.SetEnabled(true)
		defer metrics.WriteSummary(stderr)
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(stderr, "Warning: %v; using default configuration\n", err)
		cfg = config.DefaultConfig()
	}
	cfg = applyFlags(cfg, o)

	if o.history > 0 {
		if err := showHistory(stdout, cfg.HistoryPath(), o.history); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	src, err := datasource.Resolve(datasource.ResolveOptions{Path: o.file, Stdin: os.Stdin})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	tree, err := datasource.LoadFromSource(&src, os.Stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	debug.Log("main: loaded %s, max depth %d", src, tree.MaxDepth())

	navOpts := navigatorOptions(cfg)
	if o.dump {
		if err := writeDump(stdout, tree, navOpts, cfg.Render); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	var w *watcher.Watcher
	if cfg.Watch && src.Watchable() {
		w, err = watcher.New(src.Path, watcher.Options{})
		if err == nil {
			err = w.Start(context.Background())
		}
		if err != nil {
			fmt.Fprintf(stderr, "Warning: live reload unavailable: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m, err := ui.NewModel(tree, ui.Options{
		Source:    src,
		Config:    cfg,
		Navigator: navOpts,
		Watcher:   w,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var progOpts []tea.ProgramOption
	if src.Type == datasource.SourceTypeStdin {
		// stdin carried the document; keys come from the terminal.
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	final, err := runTUIProgram(m, progOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error running tooey: %v\n", err)
		return 1
	}

	res := final.Result()
	if cfg.History.Enabled {
		if err := recordSession(cfg.HistoryPath(), res); err != nil {
			fmt.Fprintf(stderr, "Warning: session not recorded: %v\n", err)
		}
	}
	if err := printResult(stdout, res); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// initConfig writes the default configuration to path, or to the XDG
// config path when path is empty. An existing file is left alone.
func initConfig(path string) (string, error) {
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		return "", errors.New("cannot determine config directory")
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	return path, config.SaveTo(config.DefaultConfig(), path)
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// writeDump prints the starting view as plain text, one node after another.
func writeDump(w io.Writer, tree *content.Tree, opts navigator.Options, rc config.RenderConfig) error {
	nav := navigator.New(tree, opts)
	r := render.New(render.Options{
		WrapWidth:      rc.WrapWidth,
		MaxLines:       rc.MaxLines,
		Indent:         rc.Indent,
		PrimaryOnly:    nav.PrimaryOnly(),
		SeparateGroups: rc.SeparateGroups,
	})
	for _, node := range nav.View().Items() {
		for _, line := range render.Texts(r.Render(node)) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func printResult(w io.Writer, res session.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func recordSession(path string, res session.Result) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := store.Record(ctx, res); err != nil {
		return err
	}
	if _, err := store.Prune(ctx, historyLimit); err != nil {
		debug.Log("main: pruning history: %v", err)
	}
	return nil
}

func showHistory(w io.Writer, path string, n int) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded yet.")
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, formatEntry(e)); err != nil {
			return err
		}
	}
	return nil
}

func formatEntry(e history.Entry) string {
	line := fmt.Sprintf("%4d  %s  %-24s depth=%d",
		e.ID, e.EndedAt.Local().Format("2006-01-02 15:04"), e.Source, e.Depth)
	if e.NodeID != "" {
		line += "  node=" + e.NodeID
	}
	switch {
	case e.Value != "":
		line += "  " + strconv.Quote(e.Value)
	case e.URL != "":
		line += "  " + e.URL
	}
	if e.Chosen {
		line += "  (chosen)"
	}
	return line
}

func runTUIProgram(m ui.Model, opts ...tea.ProgramOption) (ui.Model, error) {
	defer debug.Span("tui")()

	p := tea.NewProgram(
		m,
		append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}, opts...)...,
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TOOEY_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TOOEY_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	final, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		err = nil
	}
	if fm, ok := final.(ui.Model); ok {
		m = fm
	}
	return m, err
}
