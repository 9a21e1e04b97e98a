package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/boxlabel/internal/config"
	"github.com/example/boxlabel/internal/logging"
	"github.com/example/boxlabel/internal/notify"
)

var (
	version            = "dev"
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs       *flag.FlagSet
	program  string
	config   *config.Config
	notifier *notify.Notifier
	log      zerolog.Logger
	stdout   io.Writer
	stderr   io.Writer
	getenv   func(string) string

	configPath    string
	themeName     string
	logLevel      string
	saveAlerts    bool
	exportAlerts  bool
	captureAlerts bool
}

func (r *root) Program() string { return r.program }

func (r *root) FlagSet() *flag.FlagSet { return r.fs }

func (r *root) Template() string { return "root.txt" }

func newRoot(stdout, stderr io.Writer, getenv func(string) string) *root {
	r := &root{
		fs:      flag.NewFlagSet("boxlabel", flag.ContinueOnError),
		program: "boxlabel",
		stdout:  stdout,
		stderr:  stderr,
		getenv:  getenv,
		log:     zerolog.Nop(),
	}
	r.fs.SetOutput(io.Discard)
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "read configuration from this file")
	// Precedence: CLI > Env > Config > Default. Empty flags fall through.
	r.fs.StringVar(&r.themeName, "theme", "", "colour theme (default, light, dark or a theme file)")
	r.fs.StringVar(&r.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after annotations are saved")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", false, "show a desktop notification after an export")
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", false, "show a desktop notification after a capture")
	return r
}

// setup loads the configuration and builds the logger and notifier once the
// global flags are known.
func (r *root) setup() {
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	cfg.ApplyEnv(r.getenv)
	if r.themeName != "" {
		cfg.Theme = r.themeName
	}
	if r.logLevel != "" {
		cfg.LogLevel = r.logLevel
	}
	r.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "notify-save":
			cfg.Notify.Save = r.saveAlerts
		case "notify-export":
			cfg.Notify.Export = r.exportAlerts
		case "notify-capture":
			cfg.Notify.Capture = r.captureAlerts
		}
	})
	r.config = cfg
	r.log = logging.New(r.stderr, cfg.LogLevel)
	r.notifier = notify.FromConfig(cfg, notify.WithLogger(r.log))
}

func (r *root) subProgram(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return &UsageError{of: r}
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.setup()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "label":
		cmd, err = parseLabelCmd(subArgs, r)
	case "list":
		cmd, err = parseListCmd(subArgs, r)
	case "add":
		cmd, err = parseAddCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "capture":
		cmd, err = parseCaptureCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	case "help":
		return &UsageError{of: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot(os.Stdout, os.Stderr, os.Getenv)
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
