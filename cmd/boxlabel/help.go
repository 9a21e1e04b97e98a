package main

import (
	"bytes"
	"embed"
	"flag"
	"io"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

// HelpData is what a help template renders.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

// UsageError reports bad arguments; its message is the command's help.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// newFlagSet returns a flag set that reports errors through UsageError
// instead of printing them.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// sub is embedded by every subcommand.
type sub struct {
	*root
	fs       *flag.FlagSet
	name     string
	template string
	dir      string
}

func newSub(r *root, name string) sub {
	return sub{root: r, fs: newFlagSet(name), name: name, template: name + ".txt"}
}

func (s *sub) Program() string        { return s.root.subProgram(s.name) }
func (s *sub) FlagSet() *flag.FlagSet { return s.fs }
func (s *sub) Template() string       { return s.template }

func (s *sub) dirFlag() {
	s.fs.StringVar(&s.dir, "dir", "", "images folder (default: images_dir from the config, then the current directory)")
}

// parse parses args and resolves the images folder: -dir, then the config,
// then ".".
func (s *sub) parse(args []string) error {
	if err := s.fs.Parse(args); err != nil {
		return &UsageError{of: s}
	}
	if s.dir == "" && s.root.config != nil {
		s.dir = s.root.config.ImagesDir
	}
	if s.dir == "" {
		s.dir = "."
	}
	return nil
}
