package main

import (
	"fmt"
	"os"

	"github.com/example/boxlabel/internal/clipboard"
	"github.com/example/boxlabel/internal/store"
)

var writeClipboardText = clipboard.WriteText

type exportCmd struct {
	sub
	output string
	toClip bool
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	c := &exportCmd{sub: newSub(r, "export")}
	c.dirFlag()
	c.fs.StringVar(&c.output, "o", "", "write to this file instead of stdout")
	c.fs.BoolVar(&c.toClip, "clipboard", false, "copy the document to the clipboard")
	if err := c.parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 0 || (c.output != "" && c.toClip) {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *exportCmd) Run() error {
	doc, err := store.New(c.dir, store.WithLogger(c.log)).Load()
	if err != nil {
		return err
	}
	data, dups, err := store.Encode(doc)
	if err != nil {
		return err
	}
	for _, d := range dups {
		c.log.Warn().Str("label", d).Msg("duplicate label, only the last is exported")
	}
	switch {
	case c.toClip:
		if err := writeClipboardText(string(data)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(c.stderr, "annotations copied to clipboard")
		c.notifier.Export("clipboard")
	case c.output != "":
		if err := os.WriteFile(c.output, data, 0o644); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		c.notifier.Export(c.output)
	default:
		if _, err := c.stdout.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(c.stdout)
		}
	}
	return nil
}
