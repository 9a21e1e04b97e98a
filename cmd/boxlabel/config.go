package main

import (
	"fmt"

	"github.com/example/boxlabel/internal/config"
)

type configCmd struct {
	sub
	output string
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	c := &configCmd{sub: newSub(r, "config")}
	c.fs.StringVar(&c.output, "o", "", "file written by save (default: the file in use, then "+config.DefaultPath()+")")
	if err := c.fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch action := c.fs.Arg(0); action {
	case "print":
		fmt.Fprint(c.stdout, c.config.String())
		return nil
	case "save":
		return c.runSave()
	case "path":
		path := config.NewLoader(version, c.configPath).Path()
		if path == "" {
			path = "(none, defaults in use)"
		}
		fmt.Fprintln(c.stdout, path)
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", action)
	}
}

func (c *configCmd) runSave() error {
	path := c.output
	if path == "" {
		path = config.NewLoader(version, c.configPath).Path()
	}
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: home directory unknown")
	}
	if err := config.Save(c.config, path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	fmt.Fprintf(c.stderr, "Configuration saved to %s\n", path)
	return nil
}
