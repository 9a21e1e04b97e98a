package main

import "fmt"

type versionCmd struct{ *root }

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.stdout, "%s version %s\n", v.program, version)
	return nil
}
