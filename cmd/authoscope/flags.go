package main

import (
	"flag"
)

// countFlag implements flag.Value so repeated -v increments a
// counter instead of the last occurrence winning.
type countFlag int

func (c *countFlag) String() string { return "" }
func (c *countFlag) Set(string) error {
	*c++
	return nil
}
func (c *countFlag) IsBoolFlag() bool { return true }

// commonFlags are the options every run-shaped subcommand accepts.
type commonFlags struct {
	verbosity countFlag
	workers   int
	output    string
	config    string
}

func newCommonFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	c := &commonFlags{}
	fs.Var(&c.verbosity, "v", "increase verbosity (repeatable)")
	fs.IntVar(&c.workers, "n", 16, "number of concurrent workers")
	fs.IntVar(&c.workers, "workers", 16, "number of concurrent workers")
	fs.StringVar(&c.output, "o", "", "write found credentials to this file")
	fs.StringVar(&c.output, "output", "", "write found credentials to this file")
	fs.StringVar(&c.config, "c", "", "path to an explicit config file")
	return fs, c
}
