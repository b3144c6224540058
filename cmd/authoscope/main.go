// Command authoscope runs scripted credential probes against a target,
// concurrently, with an interactive terminal progress display.
package main

import (
	"fmt"
	"os"

	"github.com/kpcyrd/authoscope/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "dict":
		err = runDict(os.Args[2:])
	case "combo":
		err = runCombo(os.Args[2:])
	case "enum":
		err = runEnum(os.Args[2:])
	case "run":
		err = runOneshot(os.Args[2:])
	case "fsck":
		err = runFsck(os.Args[2:])
	case "completions":
		err = runCompletions(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		logger.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `authoscope - scripted credential probing

usage: authoscope <subcommand> [options]

subcommands:
  dict          cross product of a user list and a password list
  combo         a user:password combolist
  enum          a single-column candidate list, no password
  run           one script against one explicit credential
  fsck          validate scripts without running them
  completions   print a shell completion script

run 'authoscope <subcommand> -h' for subcommand options.`)
}
