package main

import (
	"fmt"
	"os"

	"github.com/kpcyrd/authoscope/cliterm"
	"github.com/kpcyrd/authoscope/conf"
	"github.com/kpcyrd/authoscope/driver"
	"github.com/kpcyrd/authoscope/fsck"
	"github.com/kpcyrd/authoscope/keyboard"
	"github.com/kpcyrd/authoscope/logger"
	"github.com/kpcyrd/authoscope/progressbar"
	"github.com/kpcyrd/authoscope/report"
	"github.com/kpcyrd/authoscope/scheduler"
	"github.com/kpcyrd/authoscope/script"
	"github.com/kpcyrd/authoscope/wordlist"
)

// loadEnv applies the already-parsed common flags: it sets up logging
// verbosity, loads the config file and raises the fd ceiling it requests.
func loadEnv(c *commonFlags) (*conf.Config, error) {
	logger.SetVerbosity(int(c.verbosity))

	cfg, err := conf.Load(c.config)
	if err != nil {
		return nil, err
	}
	if err := raiseLimitIfRequested(cfg); err != nil {
		logger.Warnf("could not raise file descriptor limit: %v", err)
	}
	return cfg, nil
}

// runPairs drives sched/driver against every pair, with scriptPath
// loaded once and re-run fresh per attempt.
func runPairs(scriptPath string, cfg *conf.Config, c *commonFlags, pairs []wordlist.Pair) (driver.Summary, error) {
	s, err := script.Load(scriptPath, cfg)
	if err != nil {
		return driver.Summary{}, err
	}

	sched := scheduler.New(c.workers)
	rep, err := report.Open(c.output)
	if err != nil {
		return driver.Summary{}, err
	}
	defer rep.Close()

	bar := progressbar.New(os.Stdout)

	var kbReader *keyboard.Reader
	if cliterm.IsInteractive() {
		kbReader, err = keyboard.NewReader()
		if err == nil {
			stop := make(chan struct{})
			go kbReader.Run(sched, stop)
			defer func() {
				close(stop)
				kbReader.Restore()
			}()
		}
	}

	for _, p := range pairs {
		user, pw := p.User, p.Password
		fn := func() (bool, error) {
			return s.Run(user, &pw)
		}
		sched.Submit(scheduler.Creds{User: user, Password: &pw}, scheduler.DefaultTTL, fn)
	}

	sum, err := driver.Run(sched, bar, rep, len(pairs))
	sched.Close()
	return sum, err
}

func runEnumUsers(scriptPath string, cfg *conf.Config, c *commonFlags, users []string) (driver.Summary, error) {
	s, err := script.Load(scriptPath, cfg)
	if err != nil {
		return driver.Summary{}, err
	}

	sched := scheduler.New(c.workers)
	rep, err := report.Open(c.output)
	if err != nil {
		return driver.Summary{}, err
	}
	defer rep.Close()

	bar := progressbar.New(os.Stdout)

	for _, u := range users {
		user := u
		fn := func() (bool, error) {
			return s.Run(user, nil)
		}
		sched.Submit(scheduler.Creds{User: user}, scheduler.DefaultTTL, fn)
	}

	sum, err := driver.Run(sched, bar, rep, len(users))
	sched.Close()
	return sum, err
}

func runDict(args []string) error {
	fs, c := newCommonFlagSet("dict")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 3 {
		return fmt.Errorf("usage: authoscope dict <script> <users file> <passwords file>")
	}
	cfg, err := loadEnv(c)
	if err != nil {
		return err
	}

	users, err := wordlist.ReadLines(rest[1])
	if err != nil {
		return err
	}
	passwords, err := wordlist.ReadLines(rest[2])
	if err != nil {
		return err
	}

	sum, err := runPairs(rest[0], cfg, c, wordlist.CrossProduct(users, passwords))
	if err != nil {
		return err
	}
	fmt.Print(sum.String())
	return nil
}

func runCombo(args []string) error {
	fs, c := newCommonFlagSet("combo")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: authoscope combo <script> <combolist file>")
	}
	cfg, err := loadEnv(c)
	if err != nil {
		return err
	}

	pairs, err := wordlist.ReadCombo(rest[1])
	if err != nil {
		return err
	}

	sum, err := runPairs(rest[0], cfg, c, pairs)
	if err != nil {
		return err
	}
	fmt.Print(sum.String())
	return nil
}

func runEnum(args []string) error {
	fs, c := newCommonFlagSet("enum")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: authoscope enum <script> <candidates file>")
	}
	cfg, err := loadEnv(c)
	if err != nil {
		return err
	}

	users, err := wordlist.ReadLines(rest[1])
	if err != nil {
		return err
	}

	sum, err := runEnumUsers(rest[0], cfg, c, users)
	if err != nil {
		return err
	}
	fmt.Print(sum.String())
	return nil
}

func runOneshot(args []string) error {
	fs, c := newCommonFlagSet("run")
	exitcode := fs.Bool("x", false, "set the process exit code to reflect the verdict")
	fs.BoolVar(exitcode, "exitcode", false, "set the process exit code to reflect the verdict")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 3 {
		return fmt.Errorf("usage: authoscope run <script> <user> [password]")
	}
	cfg, err := loadEnv(c)
	if err != nil {
		return err
	}

	s, err := script.Load(rest[0], cfg)
	if err != nil {
		return err
	}

	var password *string
	if len(rest) == 3 {
		password = &rest[2]
	}

	ok, err := s.Run(rest[1], password)
	if err != nil {
		return err
	}
	fmt.Println(ok)

	if *exitcode && !ok {
		os.Exit(2)
	}
	return nil
}

func runFsck(args []string) error {
	fs, c := newCommonFlagSet("fsck")
	fs.Parse(args)
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: authoscope fsck <script> [script...]")
	}
	cfg, err := loadEnv(c)
	if err != nil {
		return err
	}

	if !fsck.Check(os.Stdout, rest, cfg) {
		os.Exit(1)
	}
	return nil
}

func runCompletions(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: authoscope completions <bash|zsh|fish>")
	}
	switch args[0] {
	case "bash":
		fmt.Print(cliterm.Bash())
	case "zsh":
		fmt.Print(cliterm.Zsh())
	case "fish":
		fmt.Print(cliterm.Fish())
	default:
		return fmt.Errorf("unknown shell %q", args[0])
	}
	return nil
}
