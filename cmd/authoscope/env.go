package main

import (
	"github.com/kpcyrd/authoscope/conf"
	"github.com/kpcyrd/authoscope/ulimit"
)

func raiseLimitIfRequested(cfg *conf.Config) error {
	return ulimit.Raise(cfg.Runtime.RlimitNofile)
}
