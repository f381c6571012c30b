package main

import (
	"fmt"

	"github.com/signadot/xsb/eventdiff"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 arguments, got %d", cli.ErrUsage, len(args))
	}
	from, to := args[0], args[1]
	if cfg.Reverse {
		from, to = to, from
	}
	a, err := cfg.load(from)
	if err != nil {
		return err
	}
	b, err := cfg.load(to)
	if err != nil {
		return err
	}
	lines, err := eventdiff.Diff(a, b)
	if err != nil {
		return err
	}
	if !eventdiff.Changed(lines) {
		return nil
	}
	if err := eventdiff.Write(cc.Out, lines, cfg.colored(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
