package main

import (
	"fmt"

	"github.com/signadot/xsb/dump"

	"github.com/scott-cotton/cli"
)

func dumpEvents(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		cfg.Dump.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	p := dump.NewPrinter(cfg.dumpOpts(cc.Out)...)
	for _, arg := range inputs(args) {
		b, err := cfg.load(arg)
		if err != nil {
			return err
		}
		if cfg.YAML {
			d, err := dump.YAML(b)
			if err != nil {
				return fmt.Errorf("error listing %s: %w", arg, err)
			}
			if _, err := cc.Out.Write(d); err != nil {
				return err
			}
			continue
		}
		if err := p.Print(cc.Out, b); err != nil {
			return fmt.Errorf("error dumping %s: %w", arg, err)
		}
	}
	return nil
}
