package main

import (
	"fmt"

	"github.com/signadot/xsb/buffer"
	"github.com/signadot/xsb/query"

	"github.com/scott-cotton/cli"
)

func selectElements(cfg *SelectConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Select.Parse(cc, args)
	if err != nil {
		cfg.Select.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: select requires one argument, an expression", cli.ErrUsage)
	}
	q, err := query.Compile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	total := 0
	for _, arg := range inputs(args[1:]) {
		b, err := cfg.load(arg)
		if err != nil {
			return err
		}
		n, err := query.Select(b, q, func(f *buffer.Buffer) error {
			total++
			if !cfg.Count {
				if err := writeXML(cc.Out, f); err != nil {
					return err
				}
			}
			if cfg.Max > 0 && total >= cfg.Max {
				return query.ErrStop
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error selecting %s in %s: %w", q, arg, err)
		}
		cfg.logger().Debug("selected", "input", arg, "query", q.String(), "matches", n)
		if cfg.Max > 0 && total >= cfg.Max {
			break
		}
	}
	if cfg.Count {
		_, err := fmt.Fprintln(cc.Out, total)
		return err
	}
	return nil
}
