package main

import (
	"fmt"
	"io"

	"github.com/signadot/xsb/buffer"
	"github.com/signadot/xsb/xmlio"

	"github.com/scott-cotton/cli"
)

func replay(cfg *ReplayConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Replay.Parse(cc, args)
	if err != nil {
		cfg.Replay.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var opts []xmlio.WriterOption
	if cfg.Decl {
		opts = append(opts, xmlio.WithDeclaration())
	}
	for _, arg := range inputs(args) {
		b, err := cfg.load(arg)
		if err != nil {
			return err
		}
		if err := writeXML(cc.Out, b, opts...); err != nil {
			return fmt.Errorf("error replaying %s: %w", arg, err)
		}
	}
	return nil
}

func writeXML(w io.Writer, b *buffer.Buffer, opts ...xmlio.WriterOption) error {
	if err := xmlio.Write(w, b, opts...); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
