package main

import (
	"fmt"

	"github.com/signadot/xsb/buffer"

	"github.com/scott-cotton/cli"
)

func encode(cfg *EncodeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Encode.Parse(cc, args)
	if err != nil {
		cfg.Encode.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: encode takes at most one input", cli.ErrUsage)
	}
	arg := inputs(args)[0]
	b, err := cfg.load(arg)
	if err != nil {
		return err
	}
	d, err := b.MarshalBinary()
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", arg, err)
	}
	_, err = cc.Out.Write(d)
	return err
}

func decode(cfg *DecodeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Decode.Parse(cc, args)
	if err != nil {
		cfg.Decode.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: decode takes at most one input", cli.ErrUsage)
	}
	arg := inputs(args)[0]
	data, err := readArg(arg)
	if err != nil {
		return err
	}
	b, err := buffer.UnmarshalBinary(data)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", arg, err)
	}
	cfg.logBuffer("decoded", arg, b)
	return writeXML(cc.Out, b)
}
