package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "xsb").
		WithSynopsis("xsb [opts] command [opts]").
		WithDescription("xsb captures xml into event buffers and replays them.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xsbMain(cfg, cc, args)
		}).
		WithSubs(
			DumpCommand(cfg),
			ReplayCommand(cfg),
			DiffCommand(cfg),
			SelectCommand(cfg),
			EncodeCommand(cfg),
			DecodeCommand(cfg),
			StatCommand(cfg))
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("dump").
		WithAliases("d").
		WithOpts(opts...).
		WithSynopsis("dump [-yaml] [files]").
		WithDescription("print the events of xml or encoded buffers").
		WithRun(func(cc *cli.Context, args []string) error {
			return dumpEvents(cfg, cc, args)
		})
	cfg.Dump = cmd
	return cmd
}

func ReplayCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReplayConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("replay").
		WithAliases("r", "x").
		WithOpts(opts...).
		WithSynopsis("replay [-decl] [files]").
		WithDescription("write xml or encoded buffers as xml text").
		WithRun(func(cc *cli.Context, args []string) error {
			return replay(cfg, cc, args)
		})
	cfg.Replay = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("di").
		WithOpts(opts...).
		WithSynopsis("diff a b").
		WithDescription("diff the events of two inputs, exiting 1 if they differ").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func SelectCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SelectConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("select").
		WithAliases("s", "sel").
		WithOpts(opts...).
		WithSynopsis("select <expr> [files]").
		WithDescription("print the elements matching an expr predicate over prefix, uri, local, qname, depth, attrs and ns").
		WithRun(func(cc *cli.Context, args []string) error {
			return selectElements(cfg, cc, args)
		})
	cfg.Select = cmd
	return cmd
}

func EncodeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EncodeConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("encode").
		WithAliases("e", "enc").
		WithSynopsis("encode [file]").
		WithDescription("capture xml and write the encoded buffer").
		WithRun(func(cc *cli.Context, args []string) error {
			return encode(cfg, cc, args)
		})
	cfg.Encode = cmd
	return cmd
}

func DecodeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DecodeConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("decode").
		WithAliases("dec").
		WithSynopsis("decode [file]").
		WithDescription("write an encoded buffer as xml text").
		WithRun(func(cc *cli.Context, args []string) error {
			return decode(cfg, cc, args)
		})
	cfg.Decode = cmd
	return cmd
}

func StatCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StatConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("stat").
		WithSynopsis("stat [files]").
		WithDescription("print buffer statistics").
		WithRun(func(cc *cli.Context, args []string) error {
			return stat(cfg, cc, args)
		})
	cfg.Stat = cmd
	return cmd
}
