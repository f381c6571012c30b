package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/signadot/xsb/dump"
	"github.com/signadot/xsb/xmlio"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Fragment bool `cli:"name=f aliases=fragment desc='read xml input as a fragment'"`
	Keep     bool `cli:"name=ws desc='keep whitespace only text'"`
	Color    bool `cli:"name=color desc='output with color'"`
	Verbose  bool `cli:"name=v desc='log what is read and written'"`
	Limit    int  `cli:"name=limit desc='maximum size in bytes of a captured buffer'"`

	Out      string
	CloseOut func() error

	log *slog.Logger

	Main *cli.Command
}

func (cfg *MainConfig) captureOpts(systemID string) []xmlio.Option {
	res := []xmlio.Option{xmlio.SystemID(systemID)}
	if cfg.Fragment {
		res = append(res, xmlio.Fragment())
	}
	if cfg.Keep {
		res = append(res, xmlio.KeepWhitespace())
	}
	if cfg.Limit > 0 {
		res = append(res, xmlio.Limit(cfg.Limit))
	}
	return res
}

// colored reports whether output to w should be colored: -color when
// given, otherwise whether w is a terminal.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) dumpOpts(w io.Writer) []dump.Option {
	if cfg.colored(w) {
		return []dump.Option{dump.WithColors(dump.NewColors())}
	}
	return nil
}

type DumpConfig struct {
	*MainConfig
	YAML bool `cli:"name=yaml aliases=y desc='output a yaml listing'"`

	Dump *cli.Command
}

type ReplayConfig struct {
	*MainConfig
	Decl bool `cli:"name=decl desc='write an xml declaration'"`

	Replay *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type SelectConfig struct {
	*MainConfig
	Count bool `cli:"name=c desc='only print the number of matches'"`
	Max   int  `cli:"name=max desc='stop after this many matches'"`

	Select *cli.Command
}

type EncodeConfig struct {
	*MainConfig

	Encode *cli.Command
}

type DecodeConfig struct {
	*MainConfig

	Decode *cli.Command
}

type StatConfig struct {
	*MainConfig

	Stat *cli.Command
}
