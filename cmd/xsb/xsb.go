package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/signadot/xsb/buffer"
	"github.com/signadot/xsb/xmlio"

	"github.com/scott-cotton/cli"
)

func xsbMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut == nil {
			return
		}
		if err := cfg.CloseOut(); err != nil {
			cfg.logger().Error("closing output", "file", cfg.Out, "error", err)
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logLevel.Set(slog.LevelDebug)
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("%w: -limit must not be negative", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	cfg.log = theLog.With("cmd", args[0])
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// outOpt sends command output to the file named by -o, "-" meaning
// stdout.
func (cfg *MainConfig) outOpt(cc *cli.Context, path string) (any, error) {
	cfg.Out = path
	if path == "-" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("-o: %w", err)
	}
	cc.Out = f
	cfg.CloseOut = func() error {
		if err := f.Close(); err != nil {
			return err
		}
		cfg.logger().Debug("wrote output", "file", path)
		return nil
	}
	return nil, nil
}

func readArg(arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(arg)
}

// load reads arg, "-" meaning stdin, as an encoded buffer if it is one and
// as xml otherwise.
func (cfg *MainConfig) load(arg string) (*buffer.Buffer, error) {
	data, err := readArg(arg)
	if err != nil {
		return nil, err
	}
	if buffer.IsBinary(data) {
		b, err := buffer.UnmarshalBinary(data)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", arg, err)
		}
		cfg.logBuffer("decoded", arg, b)
		return b, nil
	}
	systemID := arg
	if arg == "-" {
		systemID = ""
	}
	b, err := xmlio.CaptureString(string(data), cfg.captureOpts(systemID)...)
	if err != nil {
		return nil, fmt.Errorf("error capturing %s: %w", arg, err)
	}
	cfg.logBuffer("captured", arg, b)
	return b, nil
}

func (cfg *MainConfig) logBuffer(msg, arg string, b *buffer.Buffer) {
	cfg.logger().Debug(msg, "input", arg, "fragment", b.IsFragment(), "trees", b.TreeCount(), "size", b.Size())
}

// inputs defaults to stdin.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
