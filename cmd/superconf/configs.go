package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/superscary/superconfig/encode"
	"github.com/superscary/superconfig/format"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// inFormat resolves the input dialect: the -I flag, else the file's
// extension.
func (cfg *MainConfig) inFormat(path string) (format.Format, error) {
	if cfg.InFormat != nil {
		return *cfg.InFormat, nil
	}
	if path == "" || path == "-" {
		return 0, fmt.Errorf("%w: reading stdin requires -I", cli.ErrUsage)
	}
	return format.FromPath(path)
}

// outFormat resolves the output dialect: the -O flag, else the same as
// in.
func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return in
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.Option {
	if cfg.Color {
		return []encode.Option{encode.WithColors(true)}
	}
	f, ok := w.(*os.File)
	if ok && isatty.IsTerminal(f.Fd()) {
		return []encode.Option{encode.WithColors(true)}
	}
	return nil
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

type ConvertConfig struct {
	*MainConfig
	NoComments bool `cli:"name=nocomments desc='drop comments instead of carrying them across'"`
	Cmd        *cli.Command
}

type ViewConfig struct {
	*MainConfig
	Cmd *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Cmd *cli.Command
}

type PatchConfig struct {
	*MainConfig
	MergeStyle bool `cli:"name=merge desc='apply as an RFC 7386 merge patch'"`
	Cmd        *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q aliases=quiet desc='no output, status only'"`
	Cmd   *cli.Command
}
