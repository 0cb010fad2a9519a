package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/superscary/superconfig"
	"github.com/superscary/superconfig/format"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff takes exactly two files", cli.ErrUsage)
	}
	fa, da, err := loadArg(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	fb, db, err := loadArg(cfg.MainConfig, args[1])
	if err != nil {
		return err
	}
	d, err := superconfig.Diff(fa, da, fb, db)
	if err != nil {
		return err
	}
	if d == "" {
		return nil
	}
	_, err = io.WriteString(cc.Out, d)
	return err
}

func loadArg(cfg *MainConfig, path string) (format.Format, []byte, error) {
	data, err := readInput(path)
	if err != nil {
		return 0, nil, err
	}
	f, err := cfg.inFormat(path)
	if err != nil {
		return 0, nil, err
	}
	return f, data, nil
}
