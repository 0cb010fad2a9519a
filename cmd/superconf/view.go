package main

import (
	"github.com/scott-cotton/cli"

	"github.com/superscary/superconfig/encode"
	"github.com/superscary/superconfig/parse"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		data, err := readInput(path)
		if err != nil {
			return err
		}
		in, err := cfg.inFormat(path)
		if err != nil {
			return err
		}
		tree, err := parse.Parse(in, data)
		if err != nil {
			return err
		}
		opts := cfg.encOpts(cc.Out)
		if err := encode.Encode(cc.Out, cfg.outFormat(in), tree, opts...); err != nil {
			return err
		}
	}
	return nil
}
