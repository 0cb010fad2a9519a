package main

import (
	"github.com/scott-cotton/cli"

	"github.com/superscary/superconfig/encode"
	"github.com/superscary/superconfig/parse"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		if err := convertOne(cfg, cc, path); err != nil {
			return err
		}
	}
	return nil
}

func convertOne(cfg *ConvertConfig, cc *cli.Context, path string) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	in, err := cfg.inFormat(path)
	if err != nil {
		return err
	}
	popts := []parse.Option{parse.WithComments(!cfg.NoComments)}
	tree, err := parse.Parse(in, data, popts...)
	if err != nil {
		return err
	}
	return encode.Encode(cc.Out, cfg.outFormat(in), tree)
}
