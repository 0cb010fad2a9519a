package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/superscary/superconfig"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch takes a file and a patch file", cli.ErrUsage)
	}
	f, doc, err := loadArg(cfg.MainConfig, args[0])
	if err != nil {
		return err
	}
	var out []byte
	if cfg.MergeStyle {
		pf, pdoc, err := loadArg(cfg.MainConfig, args[1])
		if err != nil {
			return err
		}
		out, err = superconfig.Merge(f, doc, pf, pdoc)
		if err != nil {
			return err
		}
	} else {
		pdoc, err := readInput(args[1])
		if err != nil {
			return err
		}
		out, err = superconfig.Patch(f, doc, pdoc)
		if err != nil {
			return err
		}
	}
	_, err = cc.Out.Write(out)
	return err
}
