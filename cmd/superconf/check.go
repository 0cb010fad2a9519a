package main

import (
	"errors"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/superscary/superconfig/parse"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	bad := 0
	for _, path := range args {
		if err := checkOne(cfg, path); err != nil {
			bad++
			if !cfg.Quiet {
				fmt.Fprintf(cc.Out, "%s: %v\n", path, err)
			}
			continue
		}
		if !cfg.Quiet {
			fmt.Fprintf(cc.Out, "%s: ok\n", path)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d files failed", bad, len(args))
	}
	return nil
}

func checkOne(cfg *CheckConfig, path string) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	f, err := cfg.inFormat(path)
	if err != nil {
		return err
	}
	_, err = parse.Parse(f, data)
	var serr *parse.SyntaxError
	if errors.As(err, &serr) {
		return fmt.Errorf("line %d, column %d: %s", serr.Line, serr.Col, serr.Msg)
	}
	return err
}
