package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/havrydotdev/treelox/config"
	"github.com/havrydotdev/treelox/logs"
	"github.com/havrydotdev/treelox/lox"
)

const (
	exitUsage   = 64
	exitNoInput = 66
	exitConfig  = 78
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("golox", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	dumpAST := fs.Bool("ast", false, "print each program back as source before running it")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: golox [flags] [script]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return exitUsage
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}

	// flags given on the command line win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ast":
			cfg.DumpAST = *dumpAST
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}

	logger, err := logs.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}
	defer logger.Close()

	opts := []lox.Option{
		lox.WithLogger(logger.Logger),
		lox.WithMaxDepth(cfg.MaxCallDepth),
		lox.WithDumpAST(cfg.DumpAST),
	}

	switch {
	case fs.NArg() == 1:
		return runFile(fs.Arg(0), opts)
	case term.IsTerminal(int(os.Stdin.Fd())):
		return repl(cfg, logger.Logger, opts)
	}

	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitNoInput
	}

	return lox.New(opts...).Run(string(text)).ExitCode()
}

func runFile(fileName string, opts []lox.Option) int {
	text, err := os.ReadFile(fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitNoInput
	}

	return lox.New(opts...).Run(string(text)).ExitCode()
}

// repl runs each line against one engine. Errors are reported and the
// session goes on.
func repl(cfg config.Config, logger *slog.Logger, opts []lox.Option) int {
	fmt.Println("Welcome to GoLox (version 0.1.0)!")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history := cfg.HistoryPath(); history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			f, err := os.Create(history)
			if err != nil {
				logger.Warn("write history", "path", history, "error", err)
				return
			}

			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	engine := lox.New(opts...)
	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("read line", "error", err)
			}

			fmt.Println()
			return 0
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)
		engine.Run(line)
	}
}
