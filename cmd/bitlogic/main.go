// bitlogic runs programs of the binary-logic language.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"gopkg.in/inconshreveable/log15.v2"
	"gopkg.in/urfave/cli.v1"

	"github.com/agenthands/bitlogic/pkg/compiler/ast"
	"github.com/agenthands/bitlogic/pkg/compiler/lexer"
	"github.com/agenthands/bitlogic/pkg/compiler/parser"
	"github.com/agenthands/bitlogic/pkg/config"
	"github.com/agenthands/bitlogic/pkg/core/diag"
	"github.com/agenthands/bitlogic/pkg/interp"
	"github.com/agenthands/bitlogic/pkg/stdlib"
)

const usage = "Usage: bitlogic <file.bpl>"

// errFailed is returned once the failure has been reported to the user.
var errFailed = errors.New("bitlogic: run failed")

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log level: crit, error, warn, info or debug",
		Value: config.Defaults.Verbosity,
	}
	inputsFlag = cli.StringFlag{
		Name:  "inputs",
		Usage: "Comma-separated answers for input sites instead of prompting",
	}
	inputModeFlag = cli.StringFlag{
		Name:  "input-mode",
		Usage: "When input sites are answered: parse or run",
		Value: config.Defaults.InputMode,
	}
	looseGlobalFetchFlag = cli.BoolFlag{
		Name:  "loose-gb",
		Usage: "Do not check the token terminating a gb statement",
	}
	colorFlag = cli.StringFlag{
		Name:  "color",
		Usage: "Color diagnostics: auto, always or never",
		Value: config.Defaults.Color,
	}
	dumpTokensFlag = cli.BoolFlag{
		Name:  "dump-tokens",
		Usage: "Print the token table and exit",
	}
	dumpASTFlag = cli.BoolFlag{
		Name:  "dump-ast",
		Usage: "Print the parsed program as YAML and exit",
	}
)

// console is the process environment a command runs against.
type console struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	interactive bool // stdin is a terminal
	colorOut    bool // stdout is a terminal
}

func main() {
	c := &console{
		stdin:  os.Stdin,
		stdout: colorable.NewColorableStdout(),
		stderr: colorable.NewColorableStderr(),

		interactive: diag.IsTerminal(os.Stdin),
		colorOut:    diag.IsTerminal(os.Stdout),
	}
	if err := newApp(c).Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp(c *console) *cli.App {
	app := cli.NewApp()
	app.Name = "bitlogic"
	app.Usage = "binary-logic language interpreter"
	app.ArgsUsage = "<file.bpl>"
	app.Writer = c.stdout
	app.ErrWriter = c.stderr
	app.Flags = []cli.Flag{
		configFileFlag,
		verbosityFlag,
		inputsFlag,
		inputModeFlag,
		looseGlobalFetchFlag,
		colorFlag,
		dumpTokensFlag,
		dumpASTFlag,
	}
	app.Action = c.run
	app.Commands = []cli.Command{
		{
			Action:      c.dumpConfig,
			Name:        "dumpconfig",
			Usage:       "Show configuration values",
			Description: `The dumpconfig command shows the effective configuration as TOML.`,
		},
	}
	return app
}

// makeConfig loads the defaults, then the config file, then the flags.
func makeConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Defaults
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.GlobalIsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.GlobalString(verbosityFlag.Name)
	}
	if ctx.GlobalIsSet(inputModeFlag.Name) {
		cfg.InputMode = ctx.GlobalString(inputModeFlag.Name)
	}
	if ctx.GlobalIsSet(looseGlobalFetchFlag.Name) {
		cfg.LooseGlobalFetch = ctx.GlobalBool(looseGlobalFetchFlag.Name)
	}
	if ctx.GlobalIsSet(colorFlag.Name) {
		cfg.Color = ctx.GlobalString(colorFlag.Name)
	}
	return cfg, cfg.Validate()
}

func (c *console) setupLogging(cfg config.Config) {
	lvl, _ := cfg.Level()
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(c.stderr, log15.TerminalFormat())))
}

func (c *console) reporter(cfg config.Config) *diag.Reporter {
	r := &diag.Reporter{Out: c.stdout}
	switch cfg.Color {
	case config.ColorAlways:
		r.Color = true
	case config.ColorAuto:
		r.Color = c.colorOut
	}
	return r
}

func (c *console) dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		(&diag.Reporter{Out: c.stdout}).Report(err)
		return errFailed
	}
	return config.Dump(c.stdout, &cfg)
}

func (c *console) run(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		fmt.Fprintln(c.stdout, usage)
		return errFailed
	}

	cfg, err := makeConfig(ctx)
	if err != nil {
		(&diag.Reporter{Out: c.stdout}).Report(err)
		return errFailed
	}
	c.setupLogging(cfg)
	rep := c.reporter(cfg)

	in, closeInput := c.input(ctx, cfg)
	defer closeInput()

	if err := c.execute(ctx, cfg, ctx.Args().First(), in); err != nil {
		rep.Report(err)
		return errFailed
	}
	return nil
}

// input picks where answers for input sites come from: the --inputs list,
// a line-editing prompt on a terminal, or lines of stdin.
func (c *console) input(ctx *cli.Context, cfg config.Config) (stdlib.Input, func()) {
	if ctx.GlobalIsSet(inputsFlag.Name) {
		return stdlib.ParseScript(ctx.GlobalString(inputsFlag.Name)), func() {}
	}
	if c.interactive {
		l := stdlib.NewLinerInput(cfg.Prompt)
		return l, func() { l.Close() }
	}
	return stdlib.NewReaderInput(c.stdin), func() {}
}

func (c *console) execute(ctx *cli.Context, cfg config.Config, path string, in stdlib.Input) error {
	src, err := stdlib.LoadSource(path, cfg.MaxSourceSize)
	if err != nil {
		return err
	}

	toks := lexer.Tokenize(src)
	log15.Debug("Scanned source", "file", path, "tokens", len(toks))
	if ctx.GlobalBool(dumpTokensFlag.Name) {
		lexer.WriteTable(c.stdout, toks)
		return nil
	}

	p := parser.FromTokens(toks)
	p.Log = log15.Root().New("pkg", "parser")
	p.LooseGlobalFetch = cfg.LooseGlobalFetch
	if cfg.InputMode == config.InputModeParse {
		p.Input = in
	}
	prog, err := p.Parse()
	if err != nil {
		return err
	}
	if ctx.GlobalBool(dumpASTFlag.Name) {
		return ast.WriteYAML(c.stdout, prog)
	}

	m := interp.NewMachine()
	m.Log = log15.Root().New("pkg", "interp")
	m.Out = c.stdout
	m.Input = in
	m.MaxCallDepth = cfg.MaxCallDepth
	m.NoReturnNotice = cfg.NoReturnNotice
	return m.Run(prog)
}
