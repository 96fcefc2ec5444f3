package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"battlemap-engine/internal/config"
	"battlemap-engine/internal/version"
	"battlemap-engine/pkg/logger"
)

// errUsage - команда вызвана с неверными аргументами, справка уже напечатана
var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(e *env, args []string) error
}

// env - общее окружение подкоманд
type env struct {
	cfg config.Config
	out io.Writer
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var commands []command

func init() {
	commands = []command{
		{"snap", "snap a world point to the nearest cell center", runSnap},
		{"cell", "describe the cell under a world point", runCell},
		{"lines", "enumerate grid line segments inside a rectangle", runLines},
		{"detect", "detect the enclosed room around a point", runDetect},
		{"fog", "edit and query the stored fog shape log (add|rm|list|hidden|cells)", runFog},
		{"demo", "generate a dungeon, detect a room and reveal it", runDemo},
		{"version", "print build information", runVersion},
	}
}

func main() {
	// 1. Парсинг глобальных флагов
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to mapgeom.yaml (default: $"+config.EnvConfigPath+")")
	flag.Usage = printHelp
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		// Логгер ещё не настроен, но дефолтный уже пишет в stderr
		logger.Log.Fatal("Failed to load config: ", err)
	}
	logger.Init(cfg.LoggerOptions())

	args := flag.Args()
	if len(args) == 0 {
		printHelp()
		os.Exit(2)
	}

	e := &env{cfg: cfg, out: os.Stdout}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		logger.Log.WithField("command", c.name).Debug("Running command.")
		if err := c.run(e, args[1:]); err != nil {
			if errors.Is(err, errUsage) {
				os.Exit(2)
			}
			logger.Log.WithField("command", c.name).Fatal(err)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
	printHelp()
	os.Exit(2)
}

func printHelp() {
	fmt.Fprintln(os.Stderr, `mapgeom - battlemap geometry & visibility engine

Usage: mapgeom [-config mapgeom.yaml] <command> [flags]

Commands:`)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(os.Stderr, `
Run "mapgeom <command> -h" for command flags.`)
}

func runVersion(e *env, _ []string) error {
	return e.printJSON(version.Get())
}

// parseFlags разбирает флаги подкоманды; -h и ошибки превращаются в errUsage
func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}
