package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"newt/internal/loader"
	"newt/internal/log"
	"newt/internal/object"
	"newt/internal/repl"
	"newt/internal/util"

	"gopkg.in/yaml.v3"
)

var (
	// Version is the current version of the newt binary, set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	color    bool
	// config vars
	configFile string
	// modes
	dump     bool
	query    string
	useRepl  bool
	maxDepth int
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// modes
	flag.BoolVar(&dump, "dump", false, "Print tags and function groups of the loaded module")
	flag.StringVar(&query, "query", "", "Resolve one call, given as YAML: {name: show, args: [...]}")
	flag.BoolVar(&useRepl, "repl", false, "Start the interactive inspector")
	// matcher config
	flag.IntVar(&maxDepth, "max-match-depth", 0, "Override the matcher recursion limit")
	flag.StringVar(&configFile, "config", "", "Path to a TOML configuration file")
	// log config
	flag.StringVar(&logLevel, "log-level", "NONE", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	flag.BoolVar(&color, "color", true, "Colorize log output when writing to a terminal")
}

func main() {
	flag.Parse()

	config := util.Configuration{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
		LogLevel:  logLevel,
		LogFile:   logFile,
		Color:     color,
	}
	if configFile != "" {
		if err := config.LoadConfigFile(configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if maxDepth > 0 {
		config.MaxMatchDepth = maxDepth
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevelFromString(config.LogLevel),
	}
	logWriter := configureLogWriter(config.LogFile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(logWriter, loggerOptions)))
	log.InitLogger(config.LogLevel, config.LogFile, config.Color)
	defer log.Close()

	if version {
		printVersion()
		return
	}
	if help {
		printHelp()
		return
	}

	manifestPath := flag.Arg(0)
	if manifestPath == "" {
		printHelp()
		os.Exit(2)
	}

	res, err := loader.LoadFile(manifestPath)
	if err != nil {
		log.Error("module load failed: %v", err)
		fmt.Fprintf(os.Stderr, "load %s: %v\n", manifestPath, err)
		os.Exit(1)
	}
	if config.MaxMatchDepth > 0 {
		res.Table.Matcher().MaxDepth = config.MaxMatchDepth
	}

	switch {
	case query != "":
		if err := runQuery(res, query); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case useRepl:
		repl.Start(res, os.Stdin, os.Stdout)
	case dump:
		dumpModule(res)
	default:
		fmt.Printf("loaded %s: %d tags, %d function groups\n",
			manifestPath, len(res.Registry.Tags()), len(res.Table.Names()))
	}
}

type queryDecl struct {
	Name string      `yaml:"name"`
	Args []yaml.Node `yaml:"args"`
}

func runQuery(res *loader.Result, src string) error {
	var q queryDecl
	if err := yaml.Unmarshal([]byte(src), &q); err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	args := make([]object.Object, len(q.Args))
	for i := range q.Args {
		v, err := loader.DecodeValue(res.Registry, &q.Args[i])
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		args[i] = v
	}

	sel, err := res.Table.Resolve(q.Name, args)
	if err != nil {
		return err
	}
	fmt.Printf("%s  score %s\n", sel.Def.Signature(), sel.Score)
	for name, val := range sel.Bindings {
		fmt.Printf("  %s = %s\n", name, val.Inspect())
	}
	return nil
}

func dumpModule(res *loader.Result) {
	fmt.Println("tags:")
	for _, t := range res.Registry.Tags() {
		if t.Parent() == nil {
			fmt.Printf("  %s\n", t.Name)
			continue
		}
		fmt.Printf("  %s < %s\n", t.Name, t.Parent().Name)
	}
	fmt.Println("functions:")
	for _, name := range res.Table.Names() {
		for _, def := range res.Table.Definitions(name) {
			fmt.Printf("  %s\n", def.Signature())
		}
	}
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}
	fh, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return os.Stderr
	}
	return fh
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "trace", "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.Level(12) // above error: silence
	}
}

func printVersion() {
	fmt.Printf("newt %s (built %s, commit %s)\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Println("Usage: newt [flags] <manifest.yaml>")
	fmt.Println()
	fmt.Println("Loads a module manifest (tag declarations plus function definitions)")
	fmt.Println("and answers dispatch queries against it.")
	fmt.Println()
	flag.PrintDefaults()
}
