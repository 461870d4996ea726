/*
Dbvalctl inspects how values are stored in an SQLite database and copies
tables in and out of it without losing their storage classes.

Usage:

	dbvalctl [flags] COMMAND [ARGS...]

The commands are:

	inspect QUERY
		Run QUERY and print the storage class and literal of every cell.

	typeof VALUE...
		Bind each VALUE as an INTEGER, REAL or TEXT parameter, whichever it
		parses as, and print the class the engine gives it. The word NULL
		binds NULL.

	dump TABLE FILE
		Write every row of TABLE to FILE.

	restore FILE
		Insert the rows in FILE, which must have been written by dump, into
		the table they came from. The table must already exist.

The flags are:

	-c, --config PATH
		Load configuration from the given JSON or YAML file.

	-d, --database DSN
		Use the given database instead of the one in the config. Defaults to
		an empty in-memory database.

	--driver NAME
		Use the given database/sql driver, either "sqlite" (the default) or
		"sqlite3".

	-o, --output FORMAT
		Print inspect results as "table" (the default) or "yaml".

	-v, --verbose
		Log debug messages to stderr.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dekarrin/dbval/internal/config"
	"github.com/dekarrin/dbval/internal/logging"
	"github.com/dekarrin/dbval/sqlite"
	"github.com/spf13/pflag"
)

const (
	exitSuccess   = 0
	exitError     = 1
	exitPanic     = 2
	exitInterrupt = 3
)

var exitCode int

var (
	flagConf     = pflag.StringP("config", "c", "", "Path to configuration file")
	flagDatabase = pflag.StringP("database", "d", "", "Database to open")
	flagDriver   = pflag.String("driver", "", "database/sql driver name")
	flagOutput   = pflag.StringP("output", "o", "", "Output format for inspect")
	flagVerbose  = pflag.BoolP("verbose", "v", false, "Log debug messages")
)

func main() {
	ctx, cancelMainContext := context.WithCancel(context.Background())
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	defer func() {
		signal.Stop(signalChan)
		cancelMainContext()
	}()
	go func() {
		select {
		case <-signalChan: // first signal, cancel context
			cancelMainContext()
		case <-ctx.Done():
		}

		<-signalChan // second signal, hard exit
		os.Exit(exitInterrupt)
	}()

	defer func() {
		if panicErr := recover(); panicErr != nil {
			fmt.Fprintf(os.Stderr, "fatal panic: %v\n", panicErr)
			exitCode = exitPanic
		}
		os.Exit(exitCode)
	}()

	pflag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}

	logger, err := logging.New("dbvalctl", cfg.LogFile, *flagVerbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		exitCode = exitError
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		logger.Error("no command given; use one of inspect, typeof, dump, or restore")
		exitCode = exitError
		return
	}

	logger.Debugf("Opening %s with driver %s...", cfg.Database, cfg.Driver)
	db, err := sqlite.Open(ctx, cfg.Driver, cfg.Database)
	if err != nil {
		logger.Errorf("%v", err)
		exitCode = exitError
		return
	}
	defer db.Close()

	cmd := command{db: db, cfg: cfg, log: logger, out: os.Stdout}

	switch args[0] {
	case "inspect":
		err = cmd.inspect(ctx, args[1:])
	case "typeof":
		err = cmd.typeof(ctx, args[1:])
	case "dump":
		err = cmd.dump(ctx, args[1:])
	case "restore":
		err = cmd.restore(ctx, args[1:])
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}

	if err != nil {
		if ctx.Err() != nil {
			logger.InfoBreak()
			logger.Warn("Interrupted")
			exitCode = exitInterrupt
			return
		}
		logger.Errorf("%v", err)
		exitCode = exitError
	}
}

// loadConfig builds the Config from the config file, if any, with flags taking
// precedence over it.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if *flagConf != "" {
		var err error
		cfg, err = config.Load(*flagConf)
		if err != nil {
			return config.Config{}, err
		}
	}

	if *flagDatabase != "" {
		cfg.Database = *flagDatabase
	}
	if *flagDriver != "" {
		cfg.Driver = *flagDriver
	}
	if *flagOutput != "" {
		cfg.Output = *flagOutput
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
