package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/pboyd/jitload"
)

var (
	configPath = flag.String("config", "", "TOML config file")
	message    = flag.String("message", "", "Message the program writes")
	fd         = flag.Int("fd", 1, "File descriptor the program writes to")
	wx         = flag.Bool("wx", false, "Never map a region writable and executable at once")
	disasm     = flag.Bool("disasm", false, "Print the instruction listing to stderr before running")
	noRun      = flag.Bool("n", false, "Build the program but don't run it")
	verbose    = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	err = run(log)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}

// settings reads the -config file and applies the flags given on the
// command line over it.
func settings() (*fileConfig, error) {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	cfg.apply(setFlags())
	return cfg, nil
}

func run(log *zap.Logger) error {
	cfg, err := settings()
	if err != nil {
		return err
	}

	buf, err := jitload.WriteProgram(cfg.Program.FD, []byte(cfg.Program.Message))
	if err != nil {
		return err
	}

	if *disasm {
		listing, err := buf.Disassemble()
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, listing)
	}

	if *noRun {
		return nil
	}

	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		return errors.New("the write program only runs on linux/amd64")
	}

	l := jitload.New(jitload.WithConfig(cfg.Loader), jitload.WithLogger(log))
	log.Debug("running",
		zap.Int("fd", cfg.Program.FD),
		zap.Int("code_len", buf.Len()),
		zap.Int("page_size", l.Config().PageSize),
		zap.Bool("write_xor_execute", l.Config().WriteXorExecute),
	)

	fmt.Fprintln(os.Stderr, "hello!")
	err = l.Run(buf)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "end.")

	return nil
}

// setFlags collects the flags given explicitly so they can override the
// config file.
func setFlags() overrides {
	var o overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "message":
			o.message = message
		case "fd":
			o.fd = fd
		case "wx":
			o.wx = wx
		}
	})
	return o
}
