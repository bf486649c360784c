package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/frankli0324/go-httpd/internal/transport"
)

const DefaultAddr = "127.0.0.1:4221"

type Config struct {
	Addr      string
	Directory string // files route root, served and written to

	MaxConns       uint // 0 means unlimited
	BufferSize     int
	MaxHeaderBytes int
	MaxBodyBytes   int64

	ReadTimeout     time.Duration // 0 disables
	WriteTimeout    time.Duration // 0 disables
	ShutdownTimeout time.Duration

	ReusePort bool

	LogLevel  string
	LogFormat string // auto, console or json
}

func Default() *Config {
	return &Config{
		Addr:            DefaultAddr,
		Directory:       ".",
		MaxConns:        512,
		BufferSize:      transport.DefaultBufferSize,
		MaxHeaderBytes:  transport.DefaultMaxHeaderBytes,
		MaxBodyBytes:    transport.DefaultMaxBodyBytes,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		LogLevel:        "info",
		LogFormat:       "auto",
	}
}

func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}

// Parse builds a Config from command line arguments, without the program name.
func Parse(args []string, output io.Writer) (*Config, error) {
	c := Default()
	fs := flag.NewFlagSet("httpd", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.StringVar(&c.Directory, "directory", c.Directory, "directory served and written by the /files/ route")
	fs.UintVar(&c.MaxConns, "max-conns", c.MaxConns, "maximum number of connections served at once, 0 for unlimited")
	fs.IntVar(&c.BufferSize, "buffer-size", c.BufferSize, "bytes requested from the socket per read")
	fs.IntVar(&c.MaxHeaderBytes, "max-header-bytes", c.MaxHeaderBytes, "maximum size of request line and headers")
	fs.Int64Var(&c.MaxBodyBytes, "max-body-bytes", c.MaxBodyBytes, "maximum accepted Content-Length")
	fs.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "time allowed to receive a whole request, 0 disables")
	fs.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "time allowed to send a response, 0 disables")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "time in-flight connections get to finish on shutdown")
	fs.BoolVar(&c.ReusePort, "reuse-port", c.ReusePort, "set SO_REUSEPORT on the listening socket")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "one of trace, debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "one of auto, console, json")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("buffer size must be positive, got %d", c.BufferSize))
	}
	if c.MaxHeaderBytes < c.BufferSize {
		errs = append(errs, fmt.Errorf("max header bytes %d smaller than buffer size %d", c.MaxHeaderBytes, c.BufferSize))
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max body bytes must not be negative, got %d", c.MaxBodyBytes))
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
