package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses args (without the program name) into a config layer.
//
// Flags:
//
//	-a ledger server listen address in format [host]:[port]
//	-d server database DSN
//	-cache client snapshot cache path
//	-c/-config json file path with configs
//	-hash-key integrity hash key
//	-author note author identity
//	-log-level, -log-file logging
//	-request-timeout inbound request timeout (e.g., "15s")
//	-mode ledger adapter mode: ledger, chain or memory
//	-ledger ledger server address used by the client
//	-rpc, -contract, -key chain adapter settings
//	-poll-interval, -retry-max, -retry-base, -retry-ceiling board timing
//	-demo-latency, -demo-fail-every memory ledger behaviour
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("sticky-chain", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		serverAddress  NetAddress
		cfg            StructuredConfig
		jsonConfigPath string
	)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.Cache.DSN, "cache", "", "Snapshot cache path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.HashKey, "hash-key", "", "Security hash key")
	fs.StringVar(&cfg.App.Author, "author", "", "Note author")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Client log file")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.Adapter.Mode, "mode", "", "Ledger mode: ledger, chain or memory")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "ledger", "", "Ledger server address")
	fs.StringVar(&cfg.Adapter.Chain.RPCURL, "rpc", "", "Chain RPC endpoint")
	fs.StringVar(&cfg.Adapter.Chain.Contract, "contract", "", "Sticky note contract address")
	fs.StringVar(&cfg.Adapter.Chain.PrivateKey, "key", "", "Hex private key for chain writes")
	fs.DurationVar(&cfg.Workers.PollInterval, "poll-interval", 0, "Polling interval")
	fs.IntVar(&cfg.Workers.RetryMaxAttempts, "retry-max", 0, "Fetch retry attempts")
	fs.DurationVar(&cfg.Workers.RetryBaseDelay, "retry-base", 0, "Fetch retry base delay")
	fs.DurationVar(&cfg.Workers.RetryCeiling, "retry-ceiling", 0, "Fetch retry delay ceiling")
	fs.DurationVar(&cfg.Adapter.Memory.Latency, "demo-latency", 0, "Memory ledger latency")
	fs.IntVar(&cfg.Adapter.Memory.FailEvery, "demo-fail-every", 0, "Fail every n-th memory ledger write")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.JSONFilePath = jsonConfigPath
	return &cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// An unset address yields an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && !strings.EqualFold(host, "localhost") && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}

