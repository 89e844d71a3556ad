package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args.
//
// Flags:
//
//	-a action endpoint address in format [host]:[port]
//	-r remote sync API address
//	-token remote sync API bearer token
//	-s store directory
//	-store default store name
//	-user current user id
//	-community current community id
//	-workers dispatcher pool size
//	-tui run the terminal progress monitor
//	-log-file log file used in TUI mode
//	-c/-config json file path with configs
//	-request-timeout action request timeout (e.g., "30s", "1m")
//	-remote-timeout remote call timeout (e.g., "30s", "1m")
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var remoteAddress string
	var token string
	var storageDir string
	var storeName string
	var userID int64
	var communityID string
	var poolSize int
	var tui bool
	var logFile string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var remoteTimeout time.Duration

	fs := flag.NewFlagSet("syncbridge", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&remoteAddress, "r", "", "Remote sync API address")
	fs.StringVar(&token, "token", "", "Remote sync API bearer token")
	fs.StringVar(&storageDir, "s", "", "Store directory")
	fs.StringVar(&storeName, "store", "", "Default store name")
	fs.Int64Var(&userID, "user", 0, "Current user id")
	fs.StringVar(&communityID, "community", "", "Current community id")
	fs.IntVar(&poolSize, "workers", 0, "Dispatcher pool size")
	fs.BoolVar(&tui, "tui", false, "Run the terminal progress monitor")
	fs.StringVar(&logFile, "log-file", "", "Log file used in TUI mode")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Action request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&remoteTimeout, "remote-timeout", 0, "Remote call timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			UserID:      userID,
			CommunityID: communityID,
			TUI:         tui,
			LogFile:     logFile,
		},
		Storage: Storage{
			Dir:              storageDir,
			DefaultStoreName: storeName,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			RequestTimeout: remoteTimeout,
			Token:          token,
		},
		Workers: Workers{
			PoolSize: poolSize,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
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
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
