// Command posts-service runs the blog posts API on its own, outside of the
// contract-test harness.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogware/posts-contract-tests/framework"
	"github.com/blogware/posts-contract-tests/service"
	"github.com/blogware/posts-contract-tests/store"
)

const storeOpenTimeout = time.Second * 10

type commandParams struct {
	configFile string
	port       int
	backend    string
	dsn        string
	debug      bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.configFile, "config", "", "path to YAML config file")
	fs.IntVar(&c.port, "port", 0, "port to listen on (overrides config file)")
	fs.StringVar(&c.backend, "backend", "", "store backend: memory, mongo, redis, dynamodb, consul")
	fs.StringVar(&c.dsn, "dsn", "", "store connection string")
	fs.BoolVar(&c.debug, "debug", false, "enable request logging")
	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}
	if err := run(params); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(params commandParams) error {
	config := service.DefaultConfig()
	if params.configFile != "" {
		var err error
		if config, err = service.LoadConfigFile(params.configFile); err != nil {
			return err
		}
	}
	if params.port != 0 {
		config.Port = params.port
	}
	if params.backend != "" {
		config.Backend = params.backend
	}
	if params.dsn != "" {
		config.DSN = params.dsn
	}

	logger := framework.NullLogger()
	if params.debug {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}

	openCtx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
	defer cancel()
	postStore, err := store.Open(openCtx, config.Backend, config.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = postStore.Close(context.Background()) }()

	svc := service.New(postStore, logger)
	server := service.NewServer(config.Port, svc, logger)
	if err := server.Start(); err != nil {
		return err
	}
	fmt.Printf("%s v%s listening on port %d (backend: %s)\n",
		service.ServiceName, service.ServiceVersion, server.Port(), config.Backend)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-signalCh:
		fmt.Printf("received %s, shutting down\n", sig)
	case <-svc.ShutdownRequested():
		fmt.Println("shutdown requested by client, shutting down")
	}
	return server.Shutdown()
}
