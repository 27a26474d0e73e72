package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/blogware/posts-contract-tests/framework"
	"github.com/blogware/posts-contract-tests/store"
)

type commandParams struct {
	serviceURL       string
	servicePort      int
	backend          string
	dsn              string
	seed             int64
	filters          framework.RegexFilters
	stopServiceAtEnd bool
	debug            bool
	debugAll         bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.serviceURL, "url", "",
		"base URL of a running posts service; if omitted, an embedded service is started")
	fs.IntVar(&c.servicePort, "port", 0, "port for the embedded service (0 picks a free port)")
	fs.StringVar(&c.backend, "backend", store.BackendMemory,
		"store backend: memory, mongo, redis, dynamodb, consul")
	fs.StringVar(&c.dsn, "dsn", "", "store connection string")
	fs.Int64Var(&c.seed, "seed", 1, "seed for fixture data generation")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.stopServiceAtEnd, "stop-service-at-end", false,
		"tell the service to exit after the test run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.serviceURL != "" && c.servicePort != 0 {
		fmt.Fprintln(os.Stderr, "-port is only meaningful without -url")
		fs.Usage()
		return false
	}
	return true
}
