// Command posts-contract-tests runs the CRUD contract-test suite against a
// posts service, either one that is already running (-url) or an embedded one
// started for the duration of the run.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/blogware/posts-contract-tests/framework"
	"github.com/blogware/posts-contract-tests/posttests"
	"github.com/blogware/posts-contract-tests/service"
	"github.com/blogware/posts-contract-tests/store"
)

const (
	statusQueryTimeout = time.Second * 10
	storeOpenTimeout   = time.Second * 10
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !results.OK() {
		os.Exit(1)
	}
}

func run(params commandParams) (framework.Results, error) {
	debugLogger := framework.NullLogger()
	if params.debugAll {
		debugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	openCtx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
	defer cancel()
	postStore, err := store.Open(openCtx, params.backend, params.dsn)
	if err != nil {
		return framework.Results{}, err
	}
	defer func() { _ = postStore.Close(context.Background()) }()

	serviceURL := params.serviceURL
	if serviceURL == "" {
		svc := service.New(postStore, framework.LoggerWithPrefix(debugLogger, "[service] "))
		server := service.NewServer(params.servicePort, svc, debugLogger)
		if err := server.Start(); err != nil {
			return framework.Results{}, err
		}
		defer func() { _ = server.Shutdown() }()
		serviceURL = server.BaseURL()
		fmt.Printf("Started embedded posts service at %s (backend: %s)\n", serviceURL, params.backend)
	}

	client := posttests.NewAPIClient(serviceURL, framework.LoggerWithPrefix(debugLogger, "[client] "))
	fmt.Printf("Connecting to posts service at %s\n", serviceURL)
	status, err := client.WaitForStatus(statusQueryTimeout)
	if err != nil {
		return framework.Results{}, err
	}
	fmt.Printf("Service is %s v%s\n\n", status.Name, status.Version)

	testLogger := framework.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	results := posttests.RunPostsTestSuite(client, postStore, params.seed, params.filters.Match, testLogger)

	fmt.Println()
	framework.PrintResults(results)

	if params.stopServiceAtEnd {
		fmt.Println("Stopping posts service")
		if err := client.RequestShutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to stop posts service: %s\n", err)
		}
	}
	return results, nil
}
