// Package main is the terminal client for the task API.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/atinyakov/taskkeeper/internal/client"
)

var (
	version   string
	buildDate string
)

func main() {
	var (
		baseURL     string
		sessionFile string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&sessionFile, "session", client.DefaultSessionFile, "path to the session file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("TaskKeeper Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	ls := client.NewLocalSession(sessionFile)
	if err := ls.Load(); err != nil {
		log.Fatalf("load session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := &client.Shell{
		API:     client.NewAPI(baseURL),
		Session: ls,
		Prompt:  client.NewPrompter(os.Stdin, os.Stdout),
		Out:     os.Stdout,
	}
	sh.Run(ctx)
}
