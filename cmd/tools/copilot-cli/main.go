// cmd/tools/copilot-cli/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"marigold-copilot/internal/common/logger"
	"marigold-copilot/internal/copilot/router"
	"marigold-copilot/internal/copilot/session"
	"marigold-copilot/internal/models"
	"marigold-copilot/pkg/registry"
)

func main() {
	surfaceID := flag.String("surface", "copilot", "Dashboard surface to open (overview, campaigns, loyalty, copilot)")
	registryPath := flag.String("registry", "", "Path to a surface registry JSON file (default: built-in surfaces)")
	question := flag.String("q", "", "Ask a single question and exit")
	latency := flag.Bool("latency", false, "Simulate the dashboard response delay")
	verbose := flag.Bool("v", false, "Log session events to stderr")
	flag.Parse()

	surfaces := registry.Default()
	if *registryPath != "" {
		var err error
		surfaces, err = registry.LoadRegistry(*registryPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
			os.Exit(1)
		}
	}
	surface, err := surfaces.Lookup(*surfaceID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewNoOpLogger()
	if *verbose {
		log = logger.NewStructured("debug", "console")
	}
	opts := session.Options{Logger: log}
	if *latency {
		opts.MinLatency = 500 * time.Millisecond
		opts.MaxLatency = 2 * time.Second
	}

	sess := session.New("", surface, router.New(nil), opts)
	defer sess.Close()

	if *question != "" {
		if err := ask(sess, *question, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	repl(sess, os.Stdin, os.Stdout)
}

func repl(sess *session.Session, in io.Reader, out io.Writer) {
	surface := sess.Surface()
	fmt.Fprintf(out, "%s\n%s\n\nTry:\n", surface.DisplayName, surface.Placeholder)
	for _, p := range surface.SuggestedPrompts {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	fmt.Fprintln(out, "\nCommands: :history [n], :clear, :min, :quit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == ":quit" || line == ":q":
			return
		case line == ":clear":
			sess.ClearHistory()
			fmt.Fprintln(out, "History cleared.")
		case line == ":min":
			sess.ToggleMinimized()
			fmt.Fprintf(out, "Minimized: %t\n", sess.Snapshot().IsMinimized)
		case line == ":history":
			for i, turn := range sess.Snapshot().History {
				fmt.Fprintf(out, "  [%d] %s (%s)\n", i, turn.Question, turn.Topic)
			}
		case strings.HasPrefix(line, ":history "):
			i, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, ":history ")))
			if err != nil {
				fmt.Fprintln(out, "Usage: :history <index>")
				continue
			}
			sess.SelectHistoryIndex(i)
			snap := sess.Snapshot()
			if snap.CurrentIndex != i || snap.ActiveResponse == nil {
				fmt.Fprintf(out, "No turn %d.\n", i)
				continue
			}
			render(out, *snap.ActiveResponse)
		default:
			if err := ask(sess, line, out); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}
	}
}

func ask(sess *session.Session, question string, out io.Writer) error {
	if err := sess.Submit(question); err != nil {
		return err
	}
	if err := sess.WaitIdle(context.Background()); err != nil {
		return err
	}
	if snap := sess.Snapshot(); snap.ActiveResponse != nil {
		render(out, *snap.ActiveResponse)
	}
	return nil
}

func render(out io.Writer, r models.Response) {
	fmt.Fprintf(out, "\n%s\n\n%s\n", r.Text, r.DirectAnswer)
	for _, rec := range r.Recommendations {
		fmt.Fprintf(out, "\n  * %s [%s impact, %s]\n    %s\n", rec.Title, rec.Impact, rec.EstimatedROI, rec.Description)
	}
	fmt.Fprintln(out, "\nYou could also ask:")
	for _, q := range r.SuggestedQuestions {
		fmt.Fprintf(out, "  - %s\n", q)
	}
}
