// lenscli drives the legal-lens API from a terminal: load a document, print
// its analysis, then answer follow-up questions interactively.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/legal-lens/api/internal/client"
	"github.com/legal-lens/api/internal/models"
	"github.com/legal-lens/api/internal/session"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "base URL of the legal-lens API")
	filePath := flag.String("file", "", "path to a .txt or .pdf document")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: lenscli -file document.pdf [-server URL]")
		os.Exit(1)
	}

	api := client.New(*serverURL)
	ctrl := session.NewController()
	ctx := context.Background()

	if err := run(ctx, api, ctrl, *filePath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, ctrl *session.Controller, path string) error {
	if err := ctrl.BeginExtraction(filepath.Base(path)); err != nil {
		return err
	}

	fmt.Printf("Session %s\n", ctrl.ID())
	fmt.Printf("Extracting text from %s...\n", filepath.Base(path))
	text, err := api.ExtractTextFromFile(ctx, path)
	if err != nil {
		ctrl.FailExtraction(err)
		return fmt.Errorf("extraction failed: %w", err)
	}
	if err := ctrl.CompleteExtraction(text); err != nil {
		return err
	}
	fmt.Printf("Extracted %d characters.\n\n", len(text))

	if err := ctrl.BeginAnalysis(); err != nil {
		return err
	}

	fmt.Println("Analyzing document...")
	analysis, err := api.Analyze(ctx, ctrl.DocumentText())
	if err != nil {
		ctrl.FailAnalysis(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	if err := ctrl.CompleteAnalysis(analysis); err != nil {
		return err
	}

	printAnalysis(analysis)
	chatLoop(ctx, api, ctrl)
	return nil
}

func printAnalysis(a *models.Analysis) {
	fmt.Printf("\n%s\n", a.Title)
	fmt.Printf("Type: %s\n\n", a.DocumentType)
	fmt.Printf("Summary:\n  %s\n\n", a.Summary)

	if len(a.KeyPoints) > 0 {
		fmt.Println("Key points:")
		for _, p := range a.KeyPoints {
			fmt.Printf("  - %s\n", p)
		}
		fmt.Println()
	}

	if len(a.Risks) > 0 {
		fmt.Println("Risks:")
		for _, r := range a.Risks {
			fmt.Printf("  [%s] %s\n      %s\n", strings.ToUpper(string(r.Level)), r.Title, r.Description)
		}
		fmt.Println()
	}

	if len(a.ImportantDates) > 0 {
		fmt.Printf("Important dates: %s\n", strings.Join(a.ImportantDates, ", "))
	}
	if len(a.PartiesInvolved) > 0 {
		fmt.Printf("Parties: %s\n", strings.Join(a.PartiesInvolved, ", "))
	}
	fmt.Printf("\nRecommendation:\n  %s\n\n", a.Recommendation)
}

func chatLoop(ctx context.Context, api *client.Client, ctrl *session.Controller) {
	fmt.Println("Ask questions about the document (blank line to quit).")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			return
		}

		// History is the transcript as it stood before this question.
		history := ctrl.Transcript()
		if err := ctrl.BeginQuestion(question); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		answer, err := api.Chat(ctx, question, ctrl.DocumentText(), history)
		if err != nil {
			ctrl.FailAnswer(err)
		} else {
			ctrl.CompleteAnswer(answer)
		}

		transcript := ctrl.Transcript()
		fmt.Printf("\n%s\n\n", transcript[len(transcript)-1].Content)
	}
}
