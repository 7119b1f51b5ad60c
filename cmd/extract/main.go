// Command extract runs the job-ad extractor once over a file or stdin and
// prints the extracted record as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/justsurfingit/job-extractor/internal/config"
	"github.com/justsurfingit/job-extractor/internal/services"
	"github.com/spf13/cobra"
)

var (
	backend string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract structured fields from a job advertisement",
	Long:  "Extract title, company, location, job type, responsibilities and qualifications from a job ad. Reads stdin when no file (or \"-\") is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExtract,
}

func init() {
	rootCmd.Flags().StringVar(&backend, "backend", "", "Recognizer backend: huggingface or llm (overrides NER_BACKEND)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-call recognizer timeout (overrides NER_TIMEOUT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flagOverrides(backend, timeout))
	if err != nil {
		return err
	}

	ctx := context.Background()
	recognizer, err := services.NewRecognizer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load entity recognizer: %w", err)
	}

	info, err := services.NewJobService(recognizer).ExtractJobInfo(ctx, text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

// flagOverrides applies command-line flags on top of the environment.
func flagOverrides(backend string, timeout time.Duration) func(*config.Config) {
	return func(c *config.Config) {
		if backend != "" {
			c.NERBackend = backend
		}
		if timeout > 0 {
			c.NERTimeout = timeout
		}
	}
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}
