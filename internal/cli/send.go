package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsradar-io/newsradar/internal/pipeline"
)

var (
	dataDir     string
	sendTimeout time.Duration
	noCache     bool
	noArchive   bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Build today's digest and deliver it over SMTP",
	Long: `Send reads the collected snapshots, builds the digest, and emails it.

The digest is always built, even from empty or partly broken snapshots;
only missing SMTP settings or a transport failure on every strategy make
the command fail.

Example:
  newsradar send
  newsradar send --data-dir /var/lib/newsradar --verbose
  newsradar send --llm anthropic --llm-model claude-haiku-4-5`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&dataDir, "data-dir", "", "snapshot directory (default from config/DATA_DIR)")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 5*time.Minute, "overall run timeout")
	sendCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable snapshot and overview caching")
	sendCmd.Flags().BoolVar(&noArchive, "no-archive", false, "skip archiving the sent digest")
	sendCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable the generated-by footer")

	// LLM flags
	sendCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM digest overview")
	sendCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	sendCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	cfg := loadConfig()
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noArchive {
		cfg.Output.Archive = false
	}
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Enabled = true
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	}
	if cfg.LLM.Enabled {
		if err := resolveAPIKey(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Data dir: %s\n", cfg.Data.Dir)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", sendTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Run(ctx)
	printRunSummary(result)
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	fmt.Printf("✓ Delivered via %s to %s\n", result.Delivery.Strategy, cfg.SMTP.Recipient)
	if result.ArchiveHTML != "" {
		fmt.Printf("✓ Archived: %s\n", result.ArchiveHTML)
	}

	return nil
}

// printRunSummary reports what the run produced, whether or not the
// digest went out.
func printRunSummary(result *pipeline.RunResult) {
	if result == nil {
		return
	}

	if verbose {
		for _, src := range result.Sources {
			fmt.Fprintf(os.Stderr, "✓ Loaded snapshot: %s\n", src)
		}
		for _, skipped := range result.Skipped {
			fmt.Fprintf(os.Stderr, "→ Skipped unusable snapshot: %s\n", skipped)
		}
	}

	fmt.Printf("✓ Extracted %d records\n", result.Records)
	if result.Counts.Total() > 0 {
		fmt.Printf("✓ Tiers: %s\n", result.Counts)
	}
	if result.Digest != nil {
		fmt.Printf("✓ Digest: %q with %d items in %d sections\n",
			result.Digest.Subject, result.Digest.ItemCount(), len(result.Digest.Sections))
		if result.Digest.Overview != "" {
			fmt.Printf("✓ Overview generated\n")
		}
	}

	if result.Delivery != nil {
		for _, failure := range result.Delivery.Failures {
			fmt.Printf("✗ %s: %s\n", failure.Strategy, failure.Reason)
		}
	}
}
