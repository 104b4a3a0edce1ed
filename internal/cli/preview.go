package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsradar-io/newsradar/internal/pipeline"
)

var (
	previewDataDir string
	previewOutDir  string
	previewTimeout time.Duration
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Build the digest and write it to files instead of sending",
	Long: `Preview runs the full extract, classify, and render stages and writes
digest.html and digest.txt to the output directory. Nothing is sent, so
no SMTP configuration is needed.

Example:
  newsradar preview
  newsradar preview --data-dir ./data --output-dir /tmp/digest`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewDataDir, "data-dir", "", "snapshot directory (default from config/DATA_DIR)")
	previewCmd.Flags().StringVar(&previewOutDir, "output-dir", "./newsradar-out", "directory for digest.html and digest.txt")
	previewCmd.Flags().DurationVar(&previewTimeout, "timeout", 2*time.Minute, "overall run timeout")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
	defer cancel()

	cfg := loadConfig()
	if previewDataDir != "" {
		cfg.Data.Dir = previewDataDir
	}
	if cfg.LLM.Enabled {
		if err := resolveAPIKey(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Preview(ctx, previewOutDir)
	printRunSummary(result)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	fmt.Printf("✓ Wrote HTML: %s\n", result.ArchiveHTML)
	fmt.Printf("✓ Wrote text: %s\n", result.ArchiveText)

	return nil
}
