package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newsradar-io/newsradar/internal/archive"
	"github.com/newsradar-io/newsradar/internal/cache"
	"github.com/newsradar-io/newsradar/internal/classify"
	"github.com/newsradar-io/newsradar/internal/deliver"
	"github.com/newsradar-io/newsradar/internal/extract"
	"github.com/newsradar-io/newsradar/internal/llm"
	"github.com/newsradar-io/newsradar/internal/model"
	"github.com/newsradar-io/newsradar/internal/render"
	"github.com/newsradar-io/newsradar/internal/snapshot"
)

// Pipeline orchestrates the complete digest run: load snapshots,
// extract records, classify, render, deliver, archive.
type Pipeline struct {
	loader     *snapshot.Loader
	extractor  *extract.Extractor
	classifier *classify.Classifier
	renderer   *render.Renderer
	agent      *deliver.Agent
	summarizer *llm.Summarizer // Optional LLM overview (nil if disabled)
	archiver   *archive.Writer // nil when archiving is off
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var snapCache cache.Cache
	if cfg.Cache.Enabled {
		snapCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}

	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Enabled {
		var overviewCache cache.Cache
		if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
			overviewCache = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
		}
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM), overviewCache)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	var archiver *archive.Writer
	if cfg.Output.Archive {
		archiver = archive.NewWriter(cfg.ArchiveDir())
	}

	return &Pipeline{
		loader:     snapshot.NewLoader(cfg.Data.Dir, snapCache),
		extractor:  extract.NewExtractor(),
		classifier: classify.NewClassifier(&cfg.Importance),
		renderer:   render.NewRenderer(cfg.Sections, cfg.Output.IncludeFooter),
		agent:      deliver.NewAgent(&cfg.SMTP, cfg.Output.Verbose),
		summarizer: summarizer,
		archiver:   archiver,
		config:     cfg,
	}
}

// RunResult contains everything a digest run produced
type RunResult struct {
	Digest  *model.Digest
	Counts  classify.TierCounts
	Sources []string // Snapshot files that contributed records
	Skipped []string // Snapshot candidates that existed but were unusable
	Records int      // Record count after dedup

	Delivery    *deliver.Result // nil when delivery was not attempted
	ArchiveHTML string
	ArchiveText string
}

// BuildDigest assembles the digest without sending it. Missing or
// malformed snapshots degrade to an empty record set rather than
// failing: the digest ships with placeholders.
func (p *Pipeline) BuildDigest(ctx context.Context) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &RunResult{}

	// 1. Load the snapshot chains
	var records []model.ContentRecord
	for _, kind := range []snapshot.Kind{snapshot.KindNews, snapshot.KindSocial, snapshot.KindVideo} {
		res := p.loader.Load(kind)
		result.Skipped = append(result.Skipped, res.Skipped...)
		if !res.Found() {
			continue
		}
		result.Sources = append(result.Sources, res.Path)

		// 2. Extract records from the decoded structure
		records = append(records, p.extractor.Extract(res.Root, res.Label)...)
	}

	// 3. Collapse records that point at the same story
	records = extract.Dedupe(records)
	result.Records = len(records)

	// 4. Assign importance tiers
	result.Counts = p.classifier.Apply(records)

	// 5. Generate the optional overview (never blocks the digest)
	var overview string
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		date := time.Now().Format("2006-01-02")
		text, err := p.summarizer.GenerateOverview(ctx, records, date)
		if err != nil {
			fmt.Printf("Warning: LLM overview generation failed: %v\n", err)
		} else {
			overview = text
		}
	}

	// 6. Render both representations
	result.Digest = p.renderer.Render(records, overview)

	return result, nil
}

// Run builds the digest, delivers it, and archives on success. The
// returned error is non-nil whenever the digest did not go out, so
// callers can map it straight to the exit code.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result, err := p.BuildDigest(ctx)
	if err != nil {
		return nil, err
	}

	delivery, err := p.agent.Deliver(ctx, result.Digest)
	if err != nil {
		return result, err
	}
	result.Delivery = delivery

	if !delivery.Delivered {
		return result, fmt.Errorf("all delivery strategies failed (%d attempts)", len(delivery.Failures))
	}

	if p.archiver != nil {
		htmlPath, textPath, err := p.archiver.Save(result.Digest)
		if err != nil {
			fmt.Printf("Warning: Failed to archive digest: %v\n", err)
		} else {
			result.ArchiveHTML = htmlPath
			result.ArchiveText = textPath
		}
	}

	return result, nil
}

// Preview builds the digest and writes both representations to outDir
// instead of sending anything.
func (p *Pipeline) Preview(ctx context.Context, outDir string) (*RunResult, error) {
	result, err := p.BuildDigest(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return result, fmt.Errorf("create preview dir: %w", err)
	}

	htmlPath := filepath.Join(outDir, "digest.html")
	if err := os.WriteFile(htmlPath, []byte(result.Digest.HTML), 0644); err != nil {
		return result, fmt.Errorf("write preview HTML: %w", err)
	}
	textPath := filepath.Join(outDir, "digest.txt")
	if err := os.WriteFile(textPath, []byte(result.Digest.Text), 0644); err != nil {
		return result, fmt.Errorf("write preview text: %w", err)
	}

	result.ArchiveHTML = htmlPath
	result.ArchiveText = textPath

	return result, nil
}
