package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/previewar/product-image-selector/internal/browser"
	"github.com/previewar/product-image-selector/internal/config"
	"github.com/previewar/product-image-selector/internal/identify"
	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/promptgen"
	"github.com/previewar/product-image-selector/internal/scraper"
	"github.com/previewar/product-image-selector/internal/selector"
	"github.com/previewar/product-image-selector/pkg/logger"
)

func main() {
	var (
		urlFlag   = flag.String("url", "", "Product page URL to analyze")
		maxImages = flag.Int("max-images", 0, "Cap the number of candidate image URLs (0 = config default)")
		headless  = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	url := *urlFlag
	if url == "" && flag.NArg() > 0 {
		url = flag.Arg(0)
	}
	if url == "" {
		fmt.Fprintln(os.Stderr, "usage: prompt-gen [flags] <product-url>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logg.Info("Starting prompt generator", "url", url)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logg.Info("Shutdown signal received")
		cancel()
	}()

	b, err := browser.New(&browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
		ProxyServer:    cfg.Browser.ProxyServer,
	})
	if err != nil {
		logg.Error("Failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	client := llm.New(cfg.OpenAI)
	pipeline := selector.NewPipeline(
		identify.New(client),
		scraper.New(b, client, cfg.Scraper),
		client,
	)
	generator := promptgen.New(pipeline, client)

	limit := cfg.Selector.MaxImages
	if *maxImages > 0 {
		limit = *maxImages
	}

	npr, _, err := generator.Generate(ctx, url, selector.RunOptions{MaxImages: limit})
	if err != nil {
		logg.Error("Prompt generation failed", "error", err)
		os.Exit(1)
	}

	out := map[string]string{
		"target_object":   npr.TargetObject,
		"negative_prompt": promptgen.NegativePrompt(npr.NegativeObjects),
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logg.Error("Failed to encode output", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
