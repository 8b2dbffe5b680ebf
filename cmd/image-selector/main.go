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
	"github.com/previewar/product-image-selector/internal/imaging"
	"github.com/previewar/product-image-selector/internal/llm"
	"github.com/previewar/product-image-selector/internal/scraper"
	"github.com/previewar/product-image-selector/internal/selector"
	"github.com/previewar/product-image-selector/pkg/logger"
)

func main() {
	var (
		urlFlag     = flag.String("url", "", "Product page URL to analyze")
		maxImages   = flag.Int("max-images", 0, "Cap the number of candidate image URLs (0 = config default)")
		printScrape = flag.Bool("print-scrape", false, "Print raw scraper payload to stderr")
		headless    = flag.Bool("headless", true, "Run browser in headless mode")
		saveImage   = flag.String("save-image", "", "Write the chosen best image to this path as PNG")
		output      = flag.String("output", "-", "Result output path, - for stdout")
	)
	flag.Parse()

	url := *urlFlag
	if url == "" && flag.NArg() > 0 {
		url = flag.Arg(0)
	}
	if url == "" {
		fmt.Fprintln(os.Stderr, "usage: image-selector [flags] <product-url>")
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
	logg.Info("Starting product image selector", "url", url)

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

	limit := cfg.Selector.MaxImages
	if *maxImages > 0 {
		limit = *maxImages
	}

	result, _, err := pipeline.Run(ctx, url, selector.RunOptions{
		MaxImages:   limit,
		PrintScrape: *printScrape,
	})
	if err != nil {
		logg.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logg.Error("Failed to encode result", "error", err)
		os.Exit(1)
	}

	if *output == "-" || *output == "" {
		fmt.Println(string(encoded))
	} else if err := os.WriteFile(*output, append(encoded, '\n'), 0o644); err != nil {
		logg.Error("Failed to write result", "path", *output, "error", err)
		os.Exit(1)
	}

	if *saveImage != "" {
		if result.BestImage.ImageURL == nil {
			logg.Warn("No best image chosen, skipping save")
			return
		}
		if err := imaging.SaveAsPNG(ctx, *result.BestImage.ImageURL, *saveImage); err != nil {
			logg.Error("Failed to save best image", "error", err)
			os.Exit(1)
		}
		logg.Info("Saved best image", "path", *saveImage)
	}
}
