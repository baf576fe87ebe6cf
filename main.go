package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/quillworks/folio/config"
	"github.com/quillworks/folio/dsl"
	"github.com/quillworks/folio/layout"
	canvasmeasure "github.com/quillworks/folio/measure/canvas"
	"github.com/quillworks/folio/measure/fonttable"
	"github.com/quillworks/folio/server"
)

func main() {
	input := flag.String("in", "examples/demo.folio", "manuscript file path")
	debug := flag.String("debug", "", "pagination debug JSON output path")
	serve := flag.Bool("serve", false, "start the live preview server instead of one-shot pagination")
	font := flag.String("font", "", "TTF/OTF font for measured pagination (overrides FOLIO_FONT)")
	flag.Parse()

	cfg := config.Load()
	if *font != "" {
		cfg.FontPath = *font
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if *serve {
		if err := runServer(*input, cfg, logger); err != nil {
			log.Fatalf("preview server failed: %v", err)
		}
		return
	}
	if err := run(*input, *debug, cfg, logger); err != nil {
		log.Fatalf("pagination failed: %v", err)
	}
}

// run performs a one-shot pagination and optionally writes the debug JSON.
func run(inputPath, debugPath string, cfg config.Config, logger *slog.Logger) error {
	book, err := loadBook(inputPath)
	if err != nil {
		return err
	}
	engine := layout.NewEngine(newMeasurer(book, cfg), cfg.EngineOptions(logger))

	seq := book.Store.Sequence()
	paragraphs := layout.AssembleRun(seq, book.Meta)
	pages, estimated, err := engine.Paginate(context.Background(), paragraphs, book.Formatting, book.Geometry)
	if err != nil {
		return err
	}
	pages = layout.ApplyRightPageStarts(pages)

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		doc := layout.DebugDocument{
			Geometry:   book.Geometry,
			Formatting: book.Formatting,
			Run:        paragraphs,
			PageSet:    layout.PageSet{Generation: 1, Pages: pages, Estimated: estimated},
		}
		if err := layout.WriteDebugJSON(debugPath, doc); err != nil {
			return fmt.Errorf("write debug JSON: %w", err)
		}
	}

	fmt.Printf("%s: %d sections, %d pages\n", book.Title, len(seq), len(pages))
	return nil
}

func runServer(inputPath string, cfg config.Config, logger *slog.Logger) error {
	book, err := loadBook(inputPath)
	if err != nil {
		return err
	}
	engine := layout.NewEngine(newMeasurer(book, cfg), cfg.EngineOptions(logger))
	paginator := layout.NewPaginator(engine, logger)

	srv := server.New(book.Store, paginator, book.Formatting, book.Geometry, book.Meta, logger)
	srv.Repaginate()

	logger.Info("preview server listening", "addr", cfg.Addr, "book", book.Title)
	return http.ListenAndServe(cfg.Addr, srv)
}

func loadBook(path string) (*dsl.Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manuscript %s: %w", path, err)
	}
	defer file.Close()

	book, err := dsl.Load(file)
	if err != nil {
		return nil, fmt.Errorf("parse manuscript %s: %w", path, err)
	}
	return book, nil
}

// newMeasurer picks the measurement backend: real font metrics when a font is
// configured, the built-in width table otherwise.
func newMeasurer(book *dsl.Book, cfg config.Config) layout.Measurer {
	if cfg.FontPath == "" {
		return fonttable.Measurer{}
	}
	return canvasmeasure.New(cfg.FontDir, map[string]string{
		book.Formatting.FontFamily: cfg.FontPath,
	})
}
