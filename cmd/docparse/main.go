// Command docparse parses documents from disk and prints the result as JSON.
//
//	docparse parse <file>...
//	docparse compare <fileA> <fileB>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"flowpulse-docparse/internal/config"
	"flowpulse-docparse/internal/domain"
	"flowpulse-docparse/pkg/logger"
)

const usage = `usage:
  docparse parse <file>...
  docparse compare <fileA> <fileB>`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "docparse:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments\n%s", usage)
	}

	cfg := config.NewConfig()
	// Logs go to stderr so stdout stays valid JSON.
	appLogger := logger.New(os.Stderr, cfg.GetLogLevel(), "text")
	svc := config.NewContainerWith(cfg, appLogger).DocumentService

	switch args[0] {
	case "parse":
		files, err := readFiles(args[1:])
		if err != nil {
			return err
		}
		if len(files) == 1 {
			doc, err := svc.Parse(ctx, files[0])
			if err != nil {
				return err
			}
			return printJSON(out, doc)
		}
		docs, err := svc.ParseBatch(ctx, files)
		if err != nil {
			return err
		}
		return printJSON(out, docs)

	case "compare":
		if len(args) != 3 {
			return fmt.Errorf("compare needs exactly two files\n%s", usage)
		}
		files, err := readFiles(args[1:])
		if err != nil {
			return err
		}
		docs, err := svc.ParseBatch(ctx, files)
		if err != nil {
			return err
		}
		return printJSON(out, svc.Compare(docs[0], docs[1]))

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func readFiles(paths []string) ([]*domain.InputFile, error) {
	files := make([]*domain.InputFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, &domain.InputFile{
			Name:     filepath.Base(path),
			MIMEType: mime.TypeByExtension(filepath.Ext(path)),
			Data:     data,
		})
	}
	return files, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
