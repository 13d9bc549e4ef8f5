package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"flowpulse-docparse/internal/domain"
)

// OCRProvider hands out engine sessions. Callers acquire one session per
// recognition and must Close it on every exit path.
type OCRProvider interface {
	Acquire(ctx context.Context) (OCRSession, error)
	Language() string
}

// OCRSession is a single acquired OCR engine.
type OCRSession interface {
	Recognize(ctx context.Context, image []byte) (string, error)
	Close() error
}

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger domain.Logger
}

// NewExecRunner runs commands with os/exec.
func NewExecRunner(logger domain.Logger) Runner {
	return execRunner{logger: logger}
}

// stderrLimit caps how much diagnostic output a command may leave in memory.
const stderrLimit = 8 << 10

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%s not installed: %w", name, err)
	}

	var stdout bytes.Buffer
	stderr := &limitedBuffer{max: stderrLimit}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		r.logger.Error("OCR command failed", runErr,
			"cmd", name,
			"exit_code", exitCode,
			"duration_ms", elapsed,
			"stderr", stderr.String(),
		)
	} else {
		r.logger.Debug("OCR command finished",
			"cmd", name,
			"duration_ms", elapsed,
			"stdout_bytes", stdout.Len(),
		)
	}
	return stdout.Bytes(), stderr.Bytes(), runErr
}

// limitedBuffer keeps the first max bytes written and drops the rest.
type limitedBuffer struct {
	bytes.Buffer
	max       int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.Len(); room < len(p) {
		b.truncated = true
		if room > 0 {
			b.Buffer.Write(p[:room])
		}
		return len(p), nil
	}
	return b.Buffer.Write(p)
}

func (b *limitedBuffer) String() string {
	if b.truncated {
		return b.Buffer.String() + "...(truncated)"
	}
	return b.Buffer.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// TesseractConfig configures the tesseract CLI engine.
type TesseractConfig struct {
	Binary      string
	Language    string
	TessdataDir string
}

// TesseractProvider runs the tesseract CLI. Each session owns a scratch
// directory removed on Close.
type TesseractProvider struct {
	cfg    TesseractConfig
	runner Runner
	logger domain.Logger
}

func NewTesseractProvider(cfg TesseractConfig, runner Runner, logger domain.Logger) *TesseractProvider {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &TesseractProvider{cfg: cfg, runner: runner, logger: logger}
}

func (p *TesseractProvider) Language() string {
	return p.cfg.Language
}

func (p *TesseractProvider) Acquire(ctx context.Context) (OCRSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "docparse-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("create ocr workspace: %w", err)
	}
	return &tesseractSession{provider: p, dir: dir}, nil
}

type tesseractSession struct {
	provider *TesseractProvider
	dir      string
	seq      int
}

func (s *tesseractSession) Recognize(ctx context.Context, image []byte) (string, error) {
	if s.dir == "" {
		return "", fmt.Errorf("ocr session closed")
	}
	s.seq++
	path := filepath.Join(s.dir, fmt.Sprintf("image-%d", s.seq))
	if err := os.WriteFile(path, image, 0o600); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	args := []string{path, "stdout", "-l", s.provider.cfg.Language}
	if s.provider.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.provider.cfg.TessdataDir)
	}

	stdout, stderr, err := s.provider.runner.Run(ctx, s.provider.cfg.Binary, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return "", fmt.Errorf("tesseract: %w: %s", err, truncate(msg, 512))
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(stdout), nil
}

func (s *tesseractSession) Close() error {
	if s.dir == "" {
		return nil
	}
	dir := s.dir
	s.dir = ""
	return os.RemoveAll(dir)
}
