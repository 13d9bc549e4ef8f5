package config

import (
	"flowpulse-docparse/internal/domain"
	"flowpulse-docparse/internal/extract"
	"flowpulse-docparse/internal/infra/supabase"
	"flowpulse-docparse/internal/repository"
	"flowpulse-docparse/internal/service"
	"flowpulse-docparse/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config             domain.Config
	Logger             domain.Logger
	SupabaseClient     domain.SupabaseClient
	DocumentRepository domain.ParsedDocumentRepository
	Extractor          *extract.Registry
	DocumentService    domain.DocumentService
	AuthService        domain.AuthService
}

// NewContainer creates a new dependency injection container. Without
// Supabase credentials documents are kept in memory and AuthService is nil.
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel(), config.GetLogFormat())
	return NewContainerWith(config, appLogger)
}

// NewContainerWith wires the dependencies for an existing config and logger.
func NewContainerWith(config domain.Config, appLogger domain.Logger) *Container {
	c := &Container{
		Config: config,
		Logger: appLogger,
	}

	if config.SupabaseEnabled() {
		supabaseClient := supabase.NewSupabaseClient(config, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Error("Failed to initialize Supabase, falling back to in-memory storage", err)
		} else {
			c.SupabaseClient = supabaseClient
			c.DocumentRepository = repository.NewSupabaseDocumentRepository(supabaseClient, appLogger)
			c.AuthService = service.NewAuthService(supabaseClient, appLogger)
		}
	}
	if c.DocumentRepository == nil {
		c.DocumentRepository = repository.NewMemoryDocumentRepository()
	}

	ocr := extract.NewTesseractProvider(extract.TesseractConfig{
		Binary:      config.GetTesseractPath(),
		Language:    config.GetTesseractLang(),
		TessdataDir: config.GetTessdataDir(),
	}, extract.NewExecRunner(appLogger), appLogger)
	c.Extractor = extract.NewRegistry(appLogger, ocr)

	c.DocumentService = service.NewDocumentService(c.Extractor, c.DocumentRepository, appLogger, service.Options{
		MaxFileSize:      config.GetMaxFileSize(),
		ExtractTimeout:   config.GetExtractTimeout(),
		BatchConcurrency: config.GetBatchConcurrency(),
	})

	return c
}

// AuthEnabled reports whether requests must carry a Supabase token.
func (c *Container) AuthEnabled() bool {
	return c.AuthService != nil
}
