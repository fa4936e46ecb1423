package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/mkjt/ai-journal/internal/journal"
	"github.com/mkjt/ai-journal/internal/ocr"
	"github.com/mkjt/ai-journal/internal/tokenize"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Credentials and paths may live in a .env file; missing is fine
	_ = godotenv.Load()

	fs := ff.NewFlagSet("ai-journal")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "receipts.db", "Database file path")
		storagePath = fs.StringLong("storage", "./images", "Image storage directory path")
		ocrBackend  = fs.StringLong("ocr", "vision", "OCR backend: 'vision' or 'tesseract'")
		visionCreds = fs.StringLong("vision-credentials", "", "Google Cloud credentials file (or set GOOGLE_APPLICATION_CREDENTIALS_PATH)")
		tessdata    = fs.StringLong("tessdata", "", "Tesseract tessdata prefix (tesseract backend only)")
		tessLangs   = fs.StringLong("tess-langs", "jpn,eng", "Comma-separated tesseract languages")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("AI_JOURNAL"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	slog.Info("Initializing record store...")
	store, err := journal.NewBoltStore(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize record store", "error", err)
		os.Exit(1)
	}

	slog.Info("Initializing image storage...")
	images, err := journal.NewLocalImageStore(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize image storage", "error", err)
		os.Exit(1)
	}

	var extractor ocr.TextExtractor
	switch *ocrBackend {
	case "vision":
		creds := *visionCreds
		if creds == "" {
			creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_PATH")
		}
		slog.Info("Initializing Cloud Vision OCR...")
		extractor, err = ocr.NewVision(context.Background(), creds)
		if err != nil {
			slog.Error("Failed to initialize Cloud Vision", "error", err)
			os.Exit(1)
		}
	case "tesseract":
		langs := strings.Split(*tessLangs, ",")
		slog.Info("Initializing Tesseract OCR...", "languages", langs)
		extractor = ocr.NewTesseract(*tessdata, langs...)
	default:
		slog.Error("Invalid OCR backend", "backend", *ocrBackend, "valid", "vision or tesseract")
		os.Exit(1)
	}
	defer extractor.Close()

	slog.Info("Initializing tokenizer...")
	tokenizer, err := tokenize.New()
	if err != nil {
		slog.Error("Failed to initialize tokenizer", "error", err)
		os.Exit(1)
	}

	service := journal.NewService(store, images, extractor, tokenizer)

	basicAuth := journal.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := journal.NewServer(service, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
