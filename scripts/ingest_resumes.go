package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"hrsystem/resume-ranker/internal/config"
	"hrsystem/resume-ranker/internal/logger"
	"hrsystem/resume-ranker/internal/models"
	"hrsystem/resume-ranker/internal/repositories"
	"hrsystem/resume-ranker/internal/services"
)

// Batch-ingests a directory of resume files without going through the HTTP
// API. Usage: go run scripts/ingest_resumes.go <dir>
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ingest_resumes <directory>")
	}
	dir := os.Args[1]

	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Server.LogJSON, cfg.Server.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}

	resumeRepo := repositories.NewResumeRepository(db)
	decoder := services.NewDecoderService(zapLogger)

	gateway, err := services.NewCompletionGateway(context.Background(), cfg.Gemini, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize completion gateway", zap.Error(err))
	}

	extractor := services.NewExtractorService(decoder, gateway, cfg.Parser, zapLogger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		zapLogger.Fatal("failed to read directory", zap.String("dir", dir), zap.Error(err))
	}

	ctx := context.Background()
	ingested, failed, skipped := 0, 0, 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		format, err := services.FormatForFilename(entry.Name())
		if err != nil {
			zapLogger.Debug("skipping unsupported file", zap.String("file", entry.Name()))
			skipped++
			continue
		}

		info, err := entry.Info()
		if err != nil {
			zapLogger.Warn("failed to stat file", zap.String("file", entry.Name()), zap.Error(err))
			failed++
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			zapLogger.Warn("failed to read file", zap.String("file", entry.Name()), zap.Error(err))
			failed++
			continue
		}

		resume := models.Resume{
			Filename:         entry.Name(),
			OriginalFilename: entry.Name(),
			FilePath:         path,
			FileSize:         info.Size(),
			ProcessingStatus: models.StatusProcessing,
		}
		if err := resumeRepo.Create(&resume); err != nil {
			zapLogger.Error("failed to create resume record", zap.String("file", entry.Name()), zap.Error(err))
			failed++
			continue
		}

		profile, rawText, err := extractor.ExtractFromDocument(ctx, content, format)
		if err != nil {
			if markErr := resumeRepo.MarkFailed(resume.ID, err.Error()); markErr != nil {
				zapLogger.Error("failed to record failure", zap.Error(markErr))
			}
			zapLogger.Warn("extraction failed", zap.String("file", entry.Name()), zap.Error(err))
			failed++
			continue
		}

		parsed := repositories.ParsedResumeData{
			RawText:         rawText,
			CandidateName:   profile.Name,
			CandidateEmail:  profile.Email,
			CandidatePhone:  profile.Phone,
			Skills:          profile.Skills,
			ExperienceYears: profile.ExperienceYears,
			EducationLevels: profile.EducationLevels,
		}
		if err := resumeRepo.MarkCompleted(resume.ID, &parsed); err != nil {
			zapLogger.Error("failed to store extraction result", zap.Error(err))
			failed++
			continue
		}

		zapLogger.Info("resume ingested",
			zap.String("file", entry.Name()),
			zap.String("candidate", profile.Name),
		)
		ingested++
	}

	zapLogger.Info("ingestion finished",
		zap.Int("ingested", ingested),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)
}
