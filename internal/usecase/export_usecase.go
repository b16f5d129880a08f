package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trail-recommender/internal/domain"
	"github.com/trail-recommender/internal/domain/repository"
	"github.com/trail-recommender/internal/pkg/errors"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// ExportUseCase writes recommendation result sets into the export directory.
type ExportUseCase struct {
	exporter  repository.RecommendationExporter
	exportDir string
	logger    *zap.Logger
}

func NewExportUseCase(exporter repository.RecommendationExporter, exportDir string, logger *zap.Logger) *ExportUseCase {
	return &ExportUseCase{
		exporter:  exporter,
		exportDir: exportDir,
		logger:    logger,
	}
}

// Export writes the recommendations in the given format and returns the
// resulting file path. An empty filename gets a generated unique name; an
// explicit filename is sanitized to its base name and given the format
// extension when missing.
func (uc *ExportUseCase) Export(recs []domain.Recommendation, format, filename string) (string, error) {
	format = strings.ToLower(format)
	if format != ExportFormatCSV && format != ExportFormatJSON {
		return "", errors.ErrExportFailed.WithDetails(map[string]interface{}{
			"reason": fmt.Sprintf("unsupported format %q", format),
		})
	}

	if err := os.MkdirAll(uc.exportDir, 0o755); err != nil {
		return "", errors.ErrExportFailed.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	path := filepath.Join(uc.exportDir, uc.resolveFilename(format, filename))

	var err error
	switch format {
	case ExportFormatCSV:
		err = uc.exporter.WriteCSV(path, recs)
	case ExportFormatJSON:
		err = uc.exporter.WriteJSON(path, recs)
	}
	if err != nil {
		uc.logger.Error("Export failed", zap.String("path", path), zap.Error(err))
		return "", errors.ErrExportFailed.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	uc.logger.Info("Recommendations exported",
		zap.String("path", path),
		zap.Int("count", len(recs)),
	)
	return path, nil
}

func (uc *ExportUseCase) resolveFilename(format, filename string) string {
	if filename == "" {
		return fmt.Sprintf("recommendations_%s.%s", uuid.New().String(), format)
	}

	name := filepath.Base(filename)
	if !strings.HasSuffix(strings.ToLower(name), "."+format) {
		name += "." + format
	}
	return name
}
