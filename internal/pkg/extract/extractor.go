package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/StutiiiG/readai/internal/model"
	"github.com/StutiiiG/readai/internal/platform/blob"
)

// ImagePlaceholder stands in for image uploads; images are stored but not
// analyzed, so this is all an image contributes to the prompt.
const ImagePlaceholder = "[Image content - base64 encoded for analysis]"

// Extractor converts a stored file into plain text. It never fails: any
// problem (missing blob, corrupt document, unknown type) is logged and
// yields an empty string so the chat turn can continue without that source.
type Extractor struct {
	blobs  blob.Store
	logger *zap.Logger
}

func New(blobs blob.Store, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{blobs: blobs, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, file model.StoredFile) string {
	data, err := e.blobs.Read(file.StoredName)
	if err != nil {
		e.logger.Error("read blob failed",
			zap.String("file_id", file.ID),
			zap.String("file_type", file.FileType),
			zap.Error(err))
		return ""
	}

	switch file.FileType {
	case "pdf":
		text, err := pdfText(data)
		if err != nil {
			e.logger.Error("extract pdf text failed", zap.String("file_id", file.ID), zap.Error(err))
			return ""
		}
		return text
	case "docx":
		text, err := docxText(data)
		if err != nil {
			e.logger.Error("extract docx text failed", zap.String("file_id", file.ID), zap.Error(err))
			return ""
		}
		return text
	case "txt":
		return string(data)
	case "png", "jpg", "jpeg", "gif", "webp":
		return ImagePlaceholder
	default:
		// Upload validation should make this unreachable.
		e.logger.Warn("unsupported file type", zap.String("file_id", file.ID), zap.String("file_type", file.FileType))
		return ""
	}
}
