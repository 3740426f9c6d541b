package attachment

import (
	"context"
	"mime"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/domain/attachment"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

// BlobTokenVerifier returns the storage path a download token grants.
type BlobTokenVerifier interface {
	VerifyBlob(token string) (string, error)
}

type BlobOpener interface {
	Open(ctx context.Context, storagePath string) (*os.File, error)
}

type AttachmentLookup interface {
	GetByPath(ctx context.Context, storagePath string) (*attachment.Attachment, error)
}

// FileHandler streams attachment content to holders of a signed link. The
// token is the only credential, so the route sits outside bearer auth.
type FileHandler struct {
	verifier BlobTokenVerifier
	blobs    BlobOpener
	lookup   AttachmentLookup
	logger   logger.Interface
}

func NewFileHandler(verifier BlobTokenVerifier, blobs BlobOpener, lookup AttachmentLookup, logger logger.Interface) *FileHandler {
	return &FileHandler{verifier: verifier, blobs: blobs, lookup: lookup, logger: logger}
}

// Download handles GET /files?token=...&download=1
func (h *FileHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing download token")
		return
	}
	path, err := h.verifier.VerifyBlob(token)
	if err != nil {
		h.logger.Debugw("rejected download token", "error", err)
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired download link")
		return
	}

	meta, err := h.lookup.GetByPath(c.Request.Context(), path)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			h.logger.Errorw("failed to load attachment for download", "path", path, "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	f, err := h.blobs.Open(c.Request.Context(), path)
	if err != nil {
		h.logger.Errorw("failed to open blob", "path", path, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to read file"))
		return
	}

	disposition := "inline"
	if asDownload, _ := strconv.ParseBool(c.Query("download")); asDownload || !meta.IsImage() {
		disposition = "attachment"
	}
	c.Header("Content-Type", meta.ContentType())
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": meta.OriginalName()}))
	c.Header("Cache-Control", "private, max-age=60")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")

	http.ServeContent(c.Writer, c.Request, meta.OriginalName(), info.ModTime(), f)
}
