// Package attachment serves attachment uploads, signed links and the
// token-protected file download endpoint.
package attachment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/application/attachment/usecases"
	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/id"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

// FormFileField is the multipart field carrying the upload.
const FormFileField = "file"

// multipartOverhead covers headers and boundaries around the file part.
const multipartOverhead = 1 << 20

type AttachmentHandler struct {
	uploadUC usecases.UploadAttachmentExecutor
	getURLUC usecases.GetAttachmentURLExecutor
	deleteUC usecases.DeleteAttachmentExecutor
	listUC   usecases.ListAttachmentsExecutor
	maxSize  int64
	logger   logger.Interface
}

func NewAttachmentHandler(
	uploadUC usecases.UploadAttachmentExecutor,
	getURLUC usecases.GetAttachmentURLExecutor,
	deleteUC usecases.DeleteAttachmentExecutor,
	listUC usecases.ListAttachmentsExecutor,
	maxSize int64,
	logger logger.Interface,
) *AttachmentHandler {
	if maxSize <= 0 {
		maxSize = usecases.DefaultMaxSize
	}
	return &AttachmentHandler{
		uploadUC: uploadUC,
		getURLUC: getURLUC,
		deleteUC: deleteUC,
		listUC:   listUC,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// Upload handles POST /tickets/:id/attachments (multipart, field "file").
func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	ticketID, err := utils.ParseSIDParam(c, "id", id.PrefixTicket, "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)
	fh, err := c.FormFile(FormFileField)
	if err != nil {
		h.logger.Warnw("upload without a readable file part", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("file is required", err.Error()))
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read upload", err.Error()))
		return
	}
	defer f.Close()

	result, err := h.uploadUC.Execute(c.Request.Context(), usecases.UploadAttachmentCommand{
		Actor:    actor,
		TicketID: ticketID,
		FileName: fh.Filename,
		Content:  f,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "File uploaded successfully")
}

// List handles GET /attachments?entity_type=ticket&entity_id=tkt_...
func (h *AttachmentHandler) List(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListAttachmentsQuery{
		Actor:      actor,
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SignedURL handles GET /attachments/:attachment_id/url and
// GET /attachments/url?path=... Add preview=true for the longer-lived
// inline link.
func (h *AttachmentHandler) SignedURL(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	attachmentID, path, err := attachmentRef(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	preview, _ := strconv.ParseBool(c.DefaultQuery("preview", "false"))

	result, err := h.getURLUC.Execute(c.Request.Context(), usecases.GetAttachmentURLQuery{
		Actor:        actor,
		AttachmentID: attachmentID,
		Path:         path,
		Preview:      preview,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Delete handles DELETE /attachments/:attachment_id and
// DELETE /attachments?path=...
func (h *AttachmentHandler) Delete(c *gin.Context) {
	actor, err := authorization.ActorFromContext(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	attachmentID, path, err := attachmentRef(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), usecases.DeleteAttachmentCommand{
		Actor:        actor,
		AttachmentID: attachmentID,
		Path:         path,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// attachmentRef reads either the :attachment_id parameter or ?path=.
func attachmentRef(c *gin.Context) (string, string, error) {
	if c.Param("attachment_id") != "" {
		attachmentID, err := utils.ParseSIDParam(c, "attachment_id", id.PrefixAttachment, "attachment")
		return attachmentID, "", err
	}
	if path := c.Query("path"); path != "" {
		return "", path, nil
	}
	return "", "", errors.NewValidationError("attachment ID or path is required")
}
