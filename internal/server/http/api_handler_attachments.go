package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/attachments"
)

// HandleAddAttachments runs one intake batch against an editor.
// POST /api/editors/:id/attachments
func (h *APIHandler) HandleAddAttachments(c *gin.Context) {
	id := c.Param("id")
	if err := validateEditorID(id); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	files, err := parseIntakeRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome, err := h.service.AddAttachments(c.Request.Context(), id, files)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"accepted":  outcome.Accepted,
		"report":    outcome.Report,
		"discarded": outcome.Discarded,
	})
}

// HandleListAttachments returns the committed collection.
// GET /api/editors/:id/attachments
func (h *APIHandler) HandleListAttachments(c *gin.Context) {
	id := c.Param("id")
	if err := validateEditorID(id); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	list, err := h.service.Attachments(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"attachments": list,
		"count":       len(list),
		"total_size":  attachments.TotalSize(list),
	})
}

// HandleRemoveAttachment deletes one attachment. Removing an ID that is
// already gone still returns 200; the removed flag tells the caller
// whether anything changed.
// DELETE /api/editors/:id/attachments/:attachmentID
func (h *APIHandler) HandleRemoveAttachment(c *gin.Context) {
	id := c.Param("id")
	if err := validateEditorID(id); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	attachmentID := c.Param("attachmentID")
	if err := validateAttachmentID(attachmentID); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	removed, err := h.service.RemoveAttachment(c.Request.Context(), id, attachmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"removed": removed,
	})
}

// HandleClearAttachments empties the editor's collection.
// POST /api/editors/:id/attachments/clear
func (h *APIHandler) HandleClearAttachments(c *gin.Context) {
	id := c.Param("id")
	if err := validateEditorID(id); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	dropped, err := h.service.ClearAttachments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"dropped": dropped,
	})
}

// HandleGetPayload serves stored payload bytes by digest. Payloads are
// content addressed, so responses are immutable and cacheable forever.
// GET /api/payloads/:digest
func (h *APIHandler) HandleGetPayload(c *gin.Context) {
	digest := c.Param("digest")

	data, ext, err := h.service.Payload(c.Request.Context(), digest)
	if err != nil {
		respondError(c, err)
		return
	}

	mimeType := attachments.MIMEForExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("ETag", `"`+digest+`"`)
	c.Data(http.StatusOK, mimeType, data)
}
