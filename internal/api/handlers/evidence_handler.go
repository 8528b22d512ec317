// internal/api/handlers/evidence_handler.go
package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"notaria-api-server/internal/lifecycle"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EvidenceHandler struct {
	Manager    *lifecycle.Manager
	S3Uploader *s3.Uploader
}

type AttachEvidenceRequest struct {
	Type    string                 `json:"type" binding:"required"`
	Payload models.EvidencePayload `json:"payload" binding:"required"`
}

// AttachEvidence adjunta evidencia estructurada (gps, voz, biometría o
// imagen en base64) a un documento pendiente.
func (h *EvidenceHandler) AttachEvidence(c *gin.Context) {
	number := c.Param("id")

	var req AttachEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromContext(c)
	ev, err := h.Manager.AttachEvidence(c.Request.Context(), number, req.Type, req.Payload, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ev)
}

// UploadPhoto recibe una foto multipart, la sube a S3 y la adjunta como
// evidencia con su hash de contenido.
func (h *EvidenceHandler) UploadPhoto(c *gin.Context) {
	number := c.Param("id")

	evType := c.DefaultPostForm("type", models.EvidencePhoto)
	if evType != models.EvidencePhoto && evType != models.EvidenceSignatureImage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be photo or signature-image"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is empty"})
		return
	}

	sum := sha256.Sum256(data)
	photoHash := hex.EncodeToString(sum[:])

	objectKey := fmt.Sprintf("evidence/%s/%s-%s", number, uuid.New().String()[:8], fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photoURL, err := h.S3Uploader.UploadFile(c.Request.Context(), bytes.NewReader(data), objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	actor := actorFromContext(c)
	ev, err := h.Manager.AttachEvidence(c.Request.Context(), number, evType, models.EvidencePayload{
		PhotoURL:  photoURL,
		PhotoHash: photoHash,
	}, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ev)
}

// ListEvidence devuelve la evidencia del documento en orden de captura.
func (h *EvidenceHandler) ListEvidence(c *gin.Context) {
	items, err := h.Manager.Evidence.ListFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
