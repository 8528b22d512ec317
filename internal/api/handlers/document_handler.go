// internal/api/handlers/document_handler.go
package handlers

import (
	"net/http"

	"notaria-api-server/internal/lifecycle"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/socket"
	"notaria-api-server/internal/store"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	Manager    *lifecycle.Manager
	Signatures store.SignatureStore
	Hub        *socket.Hub
}

// --- Structs para el request body ---

type CreateDocumentRequest struct {
	ClientName     string `json:"clientName" binding:"required"`
	ClientRUT      string `json:"clientRUT" binding:"required"`
	ClientPhone    string `json:"clientPhone"`
	ClientEmail    string `json:"clientEmail"`
	DocumentTypeID string `json:"documentTypeID" binding:"required"`
	Content        string `json:"content" binding:"required"`
}

type RejectDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// --- Handlers ---

// CreateDocument crea un documento en estado pending desde un terminal.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromContext(c)
	doc, err := h.Manager.Create(c.Request.Context(), lifecycle.CreateInput{
		ClientName:     req.ClientName,
		ClientRUT:      req.ClientRUT,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		DocumentTypeID: req.DocumentTypeID,
		Content:        req.Content,
		TerminalID:     c.GetString("user_terminal_id"),
	}, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments returns documents for the certifier desk, optionally
// filtered by ?status=.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.Manager.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// GetDocument returns one document with its evidence, signatures and trail.
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	number := c.Param("id")

	doc, err := h.Manager.Get(c.Request.Context(), number)
	if err != nil {
		abortWithError(c, err)
		return
	}

	evidence, err := h.Manager.Evidence.ListFor(c.Request.Context(), number)
	if err != nil {
		abortWithError(c, err)
		return
	}
	signatures, err := h.Signatures.ListByDocument(c.Request.Context(), number)
	if err != nil {
		abortWithError(c, err)
		return
	}
	trail, err := h.Manager.Trail.ListByDocument(c.Request.Context(), number)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document":   doc,
		"evidence":   evidence,
		"signatures": signatures,
		"auditTrail": trail,
	})
}

// RejectDocument marca un documento como rechazado; estado terminal.
func (h *DocumentHandler) RejectDocument(c *gin.Context) {
	number := c.Param("id")

	var req RejectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromContext(c)
	if err := h.Manager.Reject(c.Request.Context(), number, req.Reason, actor); err != nil {
		abortWithError(c, err)
		return
	}

	if doc, err := h.Manager.Get(c.Request.Context(), number); err == nil {
		h.Hub.NotifyStatus(doc.TerminalID, number, models.StatusRejected)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Document " + number + " rejected"})
}
