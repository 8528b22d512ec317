// internal/api/handlers/signature_handler.go
package handlers

import (
	"net/http"

	"notaria-api-server/internal/lifecycle"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/signer"
	"notaria-api-server/internal/socket"

	"github.com/gin-gonic/gin"
)

type SignatureHandler struct {
	Manager *lifecycle.Manager
	Token   signer.Capability
	Hub     *socket.Hub
}

type SimpleSignatureRequest struct {
	Payload    string `json:"payload" binding:"required"` // imagen de firma renderizada
	SignerName string `json:"signerName" binding:"required"`
	SignerRUT  string `json:"signerRUT"`
}

type AdvancedSignatureRequest struct {
	CertificateID string `json:"certificateID" binding:"required"`
	PIN           string `json:"pin" binding:"required"`
}

// SignSimple aplica una firma simple: pending -> signed.
func (h *SignatureHandler) SignSimple(c *gin.Context) {
	number := c.Param("id")

	var req SimpleSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromContext(c)
	sig, err := h.Manager.ApplySimpleSignature(c.Request.Context(), number, signer.Request{
		Payload:    req.Payload,
		SignerName: req.SignerName,
		SignerRUT:  req.SignerRUT,
	}, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.notify(c, number, models.StatusSigned)
	c.JSON(http.StatusCreated, sig)
}

// SignAdvanced aplica la FEA con el token del certificador:
// pending|signed -> completed.
func (h *SignatureHandler) SignAdvanced(c *gin.Context) {
	number := c.Param("id")

	var req AdvancedSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromContext(c)
	sig, err := h.Manager.ApplyAdvancedSignature(c.Request.Context(), number, signer.Request{
		CertificateID: req.CertificateID,
		PIN:           req.PIN,
	}, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.notify(c, number, models.StatusCompleted)
	c.JSON(http.StatusCreated, sig)
}

// ListCertificates expone las identidades disponibles en el token para la
// mesa del certificador.
func (h *SignatureHandler) ListCertificates(c *gin.Context) {
	certs, err := h.Token.ListCertificates()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, certs)
}

func (h *SignatureHandler) notify(c *gin.Context, number, status string) {
	if doc, err := h.Manager.Get(c.Request.Context(), number); err == nil {
		h.Hub.NotifyStatus(doc.TerminalID, number, status)
	}
}
