// internal/api/handlers/admin_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"notaria-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminHandler maneja el catálogo de tipos de documento y el registro de
// terminales.
type AdminHandler struct {
	DB *mongo.Database
}

type DocumentTypeRequest struct {
	TypeID           string `json:"typeID" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Template         string `json:"template"`
	Active           *bool  `json:"active"`
	RequiresAdvanced bool   `json:"requiresAdvanced"`
}

type TerminalRequest struct {
	TerminalID string `json:"terminalID" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Location   string `json:"location"`
	Status     string `json:"status"`
}

// --- Document types ---

func (h *AdminHandler) CreateDocumentType(c *gin.Context) {
	var req DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("document_types")

	count, err := collection.CountDocuments(context.Background(), bson.M{"typeID": req.TypeID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for document type"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Document type with this ID already exists"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	newType := models.DocumentType{
		TypeID:           req.TypeID,
		Name:             req.Name,
		Template:         req.Template,
		Active:           active,
		RequiresAdvanced: req.RequiresAdvanced,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if _, err := collection.InsertOne(context.Background(), newType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document type"})
		return
	}

	c.JSON(http.StatusCreated, newType)
}

func (h *AdminHandler) GetAllDocumentTypes(c *gin.Context) {
	collection := h.DB.Collection("document_types")

	cursor, err := collection.Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query document types"})
		return
	}
	defer cursor.Close(context.Background())

	var types []models.DocumentType
	if err = cursor.All(context.Background(), &types); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode document types"})
		return
	}

	if types == nil {
		types = []models.DocumentType{}
	}

	c.JSON(http.StatusOK, types)
}

func (h *AdminHandler) UpdateDocumentType(c *gin.Context) {
	typeID := c.Param("id")

	var req DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	collection := h.DB.Collection("document_types")
	result, err := collection.UpdateOne(context.Background(), bson.M{"typeID": typeID}, bson.M{"$set": bson.M{
		"name":             req.Name,
		"template":         req.Template,
		"active":           active,
		"requiresAdvanced": req.RequiresAdvanced,
		"updatedAt":        time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document type"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document type not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document type updated successfully"})
}

// --- Terminals ---

func (h *AdminHandler) CreateTerminal(c *gin.Context) {
	var req TerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("terminals")

	count, err := collection.CountDocuments(context.Background(), bson.M{"terminalID": req.TerminalID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for terminal"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Terminal with this ID already exists"})
		return
	}

	status := req.Status
	if status == "" {
		status = "active"
	}

	newTerminal := models.Terminal{
		TerminalID: req.TerminalID,
		Name:       req.Name,
		Location:   req.Location,
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if _, err := collection.InsertOne(context.Background(), newTerminal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create terminal"})
		return
	}

	c.JSON(http.StatusCreated, newTerminal)
}

func (h *AdminHandler) GetAllTerminals(c *gin.Context) {
	collection := h.DB.Collection("terminals")

	cursor, err := collection.Find(context.Background(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query terminals"})
		return
	}
	defer cursor.Close(context.Background())

	var terminals []models.Terminal
	if err = cursor.All(context.Background(), &terminals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode terminals"})
		return
	}

	if terminals == nil {
		terminals = []models.Terminal{}
	}

	c.JSON(http.StatusOK, terminals)
}

func (h *AdminHandler) UpdateTerminal(c *gin.Context) {
	terminalID := c.Param("id")

	var req TerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("terminals")
	result, err := collection.UpdateOne(context.Background(), bson.M{"terminalID": terminalID}, bson.M{"$set": bson.M{
		"name":      req.Name,
		"location":  req.Location,
		"status":    req.Status,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update terminal"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Terminal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Terminal updated successfully"})
}
