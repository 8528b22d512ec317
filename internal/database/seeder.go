// internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"notaria-api-server/internal/auth"
	"notaria-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates the bootstrap admin account when it does not exist.
func SeedAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")
	adminEmail := "admin@notaria.local"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": adminEmail})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("adminpassword")
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Name:     "Administrador",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		Status:   "active",
	}

	if _, err := userCollection.InsertOne(context.Background(), admin); err != nil {
		return err
	}

	log.Println("Admin seeded successfully.")
	return nil
}

// SeedDocumentTypes inserts the default catalog used by the POS terminals.
func SeedDocumentTypes(db *mongo.Database) error {
	collection := db.Collection("document_types")

	defaults := []models.DocumentType{
		{TypeID: "poder-simple", Name: "Poder Simple", Active: true},
		{TypeID: "declaracion-jurada", Name: "Declaración Jurada", Active: true},
		{TypeID: "autorizacion", Name: "Autorización Notarial", Active: true},
		{TypeID: "finiquito", Name: "Finiquito Laboral", Active: true, RequiresAdvanced: true},
	}

	for _, dt := range defaults {
		count, err := collection.CountDocuments(context.Background(), bson.M{"typeID": dt.TypeID})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		dt.CreatedAt = time.Now()
		dt.UpdatedAt = dt.CreatedAt
		if _, err := collection.InsertOne(context.Background(), dt); err != nil {
			return err
		}
		log.Printf("Document type %s seeded.", dt.TypeID)
	}
	return nil
}
