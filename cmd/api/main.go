// cmd/api/main.go
package main

import (
	"context"
	"log"
	"time"

	"notaria-api-server/config"
	"notaria-api-server/internal/api/routes"
	"notaria-api-server/internal/audit"
	"notaria-api-server/internal/auth"
	"notaria-api-server/internal/database"
	"notaria-api-server/internal/evidence"
	"notaria-api-server/internal/integrity"
	"notaria-api-server/internal/lifecycle"
	"notaria-api-server/internal/s3"
	"notaria-api-server/internal/signer"
	"notaria-api-server/internal/socket"
	"notaria-api-server/internal/store/mongostore"
	"notaria-api-server/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; en producción todo llega por variables de entorno.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	auth.SetSecret(cfg.JWT.Secret)

	db, disconnect, err := database.Connect(cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := database.SeedDocumentTypes(db); err != nil {
		log.Fatalf("Failed to seed document types: %v", err)
	}

	// Token simulado con las identidades de certificador configuradas.
	token := signer.NewSimulatedToken(cfg.Signer.TokenPIN)
	for _, cert := range cfg.Signer.SeedCertifiers {
		certID, err := token.AddIdentity(cert.Name, cert.RUT)
		if err != nil {
			log.Fatalf("Failed to seed certifier identity %s: %v", cert.Name, err)
		}
		log.Printf("Seeded certifier certificate %s for %s", certID, cert.Name)
	}

	documents := &mongostore.DocumentStore{DB: db}
	evidenceStore := &mongostore.EvidenceStore{DB: db}
	signatures := &mongostore.SignatureStore{DB: db}
	auditStore := &mongostore.AuditStore{DB: db}
	counters := &mongostore.CounterStore{DB: db}
	documentTypes := &mongostore.DocumentTypeStore{DB: db}

	integritySvc := integrity.NewService()
	trail := audit.NewTrail(auditStore)

	manager := &lifecycle.Manager{
		Documents:  documents,
		Signatures: signatures,
		Types:      documentTypes,
		Counters:   counters,
		Evidence:   evidence.NewStore(documents, evidenceStore),
		Integrity:  integritySvc,
		Trail:      trail,
		Simple:     signer.NewSimpleSigner(),
		Advanced:   signer.NewAdvancedSigner(token),
		Now:        time.Now,
	}

	publicValidator := &validator.Service{
		Documents:  documents,
		Evidence:   evidenceStore,
		Signatures: signatures,
		Integrity:  integritySvc,
		Trail:      trail,
	}

	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to create S3 uploader: %v", err)
	}

	wsHub := socket.NewHub()

	router := routes.SetupRouter(manager, publicValidator, signatures, token, cfg, db, s3Uploader, wsHub)

	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
