// Package mongostore implements the store ports over MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/models"
	"notaria-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentStore struct {
	DB *mongo.Database
}

func (s *DocumentStore) collection() *mongo.Collection { return s.DB.Collection("documents") }

func (s *DocumentStore) Insert(ctx context.Context, doc *models.Document) error {
	if _, err := s.collection().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *DocumentStore) FindByNumber(ctx context.Context, number string) (*models.Document, error) {
	var doc models.Document
	err := s.collection().FindOne(ctx, bson.M{"documentNumber": number}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domerr.Newf(domerr.CodeNotFound, "document %s not found", number)
	}
	if err != nil {
		return nil, fmt.Errorf("find document by number: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStore) FindByQRToken(ctx context.Context, token string) (*models.Document, error) {
	var doc models.Document
	err := s.collection().FindOne(ctx, bson.M{"qrToken": token}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domerr.New(domerr.CodeNotFound, "no document for token")
	}
	if err != nil {
		return nil, fmt.Errorf("find document by token: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStore) List(ctx context.Context, status string) ([]models.Document, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := s.collection().Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

func (s *DocumentStore) UpdateStatus(ctx context.Context, number string, upd store.StatusUpdate) error {
	set := bson.M{"status": upd.Status}
	if upd.SignedAt != nil {
		set["signedAt"] = *upd.SignedAt
	}
	if upd.CompletedAt != nil {
		set["completedAt"] = *upd.CompletedAt
	}
	if upd.RejectReason != "" {
		set["rejectReason"] = upd.RejectReason
	}

	result, err := s.collection().UpdateOne(ctx, bson.M{"documentNumber": number}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domerr.Newf(domerr.CodeNotFound, "document %s not found", number)
	}
	return nil
}

type EvidenceStore struct {
	DB *mongo.Database
}

func (s *EvidenceStore) collection() *mongo.Collection { return s.DB.Collection("evidence") }

func (s *EvidenceStore) Insert(ctx context.Context, ev *models.Evidence) error {
	if _, err := s.collection().InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}
	return nil
}

func (s *EvidenceStore) ListByDocument(ctx context.Context, number string) ([]models.Evidence, error) {
	cursor, err := s.collection().Find(ctx,
		bson.M{"documentNumber": number},
		options.Find().SetSort(bson.M{"capturedAt": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Evidence
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode evidence: %w", err)
	}
	if items == nil {
		items = []models.Evidence{}
	}
	return items, nil
}

type SignatureStore struct {
	DB *mongo.Database
}

func (s *SignatureStore) collection() *mongo.Collection { return s.DB.Collection("signatures") }

func (s *SignatureStore) Insert(ctx context.Context, sig *models.Signature) error {
	if _, err := s.collection().InsertOne(ctx, sig); err != nil {
		return fmt.Errorf("insert signature: %w", err)
	}
	return nil
}

func (s *SignatureStore) ListByDocument(ctx context.Context, number string) ([]models.Signature, error) {
	cursor, err := s.collection().Find(ctx,
		bson.M{"documentNumber": number},
		options.Find().SetSort(bson.M{"createdAt": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Signature
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode signatures: %w", err)
	}
	if items == nil {
		items = []models.Signature{}
	}
	return items, nil
}

type AuditStore struct {
	DB *mongo.Database
}

func (s *AuditStore) collection() *mongo.Collection { return s.DB.Collection("audit_log") }

func (s *AuditStore) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	if _, err := s.collection().InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *AuditStore) ListByDocument(ctx context.Context, number string) ([]models.AuditLogEntry, error) {
	cursor, err := s.collection().Find(ctx,
		bson.M{"documentNumber": number},
		options.Find().SetSort(bson.M{"createdAt": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}
	if entries == nil {
		entries = []models.AuditLogEntry{}
	}
	return entries, nil
}

// CounterStore hands out sequence numbers via an atomic $inc upsert, so two
// concurrent creates never share a document number.
type CounterStore struct {
	DB *mongo.Database
}

func (s *CounterStore) Next(ctx context.Context, name string) (int64, error) {
	var result struct {
		Seq int64 `bson:"seq"`
	}
	err := s.DB.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&result)
	if err != nil {
		return 0, fmt.Errorf("next counter value for %s: %w", name, err)
	}
	return result.Seq, nil
}

type DocumentTypeStore struct {
	DB *mongo.Database
}

func (s *DocumentTypeStore) collection() *mongo.Collection { return s.DB.Collection("document_types") }

func (s *DocumentTypeStore) FindByTypeID(ctx context.Context, typeID string) (*models.DocumentType, error) {
	var dt models.DocumentType
	err := s.collection().FindOne(ctx, bson.M{"typeID": typeID}).Decode(&dt)
	if err == mongo.ErrNoDocuments {
		return nil, domerr.Newf(domerr.CodeNotFound, "document type %s not found", typeID)
	}
	if err != nil {
		return nil, fmt.Errorf("find document type: %w", err)
	}
	return &dt, nil
}

func (s *DocumentTypeStore) List(ctx context.Context) ([]models.DocumentType, error) {
	cursor, err := s.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []models.DocumentType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("decode document types: %w", err)
	}
	if types == nil {
		types = []models.DocumentType{}
	}
	return types, nil
}

func (s *DocumentTypeStore) Insert(ctx context.Context, dt *models.DocumentType) error {
	if _, err := s.collection().InsertOne(ctx, dt); err != nil {
		return fmt.Errorf("insert document type: %w", err)
	}
	return nil
}

func (s *DocumentTypeStore) Update(ctx context.Context, dt *models.DocumentType) error {
	result, err := s.collection().UpdateOne(ctx, bson.M{"typeID": dt.TypeID}, bson.M{"$set": bson.M{
		"name":             dt.Name,
		"template":         dt.Template,
		"active":           dt.Active,
		"requiresAdvanced": dt.RequiresAdvanced,
		"updatedAt":        time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update document type: %w", err)
	}
	if result.MatchedCount == 0 {
		return domerr.Newf(domerr.CodeNotFound, "document type %s not found", dt.TypeID)
	}
	return nil
}

var (
	_ store.DocumentStore     = (*DocumentStore)(nil)
	_ store.EvidenceStore     = (*EvidenceStore)(nil)
	_ store.SignatureStore    = (*SignatureStore)(nil)
	_ store.AuditStore        = (*AuditStore)(nil)
	_ store.CounterStore      = (*CounterStore)(nil)
	_ store.DocumentTypeStore = (*DocumentTypeStore)(nil)
)
