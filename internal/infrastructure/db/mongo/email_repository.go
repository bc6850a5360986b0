package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

const emailsCollection = "emails"

// EmailRepository implements ports.EmailRepository using MongoDB.
type EmailRepository struct {
	coll *mongo.Collection
}

func NewEmailRepository(db *mongo.Database) *EmailRepository {
	return &EmailRepository{coll: db.Collection(emailsCollection)}
}

type mongoEmail struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Recipient string             `bson:"recipient"`
	Subject   string             `bson:"subject"`
	Body      string             `bson:"body"`
	Kind      string             `bson:"kind"`
	Status    string             `bson:"status"`
	SentAt    time.Time          `bson:"sent_at"`
	Error     string             `bson:"error,omitempty"`
}

func toMongoEmail(m *domain.EmailMessage) mongoEmail {
	return mongoEmail{
		Recipient: m.Recipient,
		Subject:   m.Subject,
		Body:      m.Body,
		Kind:      m.Kind,
		Status:    string(m.Status),
		SentAt:    m.SentAt,
		Error:     m.Error,
	}
}

func (me mongoEmail) toDomain() *domain.EmailMessage {
	return &domain.EmailMessage{
		ID:        me.ID.Hex(),
		Recipient: me.Recipient,
		Subject:   me.Subject,
		Body:      me.Body,
		Kind:      me.Kind,
		Status:    domain.EmailStatus(me.Status),
		SentAt:    me.SentAt,
		Error:     me.Error,
	}
}

func (r *EmailRepository) Insert(ctx context.Context, m *domain.EmailMessage) (*domain.EmailMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoEmail(m))
	if err != nil {
		return nil, fmt.Errorf("insert email: %w", err)
	}

	inserted := *m
	inserted.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &inserted, nil
}

func (r *EmailRepository) Update(ctx context.Context, m *domain.EmailMessage) error {
	oid, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		return domain.ErrEmailNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status": string(m.Status),
		"error":  m.Error,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmailNotFound
	}
	return nil
}

func (r *EmailRepository) FindByID(ctx context.Context, id string) (*domain.EmailMessage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEmailNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEmail
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmailNotFound
		}
		return nil, fmt.Errorf("find email: %w", err)
	}
	return me.toDomain(), nil
}

func (r *EmailRepository) FindByStatus(ctx context.Context, status domain.EmailStatus) ([]*domain.EmailMessage, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

func (r *EmailRepository) FindByKind(ctx context.Context, kind string) ([]*domain.EmailMessage, error) {
	return r.find(ctx, bson.M{"kind": kind})
}

func (r *EmailRepository) FindByRecipient(ctx context.Context, recipient string) ([]*domain.EmailMessage, error) {
	return r.find(ctx, bson.M{"recipient": recipient})
}

func (r *EmailRepository) CountByStatus(ctx context.Context, status domain.EmailStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"status": string(status)})
	if err != nil {
		return 0, fmt.Errorf("count emails: %w", err)
	}
	return n, nil
}

func (r *EmailRepository) find(ctx context.Context, filter bson.M) ([]*domain.EmailMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find emails: %w", err)
	}
	defer cur.Close(ctx)

	var messages []*domain.EmailMessage
	for cur.Next(ctx) {
		var me mongoEmail
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode email: %w", err)
		}
		messages = append(messages, me.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate emails: %w", err)
	}
	return messages, nil
}
