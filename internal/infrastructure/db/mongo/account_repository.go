package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

const collectionAccounts = "accounts"

// AccountRepository implements ports.AccountRepository using MongoDB.
// Each account is one document; its history is an embedded array.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type mongoAnalysis struct {
	Text       string    `bson:"text"`
	Sentiment  string    `bson:"sentiment"`
	Confidence float64   `bson:"confidence"`
	AnalyzedAt time.Time `bson:"analyzed_at"`
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Analyses     []mongoAnalysis    `bson:"analyses"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// Create inserts a new account document. The unique index on username turns
// a concurrent duplicate into domain.ErrUserExists.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAccount{
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Analyses:     []mongoAnalysis{},
		CreatedAt:    account.CreatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("%w: insert account: %w", domain.ErrPersistence, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected inserted id %T", domain.ErrPersistence, res.InsertedID)
	}
	doc.ID = oid
	return toDomain(doc), nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByID looks an account up by its hex ObjectID. Ids that are not valid
// ObjectIDs cannot name an account and report domain.ErrUserNotFound.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// AppendAnalysis pushes rec onto the account's history in a single update.
func (r *AccountRepository) AppendAnalysis(ctx context.Context, id string, rec domain.AnalysisRecord) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entry := mongoAnalysis{
		Text:       rec.Text,
		Sentiment:  string(rec.Sentiment),
		Confidence: rec.Confidence,
		AnalyzedAt: rec.AnalyzedAt.UTC(),
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"analyses": entry}})
	if err != nil {
		return fmt.Errorf("%w: append analysis: %w", domain.ErrPersistence, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username index. It is the authoritative
// guard against duplicate accounts.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	return err
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find account: %w", domain.ErrPersistence, err)
	}
	return toDomain(doc), nil
}

func toDomain(doc mongoAccount) *domain.Account {
	analyses := make([]domain.AnalysisRecord, len(doc.Analyses))
	for i, a := range doc.Analyses {
		analyses[i] = domain.AnalysisRecord{
			Text:       a.Text,
			Sentiment:  domain.Sentiment(a.Sentiment),
			Confidence: a.Confidence,
			AnalyzedAt: a.AnalyzedAt.UTC(),
		}
	}
	return &domain.Account{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Analyses:     analyses,
		CreatedAt:    doc.CreatedAt.UTC(),
	}
}
