package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tournament-wallet-ledger/internal/domain/ledger"
	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
)

const (
	// LedgerCollectionName is the collection the wallet service posts transactions to
	LedgerCollectionName = "wallet_transactions"
)

// entryDocument mirrors the stored shape. Every field is kept raw because the backend
// has written amounts as strings, doubles and Decimal128, and older rows carry numeric
// references and epoch timestamps. A bad field becomes "" for ingestion to coerce.
type entryDocument struct {
	ID           bson.RawValue `bson:"_id"`
	Type         bson.RawValue `bson:"type"`
	Amount       bson.RawValue `bson:"amount"`
	Description  bson.RawValue `bson:"description"`
	ReferenceID  bson.RawValue `bson:"reference_id"`
	BalanceAfter bson.RawValue `bson:"balance_after"`
	CreatedAt    bson.RawValue `bson:"created_at"`
}

func (d entryDocument) toEntry() ledger.Entry {
	return ledger.Entry{
		ID:           rawToString(d.ID),
		Type:         rawToString(d.Type),
		Amount:       rawToString(d.Amount),
		Description:  rawToString(d.Description),
		ReferenceID:  rawToString(d.ReferenceID),
		BalanceAfter: rawToString(d.BalanceAfter),
		CreatedAt:    rawToTime(d.CreatedAt),
	}
}

// rawToString renders scalar BSON values as text. Missing, null and non-scalar values
// become "".
func rawToString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case bsontype.Decimal128:
		return v.Decimal128().String()
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	default:
		return ""
	}
}

// rawToTime reads dates, epoch milliseconds and RFC 3339 strings. Anything else is nil.
func rawToTime(v bson.RawValue) *time.Time {
	var t time.Time
	switch v.Type {
	case bsontype.DateTime:
		t = v.Time()
	case bsontype.Int64:
		t = time.UnixMilli(v.Int64())
	case bsontype.String:
		parsed, err := time.Parse(time.RFC3339, v.StringValue())
		if err != nil {
			return nil
		}
		t = parsed
	default:
		return nil
	}
	t = t.UTC()
	return &t
}

// LedgerRepository reads the posted wallet ledger from MongoDB
type LedgerRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

var (
	_ ledger.Source       = (*LedgerRepository)(nil)
	_ wallet.LedgerSource = (*LedgerRepository)(nil)
)

// NewLedgerRepository creates a new MongoDB ledger repository
func NewLedgerRepository(logger *slog.Logger, db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
	}
}

// ListByUser returns every entry of the user, newest first.
func (r *LedgerRepository) ListByUser(ctx context.Context, userID string) ([]ledger.Entry, error) {
	collection := r.db.Collection(LedgerCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get ledger entries", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get ledger entries: %w: %w", shared.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	entries := make([]ledger.Entry, 0)
	for cursor.Next(ctx) {
		var doc entryDocument
		if err := cursor.Decode(&doc); err != nil {
			id := rawToString(cursor.Current.Lookup("_id"))
			r.logger.Error("Failed to decode ledger entry", "user_id", userID, "entry_id", id, "error", err)
			return nil, fmt.Errorf("failed to decode ledger entries: %w", ledger.ErrUnreadableEntry{ID: id, Err: err})
		}
		entries = append(entries, doc.toEntry())
	}
	if err := cursor.Err(); err != nil {
		r.logger.Error("Failed to iterate ledger entries", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to iterate ledger entries: %w: %w", shared.ErrUnavailable, err)
	}

	return entries, nil
}

// FetchLedgerEntries resolves the credential and lists the user's entries.
func (r *LedgerRepository) FetchLedgerEntries(ctx context.Context, cred wallet.Credential) ([]ledger.Entry, error) {
	userID, signedIn, err := cred.Resolve()
	if err != nil || !signedIn {
		return nil, err
	}
	return r.ListByUser(ctx, userID)
}
