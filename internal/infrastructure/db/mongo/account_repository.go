package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

const (
	accountCollection = "accounts"
	counterCollection = "counters"
)

// AccountRepository implements ports.AccountRepository using MongoDB.
//
// Username uniqueness is enforced by a unique index rather than an
// application-side existence check, so two concurrent registrations with the
// same username cannot both commit. Integer account IDs come from an atomic
// counter document.
type AccountRepository struct {
	accounts *mongo.Collection
	counters *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		accounts: db.Collection(accountCollection),
		counters: db.Collection(counterCollection),
	}
}

// EnsureIndexes creates the unique username index. Call once at startup.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type accountDoc struct {
	ID        int64  `bson:"_id"`
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
	Username  string `bson:"username"`
	Password  string `bson:"password"`
	Role      string `bson:"role"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (d accountDoc) toDomain() domain.Account {
	return domain.Account{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Username:  d.Username,
		Password:  d.Password,
		Role:      domain.Role(d.Role),
		CreatedAt: unixToTime(d.CreatedAt),
		UpdatedAt: unixToTime(d.UpdatedAt),
	}
}

// nextID atomically increments and returns the account ID counter.
func (r *AccountRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": accountCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next account id: %w", err)
	}
	return counter.Seq, nil
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := accountDoc{
		ID:        id,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Username:  account.Username,
		Password:  account.Password,
		Role:      string(account.Role),
		CreatedAt: account.CreatedAt.Unix(),
		UpdatedAt: account.UpdatedAt.Unix(),
	}

	if _, err := r.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := doc.toDomain()
	return &created, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByCredentials matches username and password in a single query, the
// store-side equivalent of the combined login predicate.
func (r *AccountRepository) FindByCredentials(ctx context.Context, username, password string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username, "password": password})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := r.accounts.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	account := doc.toDomain()
	return &account, nil
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	res, err := r.accounts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": string(role), "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.accounts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ListAll returns every account in the collection's natural scan order.
func (r *AccountRepository) ListAll(ctx context.Context) ([]domain.Account, error) {
	cur, err := r.accounts.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	accounts := []domain.Account{}
	for cur.Next(ctx) {
		var doc accountDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		accounts = append(accounts, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
