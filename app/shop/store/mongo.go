package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

// Mongo backs the repositories with MongoDB collections.
type Mongo struct {
	users    *mongo.Collection
	products *mongo.Collection
	orders   *mongo.Collection
}

// NewMongo binds the shop collections of db and ensures their indexes exist.
func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	m := &Mongo{
		users:    db.Collection(UsersCollection),
		products: db.Collection(ProductsCollection),
		orders:   db.Collection(OrdersCollection),
	}

	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{m.users, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
			{
				Keys:    bson.D{{Key: "reset_token", Value: 1}},
				Options: options.Index().SetSparse(true).SetName("reset_token"),
			},
		}},
		{m.products, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "created_at", Value: 1}},
				Options: options.Index().SetName("created_at"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("owner_created_at"),
			},
		}},
		{m.orders, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("user_created_at"),
			},
		}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateMany(ctx, idx.models); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Repositories exposes the collections through the repository interfaces.
func (m *Mongo) Repositories() Repositories {
	return Repositories{
		Users:    mongoUsers{m.users},
		Products: mongoProducts{m.products},
		Orders:   mongoOrders{m.orders},
	}
}

type mongoUsers struct{ coll *mongo.Collection }

func (r mongoUsers) ByID(ctx context.Context, id uuid.UUID) (User, error) {
	return findOne[User](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

func (r mongoUsers) ByEmail(ctx context.Context, email string) (User, error) {
	return findOne[User](ctx, r.coll, bson.D{{Key: "email", Value: strings.ToLower(email)}})
}

func (r mongoUsers) ByResetToken(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, ErrNotFound
	}
	return findOne[User](ctx, r.coll, bson.D{{Key: "reset_token", Value: token}})
}

func (r mongoUsers) Create(ctx context.Context, u User) error {
	u.Email = strings.ToLower(u.Email)
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r mongoUsers) Update(ctx context.Context, u User) error {
	u.Email = strings.ToLower(u.Email)
	return replace(ctx, r.coll, u.ID, u)
}

type mongoProducts struct{ coll *mongo.Collection }

func (r mongoProducts) List(ctx context.Context, skip, limit int) ([]Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[Product](ctx, r.coll, bson.D{}, opts)
}

func (r mongoProducts) ListByOwner(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findAll[Product](ctx, r.coll, bson.D{{Key: "user_id", Value: userID}}, opts)
}

func (r mongoProducts) ByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	return findAll[Product](ctx, r.coll, filter, options.Find())
}

func (r mongoProducts) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r mongoProducts) ByID(ctx context.Context, id uuid.UUID) (Product, error) {
	return findOne[Product](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

func (r mongoProducts) Create(ctx context.Context, p Product) error {
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r mongoProducts) Update(ctx context.Context, p Product) error {
	return replace(ctx, r.coll, p.ID, p)
}

func (r mongoProducts) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoOrders struct{ coll *mongo.Collection }

func (r mongoOrders) Create(ctx context.Context, o Order) error {
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

func (r mongoOrders) ByID(ctx context.Context, id uuid.UUID) (Order, error) {
	return findOne[Order](ctx, r.coll, bson.D{{Key: "_id", Value: id}})
}

func (r mongoOrders) ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findAll[Order](ctx, r.coll, bson.D{{Key: "user_id", Value: userID}}, opts)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.D) (T, error) {
	var v T
	if err := coll.FindOne(ctx, filter).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return v, ErrNotFound
		}
		return v, err
	}
	return v, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, opts *options.FindOptionsBuilder) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func replace(ctx context.Context, coll *mongo.Collection, id uuid.UUID, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
