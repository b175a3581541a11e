package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hortsatta/dot-games-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartsCollection     = "carts"
	wishListsCollection = "wish_lists"
	countersCollection  = "counters"
)

type mongoRepository struct {
	carts     *mongo.Collection
	wishLists *mongo.Collection
	counters  *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *mongoRepository {
	return &mongoRepository{
		carts:     db.Collection(cartsCollection),
		wishLists: db.Collection(wishListsCollection),
		counters:  db.Collection(countersCollection),
	}
}

func (m *mongoRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.carts.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// UpsertCart writes the whole cart row and reads it back, so cart carries the persisted id and timestamps.
func (m *mongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}

	onInsert := bson.M{"created_at": now}
	if cart.ID == 0 {
		id, err := m.nextID(ctx, cartsCollection)
		if err != nil {
			return err
		}
		onInsert["cart_id"] = id
	}

	update := bson.M{
		"$set": bson.M{
			"items":              items,
			"payment_intent_ref": cart.PaymentIntentRef,
			"client_secret":      cart.ClientSecret,
			"updated_at":         now,
		},
		"$setOnInsert": onInsert,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.Cart
	err := m.carts.FindOneAndUpdate(ctx, bson.M{"user_id": cart.OwnerID}, update, opts).Decode(&stored)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	*cart = stored
	return nil
}

func (m *mongoRepository) GetWishList(ctx context.Context, userID string) (*domain.WishList, error) {
	var list domain.WishList

	err := m.wishLists.FindOne(ctx, bson.M{"user_id": userID}).Decode(&list)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWishListNotFound
		}
		return nil, fmt.Errorf("failed to get wish list: %w", err)
	}

	return &list, nil
}

func (m *mongoRepository) UpsertWishList(ctx context.Context, list *domain.WishList) error {
	now := time.Now()
	ids := list.ProductIDs
	if ids == nil {
		ids = []int64{}
	}

	onInsert := bson.M{"created_at": now}
	if list.ID == 0 {
		id, err := m.nextID(ctx, wishListsCollection)
		if err != nil {
			return err
		}
		onInsert["wish_list_id"] = id
	}

	update := bson.M{
		"$set": bson.M{
			"product_ids": ids,
			"updated_at":  now,
		},
		"$setOnInsert": onInsert,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.WishList
	err := m.wishLists.FindOneAndUpdate(ctx, bson.M{"user_id": list.OwnerID}, update, opts).Decode(&stored)
	if err != nil {
		return fmt.Errorf("failed to upsert wish list: %w", err)
	}

	*list = stored
	return nil
}

// nextID hands out integer row ids from a per-collection sequence document.
func (m *mongoRepository) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	if _, err := m.carts.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	_, err := m.wishLists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create wish list indexes: %w", err)
	}

	return nil
}
