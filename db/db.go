package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection            *mongo.Collection
	PlantsCollection          *mongo.Collection
	PlantersCollection        *mongo.Collection
	SeedsCollection           *mongo.Collection
	GenusCollection           *mongo.Collection
	PlantTypesCollection      *mongo.Collection
	CartsCollection           *mongo.Collection
	CartItemsCollection       *mongo.Collection
	OrdersCollection          *mongo.Collection
	VouchersCollection        *mongo.Collection
	RatingsCollection         *mongo.Collection
	NotificationsCollection   *mongo.Collection
	DeliveryMethodsCollection *mongo.Collection
	DeliveryInfoCollection    *mongo.Collection
	LinkedInfoCollection      *mongo.Collection
	CollectionsCollection     *mongo.Collection
	GalleriesCollection       *mongo.Collection
	PaymentReceiptsCollection *mongo.Collection
	Client                    *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("everfresh")
	UserCollection = database.Collection("users")
	PlantsCollection = database.Collection("plants")
	PlantersCollection = database.Collection("planters")
	SeedsCollection = database.Collection("seeds")
	GenusCollection = database.Collection("genus")
	PlantTypesCollection = database.Collection("planttypes")
	CartsCollection = database.Collection("carts")
	CartItemsCollection = database.Collection("cartitems")
	OrdersCollection = database.Collection("orders")
	VouchersCollection = database.Collection("vouchers")
	RatingsCollection = database.Collection("ratings")
	NotificationsCollection = database.Collection("notifications")
	DeliveryMethodsCollection = database.Collection("deliverymethods")
	DeliveryInfoCollection = database.Collection("deliveryinfo")
	LinkedInfoCollection = database.Collection("linkedinfo")
	CollectionsCollection = database.Collection("collections")
	GalleriesCollection = database.Collection("galleries")
	PaymentReceiptsCollection = database.Collection("paymentreceipts")
}

// EnsureIndexes creates the unique and TTL indexes the handlers rely on.
// Duplicate-key errors from these indexes are mapped to domain conflicts
// (email taken, voucher code exists, already rated, replayed callback).
func EnsureIndexes(ctx context.Context) error {
	if _, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true).SetName("unique_email"),
	}); err != nil {
		return err
	}

	if _, err := VouchersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"voucher_code": 1},
		Options: options.Index().SetUnique(true).SetName("unique_voucher_code"),
	}); err != nil {
		return err
	}

	if _, err := LinkedInfoCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"card_number": 1},
		Options: options.Index().SetUnique(true).SetName("unique_card_number"),
	}); err != nil {
		return err
	}

	if _, err := DeliveryMethodsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"delivery_method_name": 1},
		Options: options.Index().SetUnique(true).SetName("unique_method_name"),
	}); err != nil {
		return err
	}

	// One rating per (order, product, user); the insert races the existence
	// check, so uniqueness is enforced here rather than in the handler.
	if _, err := RatingsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "product_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_rating"),
	}); err != nil {
		return err
	}

	// Processed-transaction ledger: unique per provider transaction, expired
	// entries reaped by Mongo's TTL monitor.
	_, err := PaymentReceiptsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_txn"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	})
	return err
}
