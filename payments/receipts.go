package payments

import (
	"context"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const receiptRetention = 30 * 24 * time.Hour

// findReceipt looks up a prior settlement of the same provider
// transaction. A hit means the callback is a replay.
func findReceipt(ctx context.Context, provider, transactionID string) (models.PaymentReceipt, bool, error) {
	var receipt models.PaymentReceipt
	err := db.PaymentReceiptsCollection.FindOne(ctx, bson.M{
		"provider":       provider,
		"transaction_id": transactionID,
	}).Decode(&receipt)
	if err == mongo.ErrNoDocuments {
		return models.PaymentReceipt{}, false, nil
	}
	if err != nil {
		return models.PaymentReceipt{}, false, err
	}
	return receipt, true, nil
}

// newReceipt builds the idempotency record for a provider transaction.
// The unique index on (provider, transaction_id) makes concurrent
// duplicates impossible; the second writer sees a duplicate-key error.
func newReceipt(provider, transactionID, orderRef string) models.PaymentReceipt {
	now := time.Now()
	return models.PaymentReceipt{
		ReceiptID:     "rc" + utils.GenerateRandomString(12),
		Provider:      provider,
		TransactionID: transactionID,
		OrderRef:      orderRef,
		CreatedAt:     now,
		ExpiresAt:     now.Add(receiptRetention),
	}
}

// isDuplicateKeyError unwraps mongo write errors looking for code 11000.
func isDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
