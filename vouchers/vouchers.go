package vouchers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"everfresh/db"
	"everfresh/models"
	"everfresh/notifications"
	"everfresh/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateVoucher adds a voucher and announces it to every active
// customer. Voucher codes are unique.
func CreateVoucher(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var voucher models.Voucher
	if err := json.NewDecoder(r.Body).Decode(&voucher); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if voucher.VoucherCode == "" || voucher.VoucherName == "" {
		http.Error(w, "voucher_code and voucher_name are required", http.StatusBadRequest)
		return
	}
	if voucher.VoucherDiscount <= 0 {
		http.Error(w, "Discount must be positive", http.StatusBadRequest)
		return
	}
	if voucher.IsPercent && voucher.VoucherDiscount > 100 {
		http.Error(w, "Percent discount cannot exceed 100", http.StatusBadRequest)
		return
	}
	if voucher.Quantity <= 0 {
		http.Error(w, "Quantity must be positive", http.StatusBadRequest)
		return
	}
	if !voucher.EndDay.After(voucher.StartDay) {
		http.Error(w, "end_day must be after start_day", http.StatusBadRequest)
		return
	}

	voucher.VoucherID = "v" + utils.GenerateRandomString(12)
	voucher.Status = models.VoucherValid
	voucher.CreatedAt = time.Now()
	voucher.UpdatedAt = voucher.CreatedAt

	if _, err := db.VouchersCollection.InsertOne(ctx, voucher); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Voucher code already exists", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create voucher", http.StatusInternalServerError)
		return
	}

	go notifications.NotifyAllCustomers(
		"New voucher available: "+voucher.VoucherName, models.NotifyNewVoucher)

	utils.RespondWithJSON(w, http.StatusCreated, voucher)
}

// GetVouchers is the customer listing: only vouchers that are valid,
// in stock and inside their window.
func GetVouchers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"status":    models.VoucherValid,
		"quantity":  bson.M{"$gt": 0},
		"start_day": bson.M{"$lte": now},
		"end_day":   bson.M{"$gte": now},
	}

	listVouchers(ctx, w, r, filter)
}

// GetAllVouchers is the admin listing.
func GetAllVouchers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	listVouchers(ctx, w, r, bson.M{})
}

func listVouchers(ctx context.Context, w http.ResponseWriter, r *http.Request, filter bson.M) {
	limit, skip := utils.ParsePagination(r, 20, 100)
	opts := options.Find().
		SetLimit(limit).
		SetSkip(skip).
		SetSort(bson.M{"created_at": -1})

	cursor, err := db.VouchersCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Could not retrieve vouchers", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Voucher
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Error reading vouchers", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Voucher{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetVoucherByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var voucher models.Voucher
	err := db.VouchersCollection.FindOne(ctx, bson.M{"voucher_id": ps.ByName("id")}).Decode(&voucher)
	if err != nil {
		http.Error(w, "Voucher not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, voucher)
}

func UpdateVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updates bson.M
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	delete(updates, "voucher_id")
	delete(updates, "created_at")
	updates["updated_at"] = time.Now()

	res, err := db.VouchersCollection.UpdateOne(ctx,
		bson.M{"voucher_id": ps.ByName("id")},
		bson.M{"$set": updates},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Voucher code already exists", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to update voucher", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Voucher not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ChangeVoucherStatus flips a voucher between VALID and IN_VALID.
func ChangeVoucherStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var voucher models.Voucher
	err := db.VouchersCollection.FindOne(ctx, bson.M{"voucher_id": ps.ByName("id")}).Decode(&voucher)
	if err != nil {
		http.Error(w, "Voucher not found", http.StatusNotFound)
		return
	}

	next := models.VoucherValid
	if voucher.Status == models.VoucherValid {
		next = models.VoucherInvalid
	}

	_, err = db.VouchersCollection.UpdateOne(ctx,
		bson.M{"voucher_id": voucher.VoucherID},
		bson.M{"$set": bson.M{"status": next, "updated_at": time.Now()}},
	)
	if err != nil {
		http.Error(w, "Failed to update voucher", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": next})
}

func DeleteVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.VouchersCollection.DeleteOne(ctx, bson.M{"voucher_id": ps.ByName("id")})
	if err != nil {
		http.Error(w, "Failed to delete voucher", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Voucher not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Voucher deleted"})
}
