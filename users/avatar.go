package users

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"everfresh/db"
	"everfresh/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	avatarDir  = "./static/userpic"
	avatarSize = 256
)

// UploadAvatar accepts an image file, crops it to a square thumbnail
// and stores it under a fresh name so stale CDN caches never show an
// old picture.
func UploadAvatar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "avatar file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	src, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Could not decode image", http.StatusBadRequest)
		return
	}
	thumb := imaging.Fill(src, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	if err := utils.EnsureDir(avatarDir); err != nil {
		http.Error(w, "Failed to store avatar", http.StatusInternalServerError)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	filename := userID + "-" + utils.GenerateRandomString(8) + ".jpg"
	if err := imaging.Save(thumb, filepath.Join(avatarDir, filename)); err != nil {
		http.Error(w, "Failed to store avatar", http.StatusInternalServerError)
		return
	}

	avatarURL := "/static/userpic/" + filename
	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"avatar_url": avatarURL, "updated_at": time.Now()}},
	)
	if err != nil {
		http.Error(w, "Failed to store avatar", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"avatar_url": avatarURL})
}
