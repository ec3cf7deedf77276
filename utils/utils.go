package utils

import (
	rndm "math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var digitRunes = []rune("0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

func GetUUID() string {
	return uuid.New().String()
}

// --- Pagination ---

func ParsePagination(r *http.Request, defLimit, maxLimit int64) (limit, skip int64) {
	q := r.URL.Query()
	limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit <= 0 || limit > maxLimit {
		limit = defLimit
	}
	skip, _ = strconv.ParseInt(q.Get("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}

// FormatVND renders an amount as grouped Vietnamese dong, e.g. "1.250.000 VND".
func FormatVND(amount float64) string {
	n := int64(amount + 0.5)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	return sign + string(out) + " VND"
}

// --- Uploads ---

func ValidateImageFileType(w http.ResponseWriter, header *multipart.FileHeader) bool {
	switch header.Header.Get("Content-Type") {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	http.Error(w, "Unsupported image type", http.StatusBadRequest)
	return false
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func Contains(slice []string, value string) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}
