package payments

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "DN-"

// NewOrderNumber returns a human-readable order number: DN-YYYYMMDD-XXXXXXXX.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return orderNumberPrefix + now.UTC().Format("20060102") + "-" + suffix
}
