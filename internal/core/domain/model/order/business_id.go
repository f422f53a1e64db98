package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"atelier/internal/pkg/errs"
)

const businessIDPrefix = "ORD-"

// NewBusinessID derives the human-facing order number from the creation instant.
func NewBusinessID(at time.Time) string {
	return businessIDPrefix + strconv.FormatInt(at.UnixMilli(), 10)
}

func validateBusinessID(id string) error {
	digits, ok := strings.CutPrefix(id, businessIDPrefix)
	if !ok || digits == "" {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%q does not start with %s", id, businessIDPrefix))
	}
	if _, err := strconv.ParseInt(digits, 10, 64); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return nil
}
