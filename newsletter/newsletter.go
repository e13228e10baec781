package newsletter

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrInvalidEmail is returned if the list provider refuses the address
var ErrInvalidEmail = errors.New("invalid email")

// Repository is an interface for an email list provider
type Repository interface {
	// Subscribe adds email to the list and returns the provider's response
	Subscribe(ctx context.Context, email string) (json.RawMessage, error)
	// SubscriberCount returns the number of regular subscribers
	SubscriberCount(ctx context.Context) (int, error)
}
