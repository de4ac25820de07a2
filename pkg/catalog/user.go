package catalog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-store-cache/pkg/cachestore"
)

// UserDoc is the stored shape of a user account. The password hash lives
// only here; it must never reach a cache entry.
type UserDoc struct {
	Name         string    `firestore:"name"`
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	Role         string    `firestore:"role"`
	IsActive     bool      `firestore:"isActive"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

// User is the public response shape, with credentials stripped.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserService caches user accounts under the "users" namespace with a long
// lifetime; account records barely churn.
type UserService struct {
	*Policy[UserDoc, User]
}

// NewUserService wires the user cache policy.
func NewUserService(cache *cachestore.Adapter, docs DocumentStore[UserDoc], logger zerolog.Logger) *UserService {
	cfg := PolicyConfig{
		Namespace:     "users",
		TTL:           TTLAccount,
		DefaultSortBy: "name",
		SearchField:   "email",
	}
	return &UserService{
		Policy: NewPolicy(cfg, cache, docs, func(doc Document[UserDoc]) User {
			return User{
				ID:        doc.ID,
				Name:      doc.Data.Name,
				Email:     doc.Data.Email,
				Role:      doc.Data.Role,
				IsActive:  doc.Data.IsActive,
				CreatedAt: doc.Data.CreatedAt,
			}
		}, logger),
	}
}
