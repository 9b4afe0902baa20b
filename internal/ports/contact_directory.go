package ports

import (
	"context"

	"github.com/bnema/spo-contact-sync/internal/domain"
)

type ContactDirectory interface {
	Connect(ctx context.Context, system domain.SystemID, credentials domain.Credentials) error
	Disconnect(ctx context.Context, system domain.SystemID) error
	FetchContacts(ctx context.Context, system domain.SystemID) (domain.ContactCollection, error)
	ApplyAdd(ctx context.Context, system domain.SystemID, contact domain.Contact) error
	ApplyRemove(ctx context.Context, system domain.SystemID, key string) error
	ApplyUpdate(ctx context.Context, system domain.SystemID, key string, delta domain.FieldDelta) error
}

type DirectoryFactory func(runner CommandRunner, profile domain.Profile) ContactDirectory
