package usersync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/focusnest/webhook-service/internal/clerk"
)

// Functions returns the handlers keyed to the Clerk events that trigger them.
func Functions(svc Service) []Function {
	return []Function{
		{
			ID:    "sync-user-from-clerk",
			Name:  "Sync User Creation",
			Event: clerk.EventName(clerk.TypeUserCreated),
			Handle: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var data clerk.UserData
				if err := decode(raw, &data); err != nil {
					return nil, err
				}
				return svc.SyncCreation(ctx, data)
			},
		},
		{
			ID:    "update-user-from-clerk",
			Name:  "Sync User Updation",
			Event: clerk.EventName(clerk.TypeUserUpdated),
			Handle: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var data clerk.UserData
				if err := decode(raw, &data); err != nil {
					return nil, err
				}
				return svc.SyncUpdate(ctx, data)
			},
		},
		{
			ID:    "delete-user-with-clerk",
			Name:  "Sync User Deletion",
			Event: clerk.EventName(clerk.TypeUserDeleted),
			Handle: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var data clerk.DeletedObject
				if err := decode(raw, &data); err != nil {
					return nil, err
				}
				return svc.SyncDeletion(ctx, data)
			},
		},
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty data", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
