package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// UserSyncRequest is POST /user-sync's request body (§4.4, §6).
type UserSyncRequest struct {
	Action string       `json:"action"`
	User   UserSyncUser `json:"user"`
}

type UserSyncUser struct {
	MembershipNumber uint64  `json:"mitgliedsnr"`
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	IsActive         *bool   `json:"is_active"`
	UpdatedAt        *string `json:"updated_at"` // ISO 8601
}

// UserSyncResponse is POST /user-sync's response body.
type UserSyncResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// DecodeUserSync parses raw JSON into a store action and payload.
func DecodeUserSync(raw []byte) (store.SyncAction, store.UserPayload, error) {
	var req UserSyncRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return "", store.UserPayload{}, fmt.Errorf("wire: malformed user-sync request: %w", err)
	}

	var action store.SyncAction
	switch req.Action {
	case "upsert":
		action = store.SyncUpsert
	case "delete":
		action = store.SyncDelete
	default:
		return "", store.UserPayload{}, fmt.Errorf("wire: unknown user-sync action %q", req.Action)
	}

	payload := store.UserPayload{
		MembershipNumber: req.User.MembershipNumber,
		Name:             req.User.Name,
		Email:            req.User.Email,
		IsActive:         req.User.IsActive,
	}
	if req.User.UpdatedAt != nil {
		t, err := time.Parse(time.RFC3339, *req.User.UpdatedAt)
		if err != nil {
			return "", store.UserPayload{}, fmt.Errorf("wire: malformed updated_at: %w", err)
		}
		unix := t.Unix()
		payload.UpdatedAt = &unix
	}

	return action, payload, nil
}
