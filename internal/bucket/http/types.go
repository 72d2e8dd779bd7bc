package http

import (
	"time"

	"github.com/anurag24-26/openup/internal/bucket/domain"
)

// ErrorResponse documents the JSON error body for swagger; the actual
// writing happens through httpx.Error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// UserResponse is the public view of a user. The password hash never
// leaves the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is returned by login; the token is additionally set as a
// cookie so browser clients need not store it themselves.
type SessionResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ItemResponse is the public view of a bucket-list item.
type ItemResponse struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	OwnerID     string    `json:"owner_id"`
	CreatedBy   string    `json:"created_by"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemListResponse wraps the flat item listing.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

// UserItemsResponse is one group in the by-user listing.
type UserItemsResponse struct {
	User  UserResponse   `json:"user"`
	Tasks []ItemResponse `json:"tasks"`
}

// GroupedItemsResponse wraps the by-user listing.
type GroupedItemsResponse struct {
	UserTasks []UserItemsResponse `json:"userTasks"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func toItemResponse(it domain.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Text:        it.Text,
		Description: it.Description,
		Image:       it.Image,
		OwnerID:     it.OwnerID,
		CreatedBy:   it.CreatedBy,
		Completed:   it.Completed,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func toItemResponses(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}
