package dto

// NotificationListRequest filters a user's notification feed.
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only"`
}

// NotificationResponse is one notification as shown in the feed.
type NotificationResponse struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Message           string  `json:"message"`
	Type              string  `json:"type"`
	Read              bool    `json:"read"`
	RelatedEntityType *string `json:"related_entity_type,omitempty"`
	RelatedEntityID   *string `json:"related_entity_id,omitempty"`
	Route             string  `json:"route,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

// UnreadCountResponse is the badge counter.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
