package cache

import "fmt"

// FeedKey is the key for the cached global post listing.
const FeedKey = "posts_list"

// WSTicketKey derives the key for a single-use WebSocket ticket.
func WSTicketKey(ticket string) string {
	return fmt.Sprintf("ws_ticket:%s", ticket)
}
