package redis

import (
	"fmt"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
)

// Key prefix for all race-related data
const keyPrefix = "cjsr"

// promptsKey returns the Redis key for the prompt pool list
func promptsKey() string {
	return fmt.Sprintf("%s:prompts", keyPrefix)
}

// summariesKey returns the Redis key for a room's completed-race history
func summariesKey(roomID model.RoomID) string {
	return fmt.Sprintf("%s:summaries:%s", keyPrefix, roomID)
}
