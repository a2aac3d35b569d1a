// In file: internal/session/store.go

// Package session persists per-conversation chat history in Redis so the
// explanation tier can carry context across turns without any process-wide
// shared state.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/econosage/gateway/internal/llm"
)

const (
	// sessionTTL is the idle lifetime of a conversation. Every load or
	// save refreshes it, so active chats never expire mid-conversation.
	sessionTTL = 1 * time.Hour

	// maxHistoryMessages caps how many messages a session retains. Older
	// turns are dropped oldest-first to keep prompts within model limits.
	maxHistoryMessages = 40
)

// Store reads and writes conversation histories keyed by conversation ID.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Load returns the stored history for a conversation. A missing key or an
// empty conversation ID yields an empty history, never an error: a broken
// session store degrades to a context-free answer, not a failed request.
func (s *Store) Load(ctx context.Context, conversationID string) []llm.Message {
	if conversationID == "" {
		return nil
	}
	raw, err := s.rdb.Get(ctx, sessionKey(conversationID)).Result()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		log.Printf("⚠️ Failed to load session %s: %v", conversationID, err)
		return nil
	}

	var history []llm.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		log.Printf("⚠️ Corrupt session history for %s, starting fresh: %v", conversationID, err)
		return nil
	}
	s.refreshTTL(ctx, conversationID)
	return history
}

// Save replaces the stored history for a conversation, trimming to the
// retention cap first. A blank conversation ID means a one-off query with
// nothing to persist.
func (s *Store) Save(ctx context.Context, conversationID string, history []llm.Message) {
	if conversationID == "" {
		return
	}
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	raw, err := json.Marshal(history)
	if err != nil {
		log.Printf("⚠️ Failed to encode session history for %s: %v", conversationID, err)
		return
	}
	if err := s.rdb.Set(ctx, sessionKey(conversationID), raw, sessionTTL).Err(); err != nil {
		log.Printf("⚠️ Failed to save session %s: %v", conversationID, err)
	}
}

// Clear removes a conversation's history entirely.
func (s *Store) Clear(ctx context.Context, conversationID string) {
	if conversationID == "" {
		return
	}
	if err := s.rdb.Del(ctx, sessionKey(conversationID)).Err(); err != nil {
		log.Printf("⚠️ Failed to clear session %s: %v", conversationID, err)
	}
}

func (s *Store) refreshTTL(ctx context.Context, conversationID string) {
	s.rdb.Expire(ctx, sessionKey(conversationID), sessionTTL)
}

func sessionKey(conversationID string) string {
	return fmt.Sprintf("session:%s", conversationID)
}
