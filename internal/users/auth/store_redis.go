// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tagmi/tagmi/internal/platform/apperr"
	"github.com/tagmi/tagmi/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements SessionRepository using Redis.
//
// Each session lives at auth:session:<tokenHash> with a TTL matching the
// refresh token lifetime, so expiry needs no cleanup job. A companion set at
// auth:user_sessions:<userID> indexes the hashes per user for bulk revocation.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

/*
Save stores a session under the hash of its refresh token.

Parameters:
  - context: context.Context
  - tokenHash: string
  - session: *Session
  - ttl: time.Duration

Returns:
  - error: Serialization or execution errors
*/
func (repository *RedisSessionRepository) Save(context context.Context, tokenHash string, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	key := constants.RedisPrefixSession + tokenHash
	indexKey := constants.RedisPrefixUserSessions + session.UserID

	// Write the session and its ownership index atomically.
	pipe := repository.client.TxPipeline()
	pipe.Set(context, key, payload, ttl)
	pipe.SAdd(context, indexKey, tokenHash)
	pipe.Expire(context, indexKey, ttl)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}

/*
Resolve returns the session stored under the given token hash.

Description: Returns apperr.NotFound if the session is absent, which covers
both "never existed" and "expired via TTL".

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionRepository) Resolve(context context.Context, tokenHash string) (*Session, error) {
	key := constants.RedisPrefixSession + tokenHash

	payload, err := repository.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_resolve_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	return session, nil
}

/*
Revoke removes one session by its token hash.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Revoke(context context.Context, userID, tokenHash string) error {
	key := constants.RedisPrefixSession + tokenHash
	indexKey := constants.RedisPrefixUserSessions + userID

	pipe := repository.client.TxPipeline()
	pipe.Del(context, key)
	pipe.SRem(context, indexKey, tokenHash)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}

	return nil
}

/*
RevokeAll removes every session owned by the user.

Description: Used when the account itself is deleted, so no device can refresh
its way back into a ghost identity.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID string) error {
	indexKey := constants.RedisPrefixUserSessions + userID

	hashes, err := repository.client.SMembers(context, indexKey).Result()
	if err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, constants.RedisPrefixSession+hash)
	}
	keys = append(keys, indexKey)

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}

	return nil
}
