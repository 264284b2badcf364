package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/craftconnect/authsvc/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// Each session lives at session:<id> with a TTL; a per-user index set at
// sessions:user:<id> supports bulk revocation.
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	index  string
	ttl    time.Duration
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
		index:  "sessions:user:",
		ttl:    ttl,
	}
}

func (r *SessionRepositoryImpl) key(id string) string     { return r.prefix + id }
func (r *SessionRepositoryImpl) indexKey(uid uint) string { return fmt.Sprintf("%s%d", r.index, uid) }

// Create implements domain.SessionRepository.
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(session.ID), data, r.ttl)
	pipe.SAdd(ctx, r.indexKey(session.UserID), session.ID)
	pipe.Expire(ctx, r.indexKey(session.UserID), r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// FindByID implements domain.SessionRepository.
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if session.ExpiresAt.Before(time.Now()) {
		r.client.Del(ctx, r.key(sessionID))
		r.client.SRem(ctx, r.indexKey(session.UserID), sessionID)
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}

// Rotate implements domain.SessionRepository. The old key is watched so
// a concurrent rotation of the same session fails instead of forking it;
// the delete and the new write commit together or not at all.
func (r *SessionRepositoryImpl) Rotate(ctx context.Context, oldID string, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	txn := func(tx *redis.Tx) error {
		if err := tx.Get(ctx, r.key(oldID)).Err(); err != nil {
			if err == redis.Nil {
				return domain.ErrSessionNotFound
			}
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, r.key(oldID))
			pipe.SRem(ctx, r.indexKey(session.UserID), oldID)
			pipe.Set(ctx, r.key(session.ID), data, r.ttl)
			pipe.SAdd(ctx, r.indexKey(session.UserID), session.ID)
			pipe.Expire(ctx, r.indexKey(session.UserID), r.ttl)
			return nil
		})
		return err
	}

	err = r.client.Watch(ctx, txn, r.key(oldID))
	if err == redis.TxFailedErr {
		return domain.ErrSessionNotFound
	}
	return err
}

// Delete implements domain.SessionRepository.
func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	session, err := r.FindByID(ctx, sessionID)
	if err != nil {
		if err == domain.ErrSessionNotFound || err == domain.ErrSessionExpired {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(sessionID))
	pipe.SRem(ctx, r.indexKey(session.UserID), sessionID)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteAllForUser implements domain.SessionRepository and returns the
// number of sessions revoked.
func (r *SessionRepositoryImpl) DeleteAllForUser(ctx context.Context, userID uint) (int, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey(userID)).Result()
	if err != nil {
		return 0, err
	}

	revoked := 0
	for _, id := range ids {
		n, err := r.client.Del(ctx, r.key(id)).Result()
		if err != nil {
			return revoked, err
		}
		revoked += int(n)
	}
	if err := r.client.Del(ctx, r.indexKey(userID)).Err(); err != nil {
		return revoked, err
	}
	return revoked, nil
}

// ListByUser implements domain.SessionRepository.
func (r *SessionRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.Session, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := r.FindByID(ctx, id)
		if err != nil {
			continue // expired or pruned since listing
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// PruneUserIndex removes index entries whose session keys have expired.
// Redis reclaims the session blobs via TTL; the index set needs help.
func (r *SessionRepositoryImpl) PruneUserIndex(ctx context.Context, userID uint) (int, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey(userID)).Result()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, id := range ids {
		exists, err := r.client.Exists(ctx, r.key(id)).Result()
		if err != nil {
			return pruned, err
		}
		if exists == 0 {
			if err := r.client.SRem(ctx, r.indexKey(userID), id).Err(); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}

// UserIDs scans the index keyspace and returns every user with at least
// one recorded session.
func (r *SessionRepositoryImpl) UserIDs(ctx context.Context) ([]uint, error) {
	var (
		cursor uint64
		ids    []uint
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.index+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			raw := strings.TrimPrefix(key, r.index)
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				continue
			}
			ids = append(ids, uint(id))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}
