package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/fakeout-game/backend/internal/game"
)

const (
	lobbyKeyPrefix = "lobby:"
	codeKeyPrefix  = "lobby:code:"
	liveLobbiesKey = "lobbies"
)

// RedisStore keeps lobby records in Redis: the record itself as JSON under
// lobby:<id>, the join-code index under lobby:code:<code>, and a set of live
// lobby ids under "lobbies". All multi-key writes go through MULTI/EXEC.
type RedisStore struct {
	pool *redis.Pool
}

// NewRedis builds a store around a shared connection pool. Connections are
// dialed lazily on first use and reused for the life of the process.
func NewRedis(redisURL string) *RedisStore {
	pool := &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 4 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialURLContext(ctx, redisURL)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	return &RedisStore{pool: pool}
}

// Close releases the underlying pool. Called once on shutdown.
func (s *RedisStore) Close() error {
	return s.pool.Close()
}

func lobbyKey(id string) string   { return lobbyKeyPrefix + id }
func joinCodeKey(c string) string { return codeKeyPrefix + c }

func (s *RedisStore) Create(ctx context.Context, lobby *game.Lobby) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer conn.Close()

	data, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("marshal lobby: %w", err)
	}

	// WATCH the code key so a concurrent create with the same code aborts
	// the EXEC instead of silently clobbering the index.
	codeKey := joinCodeKey(lobby.JoinCode)
	if _, err := conn.Do("WATCH", codeKey); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	exists, err := redis.Int(conn.Do("EXISTS", codeKey))
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if exists != 0 {
		conn.Do("UNWATCH")
		return ErrDuplicateJoinCode
	}

	conn.Send("MULTI")
	conn.Send("SET", lobbyKey(lobby.ID), data)
	conn.Send("SET", codeKey, lobby.ID)
	conn.Send("SADD", liveLobbiesKey, lobby.ID)
	reply, err := conn.Do("EXEC")
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if reply == nil {
		// Transaction aborted: someone claimed the code between WATCH
		// and EXEC.
		return ErrDuplicateJoinCode
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, lobbyID string) (*game.Lobby, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	defer conn.Close()
	return loadLobby(conn, lobbyID)
}

func (s *RedisStore) LoadByJoinCode(ctx context.Context, code string) (*game.Lobby, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	defer conn.Close()

	id, err := redis.String(conn.Do("GET", joinCodeKey(code)))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return loadLobby(conn, id)
}

func (s *RedisStore) Save(ctx context.Context, lobby *game.Lobby) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer conn.Close()

	data, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("marshal lobby: %w", err)
	}

	// Full replace plus re-asserting the index entries. Repeating this is
	// harmless, which is what makes Save idempotent.
	conn.Send("MULTI")
	conn.Send("SET", lobbyKey(lobby.ID), data)
	conn.Send("SET", joinCodeKey(lobby.JoinCode), lobby.ID)
	conn.Send("SADD", liveLobbiesKey, lobby.ID)
	if _, err := conn.Do("EXEC"); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, lobbyID string) error {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer conn.Close()

	// The join code to unindex comes from the stored record, never from the
	// caller, so we can't delete some other lobby's index entry. WATCH
	// guards against the record changing between the read and the EXEC.
	for attempt := 0; attempt < 3; attempt++ {
		if _, err := conn.Do("WATCH", lobbyKey(lobbyID)); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		lobby, err := loadLobby(conn, lobbyID)
		if err != nil {
			conn.Do("UNWATCH")
			return err
		}

		conn.Send("MULTI")
		conn.Send("DEL", lobbyKey(lobbyID))
		conn.Send("DEL", joinCodeKey(lobby.JoinCode))
		conn.Send("SREM", liveLobbiesKey, lobbyID)
		reply, err := conn.Do("EXEC")
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		if reply != nil {
			return nil
		}
	}
	return fmt.Errorf("remove lobby %s: too many conflicting writes", lobbyID)
}

func loadLobby(conn redis.Conn, lobbyID string) (*game.Lobby, error) {
	data, err := redis.Bytes(conn.Do("GET", lobbyKey(lobbyID)))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	var lobby game.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, fmt.Errorf("unmarshal lobby %s: %w", lobbyID, err)
	}
	return &lobby, nil
}
