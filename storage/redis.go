package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/janken-games/janken/core"
)

// RedisDB implements DB on a Redis instance, for deployments that want
// the game state in a shared store instead of a local LevelDB directory.
// Keys are stored verbatim; values are raw bytes.
type RedisDB struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisDB connects to the Redis server at addr and verifies the
// connection with a ping.
func NewRedisDB(addr string) (*RedisDB, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %q: %w", addr, err)
	}
	return &RedisDB{client: client, ctx: ctx}, nil
}

func (r *RedisDB) Get(key []byte) ([]byte, error) {
	val, err := r.client.Get(r.ctx, string(key)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (r *RedisDB) Set(key, value []byte) error {
	if err := r.client.Set(r.ctx, string(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisDB) Delete(key []byte) error {
	if err := r.client.Del(r.ctx, string(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisDB) NewIterator(prefix []byte) Iterator {
	scan := r.client.Scan(r.ctx, 0, string(prefix)+"*", 100).Iterator()
	return &redisIter{db: r, scan: scan}
}

func (r *RedisDB) Close() error {
	return r.client.Close()
}

// redisIter adapts a SCAN cursor to the Iterator interface. Values are
// fetched one key at a time; a key deleted mid-scan is skipped.
type redisIter struct {
	db   *RedisDB
	scan *redis.ScanIterator
	key  []byte
	val  []byte
	err  error
}

func (it *redisIter) Next() bool {
	for it.scan.Next(it.db.ctx) {
		key := it.scan.Val()
		val, err := it.db.client.Get(it.db.ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			it.err = err
			return false
		}
		it.key = []byte(key)
		it.val = val
		return true
	}
	it.err = it.scan.Err()
	return false
}

func (it *redisIter) Key() []byte   { return it.key }
func (it *redisIter) Value() []byte { return it.val }
func (it *redisIter) Release()      {}
func (it *redisIter) Error() error  { return it.err }
