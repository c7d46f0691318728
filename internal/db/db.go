package db

import (
	"context"
	"errors"
	"time"

	"mantisbeanstalk/internal/env"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrCacheMiss is returned by the cache helpers for absent keys.
var ErrCacheMiss = errors.New("cache miss")

var Ctx = context.Background()
var RDB *redis.Client
var Client *mongo.Client

var Audits *mongo.Collection
var Events *mongo.Collection
var HyperUsers *mongo.Collection

func InitDB() error {
	var err error

	Client, err = mongo.Connect(
		Ctx,
		options.Client().ApplyURI(env.MONGO_URI),
	)
	if err != nil {
		return err
	}

	if err = Client.Ping(Ctx, nil); err != nil {
		return err
	}

	// loading collections
	Audits = GetCollection(env.MONGO_DATABASE, "audits", Client)
	Events = GetCollection(env.MONGO_DATABASE, "events", Client)
	HyperUsers = GetCollection(env.MONGO_DATABASE, "hyperusers", Client)

	return nil
}

func GetCollection(database string, collectionName string, client *mongo.Client) *mongo.Collection {
	return client.Database(database).Collection(collectionName)
}

func InitCache() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     env.REDIS_ADDR,
		Password: "",
		DB:       env.REDIS_DB,
	})

	return RDB.Ping(Ctx).Err()
}

// RedisCache exposes a Redis client through the context-aware Get/Set pair the
// tracker client caches project users with.
type RedisCache struct {
	RDB *redis.Client
}

func (c RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.RDB.Set(ctx, key, value, ttl).Err()
}
