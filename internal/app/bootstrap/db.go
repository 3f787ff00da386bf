// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/openscout/badgefinder/internal/app/system/indexes"
	"github.com/openscout/badgefinder/internal/app/system/validators"
)

// ConnectDB establishes the MongoDB connection and resolves the two
// database handles. The connection is verified with a ping so that a bad
// URI fails startup instead of the first request.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("users_database", appCfg.UsersDatabase),
		zap.String("catalog_database", appCfg.CatalogDatabase))

	return DBDeps{
		MongoClient: client,
		UsersDB:     client.Database(appCfg.UsersDatabase),
		CatalogDB:   client.Database(appCfg.CatalogDatabase),
	}, nil
}

// EnsureSchema reconciles collection validators and indexes on both
// databases. It runs at startup, after ConnectDB and before handlers are
// built.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.UsersDB, deps.CatalogDB); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, deps.UsersDB, deps.CatalogDB); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
