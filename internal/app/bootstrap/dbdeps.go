// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database dependencies for the app. The client is shared;
// the two database handles point at the users store and the badge catalog.
type DBDeps struct {
	MongoClient *mongo.Client
	UsersDB     *mongo.Database
	CatalogDB   *mongo.Database
}
