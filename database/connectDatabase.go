package database

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tap-trading/tapbet-be/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var clientOnce sync.Once
var client *mongo.Client

func connect() *mongo.Client {
	config.SetupConfig()
	mongoURI := config.GlobalConfig.MongoURI
	c, err := mongo.NewClient(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = c.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	err = c.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatal(err)
	}
	databases, err := c.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Available databases: ")
	log.Println(databases)

	return c
}

// Client connects on first use so that packages importing database can be
// loaded (and tested) without a running mongo instance.
func Client() *mongo.Client {
	clientOnce.Do(func() {
		client = connect()
	})
	return client
}

func OpenCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(config.GlobalConfig.Cluster).Collection(collectionName)
}
