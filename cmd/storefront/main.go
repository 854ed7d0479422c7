package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kugihands/internal/catalog"
	"kugihands/internal/checkout"
	"kugihands/internal/kvstore"
	"kugihands/internal/store"
)

type application struct {
	errorLog  *log.Logger
	infoLog   *log.Logger
	catalog   []catalog.Product
	auth      *store.Auth
	favorites *store.Favorites
	cart      *store.Cart
	orders    *store.Orders
	checkout  *checkout.Checkout
}

func main() {
	// .env is optional; flags and defaults cover everything it can set.
	_ = godotenv.Load()

	dataPath := flag.String("data", envOr("KUGIHANDS_DATA", "kugihands.json"), "path of the JSON data file")
	mongoURI := flag.String("mongo", os.Getenv("MONGO_URI"), "MongoDB URI (overrides -data)")
	redisAddr := flag.String("redis", os.Getenv("REDIS_ADDR"), "Redis address (overrides -data)")
	catalogPath := flag.String("catalog", os.Getenv("KUGIHANDS_CATALOG"), "YAML catalog file (defaults to the built-in inventory)")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	kv, err := openStore(*mongoURI, *redisAddr, *dataPath, infoLog)
	if err != nil {
		errorLog.Fatal(err)
	}

	products := catalog.Default()
	if *catalogPath != "" {
		products, err = catalog.LoadFile(*catalogPath)
		if err != nil {
			errorLog.Fatal(err)
		}
	}

	auth := store.NewAuth(kv, errorLog)
	cart := store.NewCart()
	orders := store.NewOrders(kv, errorLog)

	app := &application{
		errorLog:  errorLog,
		infoLog:   infoLog,
		catalog:   products,
		auth:      auth,
		favorites: store.NewFavorites(kv, auth, errorLog),
		cart:      cart,
		orders:    orders,
		checkout:  checkout.New(cart, auth, orders),
	}

	infoLog.Printf("Kugihands storefront ready (%d products)", len(products))
	app.repl(bufio.NewScanner(os.Stdin))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openStore(mongoURI, redisAddr, dataPath string, infoLog *log.Logger) (kvstore.Store, error) {
	switch {
	case mongoURI != "":
		client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
		if err != nil {
			return nil, err
		}
		if err := client.Ping(context.TODO(), nil); err != nil {
			return nil, err
		}
		infoLog.Println("Connected to MongoDB")
		return kvstore.NewMongo(client.Database("kugihands").Collection("storefront")), nil
	case redisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(context.TODO()).Err(); err != nil {
			return nil, err
		}
		infoLog.Println("Connected to Redis")
		return kvstore.NewRedis(client), nil
	default:
		return kvstore.OpenFile(dataPath)
	}
}
