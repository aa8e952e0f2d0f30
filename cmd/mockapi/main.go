package main

import (
	"flag"
	"gomarketplace_admin/config"
	"gomarketplace_admin/internal/catalog/mockapi"
	"gomarketplace_admin/pkg/logger"
	"log"
	"os"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	flag.Parse()

	config.LoadDotEnv()

	creds := mockapi.Credentials{
		ApiKey:    os.Getenv("CATALOG_API_KEY"),
		JWTSecret: os.Getenv("CATALOG_JWT_SECRET"),
	}
	server := mockapi.NewServer(mockapi.DefaultSeed(), creds, logger.NewLogger(os.Stdout, "[MockAPI]"))

	log.Printf("Mock catalog API listening on %s", *addr)
	if err := server.Router().Run(*addr); err != nil {
		log.Fatalf("Server stopped: %s", err)
	}
}
