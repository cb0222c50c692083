package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/security"
)

// issue-token mints an access token for local testing, signed with the
// secret from the given config.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	userID := flag.Int("user", 2, "Principal ID to issue the token for")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenExpiry())
	token, err := tokenManager.GenerateAccessToken(int32(*userID))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User ID:    %d\n", *userID)
	fmt.Printf("Expires in: %s\n", cfg.AccessTokenExpiry())
	fmt.Printf("\nToken:\n%s\n", token)
	fmt.Printf("\nAuthorization: Bearer %s\n", token)
	fmt.Printf("\nExample:\n")
	fmt.Printf("curl -X POST 'http://%s/api/Rent/New/1?rentType=Minutes&duration=30' \\\n", cfg.GetHTTPAddress())
	fmt.Printf("  -H 'Authorization: Bearer %s'\n", token)
}
