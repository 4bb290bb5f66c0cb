// scripts/generate_token.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/product-cart/internal/config"
	"github.com/your-org/product-cart/internal/pkg/auth"
)

// Issues a bearer token for local testing of signed-in carts and merging.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_token.go <user-id> [email]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	email := ""
	if len(os.Args) > 2 {
		email = os.Args[2]
	}

	jwtManager := auth.NewJWTManager(cfg)
	token, err := jwtManager.GenerateAccessToken(os.Args[1], email)
	if err != nil {
		log.Fatal("Error generating token:", err)
	}

	if _, err := jwtManager.ValidateAccessToken(token); err != nil {
		log.Fatal("Token verification failed:", err)
	}

	fmt.Printf("User: %s\n", os.Args[1])
	fmt.Printf("Expires in: %s\n", cfg.JWT.AccessTokenExpiry)
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println("✅ Token verified successfully!")
}
