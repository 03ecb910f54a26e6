package main

import (
	"fmt"
	"log"

	"github.com/servinear/marketplace-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Secret Generator for Servinear Marketplace")
	fmt.Println("===========================================")
	fmt.Println()

	sessionSecret, pepper, err := utils.GenerateServerSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("✅ Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("SESSION_SECRET=%s\n", sessionSecret)
	fmt.Printf("PASSWORD_PEPPER=%s\n", pepper)
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT: Changing PASSWORD_PEPPER invalidates every stored password hash.")
	fmt.Println("⚠️  Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
