package main

import (
	"fmt"
	"log"
	"os"

	"asistio.com/asistio/security"
)

func main() {
	secret := os.Getenv("ASISTIO_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("ASISTIO_SIGNING_SECRET is not set")
	}

	identity := &security.Identity{
		UserID: os.Getenv("TOKEN_USER_ID"),
		Name:   os.Getenv("TOKEN_NAME"),
		Email:  os.Getenv("TOKEN_EMAIL"),
		Role:   os.Getenv("TOKEN_ROLE"),
	}
	if identity.Role == "" {
		identity.Role = "admin"
	}

	token, err := security.CreateIdentityToken(identity, secret, 24*3600)
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	fmt.Println(token)
}
