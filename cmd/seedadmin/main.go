package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/config"
	"github.com/mushxhid/Accounting-sub000/internal/store"
)

// Seeds one admin account. The email must also be present in ADMIN_EMAILS
// for login to succeed; this tool only provisions the credential row.
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: seedadmin -email <email> -password <password>")
	}

	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("error hashing password: %v", err)
	}

	gate := auth.NewGate(cfg.AdminEmails, cfg.SharedOrgID)
	if !gate.Allowed(*email) {
		log.Printf("warning: %s is not in ADMIN_EMAILS; login will be rejected until it is added", *email)
	}

	repo := auth.NewRepository(pool)
	id, err := repo.Insert(ctx, *email, string(hash), gate.OrgFor(*email))
	if err != nil {
		log.Fatalf("error inserting admin: %v", err)
	}

	log.Printf("admin %s created with id %s", *email, id)
}
