package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/playmatatu/plinko/internal/admin"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/database"
)

func main() {
	cfg := config.Load()

	phone := flag.String("phone", os.Getenv("ADMIN_PHONE"), "admin phone number (256...)")
	token := flag.String("token", os.Getenv("ADMIN_TOKEN"), "admin access token")
	name := flag.String("name", "Admin", "display name")
	ips := flag.String("allow-ips", os.Getenv("ADMIN_ALLOWED_IPS"), "comma separated IP allow list, empty allows any")
	flag.Parse()

	if *phone == "" {
		*phone = "256700000000"
		log.Printf("Using default admin phone: %s", *phone)
	}
	if *token == "" {
		if cfg.Environment == "production" {
			log.Fatal("ADMIN_TOKEN must be set in production")
		}
		*token = "change-me-in-production"
		log.Printf("WARNING: Using default admin token. Set ADMIN_TOKEN in production!")
	}

	allowed := []string{}
	for _, ip := range strings.Split(*ips, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			allowed = append(allowed, ip)
		}
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	roles := []string{"super_admin"}
	if err := admin.CreateAdminAccount(db, *phone, *name, *token, roles, allowed); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Admin account created/updated")
	log.Printf("  Phone: %s", *phone)
	log.Printf("  Roles: %v", roles)
	log.Printf("  Allowed IPs: %v", allowed)
	log.Println("Send X-Admin-Phone and X-Admin-Token headers to /api/v1/admin")
}
