package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/client"
	"github.com/servinear/marketplace-backend/internal/models"
)

const smokePassword = "smoke-test-123"

var httpTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	var (
		baseURL       string
		adminUsername string
		adminPassword string
		timeout       time.Duration
	)
	flag.StringVar(&baseURL, "url", envOr("SMOKE_BASE_URL", "http://localhost:8080"), "Server base URL")
	flag.StringVar(&adminUsername, "admin", envOr("SEED_ADMIN_USERNAME", "admin"), "Admin username")
	flag.StringVar(&adminPassword, "admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "Admin password")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()

	httpTimeout = timeout

	fmt.Println("🧪 Marketplace Smoke Test")
	fmt.Println("=========================")
	fmt.Printf("Server: %s\n\n", baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	suffix := time.Now().Format("150405")

	if !checkHealth(ctx, baseURL) {
		os.Exit(1)
	}

	provider, service, ok := runModerationScenario(ctx, baseURL, adminUsername, adminPassword, suffix)
	if !ok {
		os.Exit(1)
	}
	if !runBookingScenario(ctx, baseURL, provider, service, suffix) {
		os.Exit(1)
	}

	fmt.Println("✅ All smoke checks passed")
}

func checkHealth(ctx context.Context, baseURL string) bool {
	fmt.Println("💓 Health")
	fmt.Println("---------")

	c := mustClient(baseURL)
	if err := c.Health(ctx); err != nil {
		fmt.Printf("  ❌ Health check failed: %v\n\n", err)
		return false
	}
	fmt.Println("  ✅ Server healthy")
	fmt.Println()
	return true
}

// runModerationScenario registers a provider offer and walks it through approval
func runModerationScenario(ctx context.Context, baseURL, adminUsername, adminPassword, suffix string) (*models.User, *models.Service, bool) {
	fmt.Println("🛠️  Provider registration and approval")
	fmt.Println("--------------------------------------")

	providerClient := mustClient(baseURL)
	countries, err := providerClient.Countries(ctx)
	if err != nil {
		fmt.Printf("  ❌ Country list failed: %v\n\n", err)
		return nil, nil, false
	}
	fmt.Printf("  ✅ %d countries available\n", len(countries))

	services, err := providerClient.Services(ctx)
	if err != nil || len(services) == 0 {
		fmt.Printf("  ❌ No service categories available (err=%v)\n\n", err)
		return nil, nil, false
	}
	service := services[len(services)-1]
	fmt.Printf("  ✅ Using service %d (%s)\n", service.ID, service.Slug)

	bob, err := providerClient.Register(ctx, api.RegisterRequest{
		Username: "bob" + suffix,
		Password: smokePassword,
		Name:     "Bob " + suffix,
		Role:     string(models.RoleProvider),
	})
	if err != nil {
		fmt.Printf("  ❌ Provider registration failed: %v\n\n", err)
		return nil, nil, false
	}
	fmt.Printf("  ✅ Provider %s registered (id=%d)\n", bob.Username, bob.ID)

	offer, err := providerClient.RegisterService(ctx, api.RegisterServiceRequest{ServiceID: service.ID})
	if err != nil {
		fmt.Printf("  ❌ Service registration failed: %v\n\n", err)
		return nil, nil, false
	}
	fmt.Printf("  ✅ Offer %d submitted with status %s\n", offer.ID, offer.Status)

	admin := mustClient(baseURL)
	if _, err := admin.Login(ctx, adminUsername, adminPassword); err != nil {
		fmt.Printf("  ❌ Admin login failed: %v\n\n", err)
		return nil, nil, false
	}

	pending, err := admin.PendingServices(ctx)
	if err != nil {
		fmt.Printf("  ❌ Pending list failed: %v\n\n", err)
		return nil, nil, false
	}
	found := false
	for _, p := range pending {
		if p.ID == offer.ID && p.Status == models.ApprovalPending {
			found = true
			break
		}
	}
	if !found {
		fmt.Printf("  ❌ Offer %d missing from the pending list\n\n", offer.ID)
		return nil, nil, false
	}
	fmt.Printf("  ✅ Offer %d visible to admin as pending\n", offer.ID)

	if _, err := admin.SetApproval(ctx, offer.ID, models.ApprovalApproved); err != nil {
		fmt.Printf("  ❌ Approval failed: %v\n\n", err)
		return nil, nil, false
	}
	fmt.Printf("  ✅ Offer %d approved\n", offer.ID)

	providers, err := admin.Providers(ctx, models.ProviderFilter{ServiceID: &service.ID})
	if err != nil {
		fmt.Printf("  ❌ Provider search failed: %v\n\n", err)
		return nil, nil, false
	}
	listed := false
	for _, p := range providers {
		if p.ID == bob.ID {
			listed = true
			break
		}
	}
	if !listed {
		fmt.Printf("  ❌ Provider %d not listed for service %d\n\n", bob.ID, service.ID)
		return nil, nil, false
	}
	fmt.Printf("  ✅ Provider listed under service %d\n\n", service.ID)

	return bob, &service, true
}

// runBookingScenario registers a client, logs in again and books the provider
func runBookingScenario(ctx context.Context, baseURL string, provider *models.User, service *models.Service, suffix string) bool {
	fmt.Println("📅 Client booking")
	fmt.Println("-----------------")

	c := mustClient(baseURL)
	username := "alice" + suffix
	alice, err := c.Register(ctx, api.RegisterRequest{Username: username, Password: smokePassword, Name: "Alice " + suffix})
	if err != nil {
		fmt.Printf("  ❌ Client registration failed: %v\n\n", err)
		return false
	}
	fmt.Printf("  ✅ Client %s registered (id=%d, role=%s)\n", alice.Username, alice.ID, alice.Role)

	if err := c.Logout(ctx); err != nil {
		fmt.Printf("  ❌ Logout failed: %v\n\n", err)
		return false
	}
	if _, err := c.Login(ctx, username, smokePassword); err != nil {
		fmt.Printf("  ❌ Login failed: %v\n\n", err)
		return false
	}
	fmt.Println("  ✅ Logged in again")

	when := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Hour)
	booking, err := c.CreateBooking(ctx, api.CreateBookingRequest{
		ProviderID:    provider.ID,
		ServiceID:     service.ID,
		ScheduledDate: &when,
	})
	if err != nil {
		fmt.Printf("  ❌ Booking failed: %v\n\n", err)
		return false
	}
	fmt.Printf("  ✅ Booking %d created with status %s\n", booking.ID, booking.Status)

	bookings, err := c.Bookings(ctx)
	if err != nil {
		fmt.Printf("  ❌ Booking list failed: %v\n\n", err)
		return false
	}
	if len(bookings) != 1 || bookings[0].Status != models.BookingPending || bookings[0].ClientID != alice.ID {
		fmt.Printf("  ❌ Expected one pending booking for client %d, got %+v\n\n", alice.ID, bookings)
		return false
	}
	fmt.Println("  ✅ Booking list shows exactly one pending booking")
	fmt.Println()
	return true
}

func mustClient(baseURL string) *client.Client {
	c, err := client.New(baseURL, client.WithHTTPClient(&http.Client{Timeout: httpTimeout}))
	if err != nil {
		fmt.Printf("❌ Failed to create client: %v\n", err)
		os.Exit(1)
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
