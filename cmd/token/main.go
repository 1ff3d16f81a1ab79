// Command token mints an access token accepted by the events write guard.
//
//	JWT_SECRET=... go run ./cmd/token -sub ops
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/akira/events-api/internal/auth"
	"github.com/akira/events-api/internal/config"
)

func main() {
	sub := flag.String("sub", "operator", "token subject")
	role := flag.String("role", auth.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_ACCESS_TTL_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	lifetime := cfg.JWTAccessTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewManager(cfg.JWTSecret, lifetime).GenerateAccessToken(*sub, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(lifetime).UTC().Format(time.RFC3339))
}
