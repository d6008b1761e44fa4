// Command amsauth-probe exercises a session against a live auth
// service from the terminal: it checks the stored token, optionally
// logs in with supplied credentials, and prints the resulting session
// state. Useful for verifying service connectivity and token storage
// without a console UI.
//
// Configuration comes from the environment (AMSAUTH_* variables, with
// a .env file loaded when present); flags override individual values.
//
//	amsauth-probe -service https://auth.example.com -email ops@example.com -password secret
//	amsauth-probe -check-only
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/term"

	amsauth "github.com/amstrack/amsauth"
)

func main() {
	var (
		serviceURL = flag.String("service", "", "auth service base URL (overrides AMSAUTH_SERVICE_URL)")
		systemID   = flag.String("system", "", "target system identifier (overrides AMSAUTH_SYSTEM_ID)")
		email      = flag.String("email", "", "login email; empty means check the stored session only")
		password   = flag.String("password", "", "login password; prompted when omitted")
		redisAddr  = flag.String("redis-addr", "", "use a Redis token store at this address instead of the file store")
		checkOnly  = flag.Bool("check-only", false, "never log in, only validate the stored token")
		doLogout   = flag.Bool("logout", false, "end the session after the check")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := amsauth.FromEnv()
	if err != nil {
		fatal("config: %v", err)
	}
	if *serviceURL != "" {
		cfg.Service.BaseURL = *serviceURL
	}
	if *systemID != "" {
		cfg.Service.SystemID = *systemID
	}

	logger := zap.NewNop()
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fatal("logger: %v", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	builder := amsauth.New().
		WithConfig(cfg).
		WithLogger(logger).
		WithRedirect(func(loginPath string) {
			fmt.Printf("session ended; log in again at %s\n", loginPath)
		})
	if *redisAddr != "" {
		builder = builder.WithRedis(redis.NewClient(&redis.Options{Addr: *redisAddr}))
	}

	mgr, err := builder.Build()
	if err != nil {
		fatal("build: %v", err)
	}
	defer mgr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if mgr.CheckAuthStatus(ctx) {
		fmt.Println("stored session is valid")
	} else if *checkOnly || *email == "" {
		printSnapshot(mgr)
		fmt.Println("no valid session")
		os.Exit(1)
	} else {
		pass := *password
		if pass == "" {
			pass, err = promptPassword(*email)
			if err != nil {
				fatal("read password: %v", err)
			}
		}

		res := mgr.Login(ctx, amsauth.Credentials{Email: *email, Password: pass})
		if !res.Success {
			fatal("login failed: %s", res.Error)
		}
		fmt.Println("login succeeded")
	}

	printSnapshot(mgr)

	if *doLogout {
		mgr.Logout(ctx)
	}
}

func promptPassword(email string) (string, error) {
	fmt.Printf("password for %s: ", email)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func printSnapshot(mgr *amsauth.Manager) {
	snap := mgr.Snapshot()
	fmt.Printf("initialized=%v loading=%v authenticated=%v\n",
		snap.Initialized, snap.Loading, snap.User != nil)

	if snap.User == nil {
		return
	}
	fmt.Printf("user: id=%s email=%s\n", snap.User.ID, snap.User.Email)
	for _, grant := range snap.User.Roles {
		fmt.Printf("  role: system=%s role=%s\n", grant.System, grant.Role)
	}
	if role, ok := amsauth.GetSystemRole(snap.User, mgr.SystemID()); ok {
		fmt.Printf("role in %s: %s\n", mgr.SystemID(), role)
	} else {
		fmt.Printf("no role in %s\n", mgr.SystemID())
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
