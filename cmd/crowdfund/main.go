package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli{
		baseURL:     getEnv("CROWDFUND_API_URL", "http://localhost:8080"),
		sessionFile: getEnv("CROWDFUND_SESSION_FILE", defaultSessionFile()),
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
	}

	if err := app.run(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".crowdfund-session.json"
	}
	return filepath.Join(dir, "crowdfund", "session.json")
}

func usage() string {
	return `Usage: crowdfund <command> [arguments]

Account:
  signup <email> <password> <full name>
  signin <email> <password>
  signout
  whoami
  passwd <current> <new>
  profile [-name NAME] [-username NAME] [-avatar FILE]

Campaigns:
  campaigns
  campaign <id>
  create -title T -description D -category C -goal N -end YYYY-MM-DD [-image FILE]
  donate <campaign-id> <amount>

Testimonials:
  testimonials
  testimonial -content TEXT [-role ROLE]

Admin:
  admin stats|campaigns|donations|testimonials|profiles
  admin approve|reject|delete <campaign-id>
  admin complete <donation-id>
  admin approve-testimonial|reject-testimonial <id>
  admin feature|unfeature <testimonial-id>
  admin grant|revoke <profile-id>
`
}
