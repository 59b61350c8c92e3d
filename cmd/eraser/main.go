// Command eraser irreversibly anonymizes users that have stayed soft-removed
// past the retention window, and revokes their refresh tokens. Intended to
// run from cron.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkoval/cms-auth/internal/config"
	"github.com/mkoval/cms-auth/internal/database"
	"github.com/mkoval/cms-auth/internal/event"
	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/repository"
)

const defaultRetentionDays = 30

// userSource is the slice of repository.UserRepo the sweep needs.
type userSource interface {
	ListRemovedBefore(ctx context.Context, cutoff time.Time) ([]model.User, error)
	Erase(ctx context.Context, id uint64) error
}

// tokenRevoker drops a user's refresh tokens after erasure.
type tokenRevoker interface {
	DeleteForUser(ctx context.Context, userID uint64) error
}

// sweep erases every user soft-removed at or before the cutoff, revoking
// their refresh tokens and auditing each erasure. It returns the number of
// users erased; per-user failures are logged and skipped so one bad row
// cannot stall the batch.
func sweep(ctx context.Context, users userSource, tokens tokenRevoker, cutoff time.Time, dryRun bool) (int, error) {
	candidates, err := users.ListRemovedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Printf("eraser: %d candidate(s) removed before %s", len(candidates), cutoff.Format(time.RFC3339))

	erased := 0
	for _, u := range candidates {
		if dryRun {
			log.Printf("eraser: would erase user %d (removed %v)", u.ID, u.RemovedAt)
			continue
		}
		if err := users.Erase(ctx, u.ID); err != nil {
			// Raced with a concurrent erase or the row vanished. Not fatal
			// for the batch.
			log.Printf("eraser: user %d: %v", u.ID, err)
			continue
		}
		if err := tokens.DeleteForUser(ctx, u.ID); err != nil {
			log.Printf("eraser: revoke tokens for user %d: %v", u.ID, err)
		}
		if err := event.Publish(ctx, event.NewAuditEvent(event.KindUserErased, u.ID, 0)); err != nil {
			log.Printf("eraser: audit for user %d: %v", u.ID, err)
		}
		erased++
	}
	return erased, nil
}

func main() {
	_ = godotenv.Load()

	days := defaultRetentionDays
	if v := os.Getenv("ERASE_RETENTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Fatalf("eraser: invalid ERASE_RETENTION_DAYS: %q", v)
		}
		days = n
	}
	dryRun := flag.Bool("dry-run", false, "list candidates without erasing")
	flag.Parse()

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("eraser: database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	erased, err := sweep(ctx, repository.NewUserRepo(db), repository.NewRefreshTokenRepo(db), cutoff, *dryRun)
	if err != nil {
		log.Fatalf("eraser: %v", err)
	}
	log.Printf("eraser: erased %d user(s)", erased)
}
