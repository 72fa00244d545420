package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	config "github.com/quizline/trivia-services/configs"
	"github.com/quizline/trivia-services/internal/triviasvc/db"
	"github.com/quizline/trivia-services/internal/triviasvc/store"
)

const SERVICE_NAME = "sweep"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	schemas := tenantSchemas()
	atomic := store.NewAtomic(dbpool)
	invites := store.NewInviteStore(dbpool)

	ctx := context.Background()
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		for _, schema := range schemas {
			expired, err := sweepSchema(ctx, atomic, invites, schema)
			if err != nil {
				log.Printf("sweep error for tenant %s: %v", schema, err)
				continue
			}
			if expired > 0 {
				log.Infof("expired %d overdue invites for tenant %s", expired, schema)
			}
		}
	}
}

func sweepSchema(ctx context.Context, atomic *store.Atomic, invites *store.InviteStore, schema string) (int64, error) {
	var expired int64
	err := atomic.Within(ctx, func(tx pgx.Tx) error {
		var err error
		expired, err = invites.ExpireOverdue(ctx, tx, schema)
		return err
	})
	return expired, err
}

// tenantSchemas lists the schemas to sweep, comma-separated in
// TENANT_SCHEMAS.
func tenantSchemas() []string {
	raw := os.Getenv("TENANT_SCHEMAS")
	if raw == "" {
		return []string{"public"}
	}

	var schemas []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			schemas = append(schemas, s)
		}
	}
	if len(schemas) == 0 {
		return []string{"public"}
	}
	return schemas
}
