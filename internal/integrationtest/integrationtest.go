// Package integrationtest provides store helpers used in integration tests.
package integrationtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/go-petr/safebank/pkg/configpkg"
	"github.com/go-petr/safebank/pkg/dbpkg"
	"github.com/go-petr/safebank/pkg/randompkg"
)

// LoadConfig loads configs/app.env relative to the calling test package.
func LoadConfig(t *testing.T, path string) configpkg.Config {
	t.Helper()

	config, err := configpkg.Load(path)
	if err != nil {
		t.Fatalf("configpkg.Load(%q) returned error: %v", path, err)
	}

	return config
}

// Flush flushes all db tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec(`TRUNCATE TABLE accounts`); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupDB sets up connection with database for testing and then cleans it.
func SetupDB(t *testing.T, driver, source string) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// SetupRedis connects to redis and returns a key prefix unique to the test.
//
// Keys under the prefix are removed once the test is done.
func SetupRedis(t *testing.T, rawURL string) (*redis.Client, string) {
	t.Helper()

	client, err := dbpkg.SetupRedis(rawURL)
	if err != nil {
		t.Fatalf("redis initialization failed. err: %v", err)
	}

	prefix := "safebank-test-" + randompkg.String(8)

	t.Cleanup(func() {
		ctx := context.Background()

		iter := client.Scan(ctx, 0, prefix+":*", 100).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}

		if err := iter.Err(); err != nil {
			t.Errorf("redis cleanup failed. err: %v", err)
		}

		if err := client.Close(); err != nil {
			t.Errorf("redis.Close() failed: %v", err)
		}
	})

	return client, prefix
}
