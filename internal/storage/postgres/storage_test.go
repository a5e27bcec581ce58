package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/baseballgame-go/internal/storage"
	"github.com/mcoot/baseballgame-go/internal/storage/storagetest"
)

// Runs only against a disposable database named by BASEBALL_TEST_POSTGRES_URL.
func TestStorageSuite(t *testing.T) {
	url := os.Getenv("BASEBALL_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("BASEBALL_TEST_POSTGRES_URL not set")
	}

	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			ctx := context.Background()
			cfg := DefaultConfig()
			cfg.URL = url
			s, err := New(ctx, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if err := s.truncate(ctx); err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	})
}
