package repository_test

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// 使い捨てのPostgresを起動して接続文字列を返す
func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ecoshop_test"),
		postgres.WithUsername("ecoshop"),
		postgres.WithPassword("ecoshop"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return ctr, "", fmt.Errorf("ctr.ConnectionString: %w", err)
	}
	return ctr, connStr, nil
}
