//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/pushgate/internal/model"
	repo "github.com/dtroode/pushgate/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "pushgate_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/pushgate_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_SubscriptionLifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	sr := repo.NewSubscriptionRepository(conn)
	userID := uuid.New()
	endpoint := "https://push.example.test/" + userID.String()
	p256dh := "p256dh-key"
	auth := "auth-key"

	t.Run("get before any write reports not found", func(t *testing.T) {
		_, err := sr.GetByUserID(ctx, userID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("upsert creates the record", func(t *testing.T) {
		err := sr.Upsert(ctx, model.SubscriptionRecord{
			UserID:     userID,
			Enabled:    true,
			Endpoint:   &endpoint,
			P256DHKey:  &p256dh,
			AuthKey:    &auth,
			ClientInfo: "chrome/126.0",
			UpdatedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)

		record, err := sr.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.True(t, record.Enabled)
		require.NotNil(t, record.Endpoint)
		require.Equal(t, endpoint, *record.Endpoint)
	})

	t.Run("exists by endpoint", func(t *testing.T) {
		exists, err := sr.ExistsByEndpoint(ctx, userID, endpoint)
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = sr.ExistsByEndpoint(ctx, userID, "https://push.example.test/other")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("re-upsert keeps a single row per user", func(t *testing.T) {
		newEndpoint := "https://push.example.test/replacement"
		err := sr.Upsert(ctx, model.SubscriptionRecord{
			UserID:     userID,
			Enabled:    true,
			Endpoint:   &newEndpoint,
			P256DHKey:  &p256dh,
			AuthKey:    &auth,
			ClientInfo: "chrome/127.0",
			UpdatedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)

		record, err := sr.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, newEndpoint, *record.Endpoint)

		exists, err := sr.ExistsByEndpoint(ctx, userID, endpoint)
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("disable soft-clears without deleting", func(t *testing.T) {
		require.NoError(t, sr.Disable(ctx, userID))

		record, err := sr.GetByUserID(ctx, userID)
		require.NoError(t, err)
		require.False(t, record.Enabled)
		require.Nil(t, record.Endpoint)
		require.Nil(t, record.P256DHKey)
		require.Nil(t, record.AuthKey)
	})

	t.Run("disable on an absent user reports not found", func(t *testing.T) {
		require.ErrorIs(t, sr.Disable(ctx, uuid.New()), model.ErrNotFound)
	})

	t.Run("preference flag mirror", func(t *testing.T) {
		pr := repo.NewPreferenceRepository(conn)
		require.NoError(t, pr.SetEnabled(ctx, userID, false))
		require.NoError(t, pr.SetEnabled(ctx, userID, true))
	})
}
