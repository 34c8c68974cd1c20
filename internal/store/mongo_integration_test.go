//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func TestMongo(t *testing.T) {
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := Connect(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	n := 0
	runContract(t, func(t *testing.T) Store {
		n++
		db := client.Database(fmt.Sprintf("healthcare_test_%d", n))
		t.Cleanup(func() { _ = db.Drop(context.Background()) })

		m := NewMongo(db)
		require.NoError(t, m.EnsureIndexes(ctx))
		return m
	})
}
