package mongostore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/domain/repository"
	"github.com/jhoicas/visitas-api/internal/domain/repository/repotest"
	"github.com/jhoicas/visitas-api/internal/infrastructure/mongostore"
	"github.com/jhoicas/visitas-api/pkg/config"
)

// Requiere un servidor desechable: TEST_MONGO_URI=mongodb://localhost:27017
func TestMongoStore_Contrato(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI no definido")
	}
	repotest.Run(t, func(t *testing.T) *repository.Backend {
		database := fmt.Sprintf("visitas_test_%d", time.Now().UnixNano())
		b, err := mongostore.Open(context.Background(), config.MongoConfig{URI: uri, Database: database})
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Shutdown() })
		return b
	})
}
