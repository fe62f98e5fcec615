package gormstore_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/internal/domain/repository"
	"github.com/jhoicas/visitas-api/internal/domain/repository/repotest"
	"github.com/jhoicas/visitas-api/internal/infrastructure/gormstore"
)

func TestGormStore_Contrato(t *testing.T) {
	repotest.Run(t, func(t *testing.T) *repository.Backend {
		name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		b, err := gormstore.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Shutdown() })
		return b
	})
}
