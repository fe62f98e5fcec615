package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visitas-api/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, config.BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, config.AuthModeBcrypt, cfg.Auth.Mode)
	assert.Equal(t, "admin", cfg.Auth.BootstrapIdentifier)
	assert.True(t, cfg.Auth.AllowInviteClaim)
	assert.Equal(t, config.PhonePolicyAdvisory, cfg.Clients.PhonePolicy)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_BackendDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_BACKEND", "firestore")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProviderSinAPIKey(t *testing.T) {
	v := viper.New()
	v.Set("AUTH_MODE", "provider")

	_, err := config.FromViper(v)
	assert.Error(t, err, "el modo provider exige IDENTITY_API_KEY")
}

func TestFromViper_PuertoComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("CLIENTS_PHONE_POLICY", "STRICT")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, config.PhonePolicyStrict, cfg.Clients.PhonePolicy)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/1", DBName: "visitas", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2F1@db:5432/visitas?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
