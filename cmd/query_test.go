package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/database"
	"loandash/internal/generator"
	"loandash/internal/models"
	"loandash/internal/server"
)

func TestQueryCommand(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(server.New(database.NewMemory(generator.GenerateSeeded(500, 9, now))).Handler())
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nfile = \"\"\nlevel = \"error\"\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"query", "--config", cfgPath, "--api", srv.URL,
		"--status", "Paid", "--min-amount", "50000", "--page-size", "7", "--output", "json",
	})
	require.NoError(t, rootCmd.Execute())

	var page models.Page
	require.NoError(t, json.Unmarshal(out.Bytes(), &page))
	assert.LessOrEqual(t, len(page.Loans), 7)
	assert.NotZero(t, page.Total)
	for _, l := range page.Loans {
		assert.Equal(t, models.StatusPaid, l.Status)
		assert.GreaterOrEqual(t, l.Amount, 50000)
	}
}

func TestQueryCommandUnreachableAPI(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nfile = \"\"\nlevel = \"error\"\n"), 0o644))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"query", "--config", cfgPath, "--api", url, "--output", "json"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the loans API up at "+url)
}

func TestQueryFilterRejectsUnknownStatus(t *testing.T) {
	queryStatus = "closed"
	defer func() { queryStatus = "" }()

	_, err := queryFilter(queryCmd)
	assert.ErrorContains(t, err, "unknown status")
}
