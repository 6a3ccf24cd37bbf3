package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/salon-onboarding-mcp/onboarding/contract"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPreviewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	lines := []string{"name,phone"}
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		lines = append(lines, n+",+1")
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600))

	out, err := run(t, "preview", "--type", "clients", path)
	require.NoError(t, err)
	require.Contains(t, out, "Total rows: 7")
	require.Contains(t, out, "First 5 rows")
	require.NotContains(t, out, "name: F")
	require.Contains(t, out, "Preview only. Nothing was created.")
}

func TestPreviewCommandRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1"), 0o600))

	_, err := run(t, "preview", "--type", "payroll", path)
	require.ErrorIs(t, err, contractx.ErrValidation)
}

func TestStatusCommandPrintsProgress(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ONBOARDING_STORE_DRIVER", statex.DriverBadger)
	t.Setenv("ONBOARDING_STORE_BADGER_DIR", dir)

	ctx := context.Background()
	store, err := statex.Open(ctx, statex.StoreConfig{
		Driver:    statex.DriverBadger,
		KeyPrefix: "onboarding:session:",
		Badger:    statex.BadgerConfig{Dir: dir},
	})
	require.NoError(t, err)
	_, created, err := store.CreateIfAbsent(ctx, 42, time.Now())
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, store.Close())

	out, err := run(t, "status", "--company", "42")
	require.NoError(t, err)

	var p contractx.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Equal(t, 42, p.CompanyID)
	require.Equal(t, statex.PhaseStaff, p.CurrentPhase)
	require.NotEmpty(t, p.OnboardingID)

	_, err = run(t, "status", "--company", "43")
	require.ErrorIs(t, err, statex.ErrSessionNotFound)
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	t.Setenv("ALTEGIO_PARTNER_TOKEN", "partner")

	_, err := run(t, "serve", "--ephemeral", "--transport", "carrier-pigeon")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown transport "carrier-pigeon"`)
}
