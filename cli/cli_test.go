package cli_test

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/fedcoord/cli"
	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/coordinator/api"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/absmach/fedcoord/pkg/sdk"
	"github.com/absmach/fedcoord/pkg/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()

	color.NoColor = true

	cfg := coordinator.DefaultConfig()
	cfg.MinUpdates = 1
	cfg.Shape = fl.Shape{Features: 1, Categories: 2}
	cfg.Init.Strategy = fl.InitZeros

	svc, err := coordinator.NewService(cfg, fl.NewFedAvgAggregator(), storage.NewInMemoryStorage(), nil, slog.Default())
	require.NoError(t, err)

	ts := httptest.NewServer(api.MakeHandler(svc, slog.Default(), "cli"))
	t.Cleanup(ts.Close)

	cli.SetSDK(sdk.NewSDK(sdk.Config{CoordinatorURL: ts.URL}))
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	return stdout.String(), stderr.String()
}

func TestTrainAndInspect(t *testing.T) {
	setup(t)

	path := filepath.Join(t.TempDir(), "update.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weights":[[0.5,1.5]],"bias":[1,2]}`), 0o600))

	out, errOut := run(t, cli.NewTrainCmd(), "submit", path, "--client-id", "edge-1", "--sample-size", "4")
	assert.Empty(t, errOut)
	assert.Contains(t, out, `"aggregated"`)
	assert.Contains(t, out, `"version": 2`)

	out, _ = run(t, cli.NewModelCmd(), "get")
	assert.Contains(t, out, "1.5")

	out, _ = run(t, cli.NewModelCmd(), "status")
	assert.Contains(t, out, `"min_updates": 1`)

	out, _ = run(t, cli.NewRoundsCmd(), "view", "2")
	assert.Contains(t, out, `"edge-1"`)
	assert.Contains(t, out, `"total_samples": 4`)

	out, _ = run(t, cli.NewRoundsCmd(), "list", "--limit", "5")
	assert.Contains(t, out, `"total": 1`)
}

func TestCommandErrors(t *testing.T) {
	setup(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weights":[[1]],"bias":[1,2]}`), 0o600))

	_, errOut := run(t, cli.NewTrainCmd(), "submit", path)
	assert.Contains(t, errOut, "ShapeMismatch")

	_, errOut = run(t, cli.NewRoundsCmd(), "view", "abc")
	assert.Contains(t, errOut, "error:")

	_, errOut = run(t, cli.NewRoundsCmd(), "view", "7")
	assert.Contains(t, errOut, "NotFound")

	out, _ := run(t, cli.NewRoundsCmd(), "view")
	assert.Contains(t, out, "usage: view <version>")
}
