package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giovaniif/items/infra/config"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvServiceName, config.EnvLogLevel, config.EnvStrictMissing, config.EnvLokiURL, config.EnvOTLPEndpoint} {
		t.Setenv(k, "")
	}
}

func TestRootCommandRunsSession(t *testing.T) {
	isolateEnv(t)
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader("add hello\nls\n"), &out, &errOut)
	cmd.SetArgs([]string{"--log-level", "error"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "added [ ] #1 hello (order -1)\n[ ] #1 hello (order -1)\n", out.String())
	assert.NotContains(t, errOut.String(), "item store ready")
}

func TestRootCommandStrictFlagOverridesConfig(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "items.toml")
	require.NoError(t, os.WriteFile(path, []byte("strict_missing = false\n"), 0o644))

	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader("rm 3\n"), &out, &errOut)
	cmd.SetArgs([]string{"-c", path, "--strict"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "error: item not found: id 3\n", out.String())
	assert.Contains(t, errOut.String(), `"strict_missing":true`)
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	isolateEnv(t)
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"--log-level", "loud"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Empty(t, out.String())
}

func TestStartShellLogsStructuredStartup(t *testing.T) {
	isolateEnv(t)
	var out, errOut bytes.Buffer
	cfg := config.Default()
	cfg.ServiceName = "todo"

	require.NoError(t, StartShell(context.Background(), cfg, strings.NewReader("quit\nadd never\n"), &out, &errOut))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), `"msg":"item store ready"`)
	assert.Contains(t, errOut.String(), `"service":"todo"`)
}
