package fedcoord_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/absmach/fedcoord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc    string
		content string
		want    fedcoord.Config
		wantErr bool
	}{
		{
			desc: "full config",
			content: `
[cli]
coordinator_url = "https://fl.example.com"
tls_verification = true

[mqtt]
client_id = "c5e1"
client_key = "secret"
domain_id = "d1"
channel_id = "ch1"
`,
			want: fedcoord.Config{
				CLI: fedcoord.CLIConfig{CoordinatorURL: "https://fl.example.com", TLSVerification: true},
				MQTT: fedcoord.MQTTConfig{
					ClientID:  "c5e1",
					ClientKey: "secret",
					DomainID:  "d1",
					ChannelID: "ch1",
				},
			},
		},
		{
			desc:    "defaults kept for missing sections",
			content: "[mqtt]\nchannel_id = \"ch1\"\n",
			want: fedcoord.Config{
				CLI:  fedcoord.CLIConfig{CoordinatorURL: fedcoord.DefCoordinatorURL},
				MQTT: fedcoord.MQTTConfig{ChannelID: "ch1"},
			},
		},
		{
			desc:    "malformed toml",
			content: "[cli\ncoordinator_url = ",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			cfg, err := fedcoord.LoadConfig(writeConfig(t, tc.content))
			if tc.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *cfg)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := fedcoord.LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
