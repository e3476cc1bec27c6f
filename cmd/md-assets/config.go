// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/md-assets/internal/secrets"
	"github.com/pdiddy/md-assets/pkg/types"
)

// Config keys. Each is also readable from MD_ASSETS_<KEY> with dots
// replaced by underscores, e.g. MD_ASSETS_LOCALIZE_SESSION_TOKEN.
const (
	keyHostFilter     = "localize.host_filter"
	keyPathFilter     = "localize.path_filter"
	keySessionToken   = "localize.session_token"
	keyWorkers        = "localize.workers"
	keyImagesDir      = "localize.images_dir"
	keyChunkSize      = "localize.chunk_size"
	keyRelinkExisting = "localize.relink_existing"
	keyTimeout        = "localize.timeout"
	keyUserAgent      = "localize.user_agent"

	keySlidesBackend = "slides.backend"
	keySlidesDPI     = "slides.dpi"
	keySlidesOutput  = "slides.output_dir"

	keyHistoryEnabled = "history.enabled"
	keyHistoryPath    = "history.path"
)

func setDefaults() {
	viper.SetDefault(keyHostFilter, types.DefaultHostFilter)
	viper.SetDefault(keyPathFilter, types.DefaultPathFilter)
	viper.SetDefault(keyWorkers, types.DefaultWorkers)
	viper.SetDefault(keyImagesDir, types.DefaultImagesDir)
	viper.SetDefault(keyChunkSize, types.DefaultChunkSize)
	viper.SetDefault(keyTimeout, "60s")
	viper.SetDefault(keyUserAgent, types.DefaultUserAgent)

	viper.SetDefault(keySlidesBackend, string(types.BackendFitz))
	viper.SetDefault(keySlidesDPI, types.DefaultDPI)

	viper.SetDefault(keyHistoryEnabled, true)
	viper.SetDefault(keyHistoryPath, defaultHistoryPath())
}

// defaultHistoryPath places the run ledger under the user's data directory,
// falling back to the working directory when there is no home.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".md-assets", "history.db")
	}
	return filepath.Join(home, ".local", "share", "md-assets", "history.db")
}

// loadConfig assembles the effective configuration from defaults, the config
// file, the environment, and any bound flags, in increasing precedence. The
// session token falls back to .secrets/github-user-session.
func loadConfig() types.Config {
	return types.Config{
		Localize: types.LocalizeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration(keyTimeout),
				UserAgent: viper.GetString(keyUserAgent),
			},
			HostFilter:     viper.GetString(keyHostFilter),
			PathFilter:     viper.GetString(keyPathFilter),
			SessionToken:   secretDefault(secrets.SessionKey, viper.GetString(keySessionToken)),
			Workers:        viper.GetInt(keyWorkers),
			ImagesDir:      viper.GetString(keyImagesDir),
			ChunkSize:      viper.GetInt(keyChunkSize),
			RelinkExisting: viper.GetBool(keyRelinkExisting),
		},
		Slides: types.SlidesConfig{
			Backend:   types.RasterBackend(viper.GetString(keySlidesBackend)),
			DPI:       viper.GetInt(keySlidesDPI),
			OutputDir: viper.GetString(keySlidesOutput),
		},
		History: types.HistoryConfig{
			Enabled: viper.GetBool(keyHistoryEnabled),
			Path:    viper.GetString(keyHistoryPath),
		},
	}
}

// bindFlag ties a command flag to a config key so the flag wins when set.
func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration md-assets would use after merging
defaults, md-assets.yaml, MD_ASSETS_* environment variables, .env and
.secrets/. The session token is redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(loadConfig().Redacted())
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
