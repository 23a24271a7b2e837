package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/lilt/internal/config"
	"github.com/tessro/lilt/internal/tui/styles"
)

var configInitInteractive bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing lilt configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including defaults and LILT_* overrides.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printf("%s\n", getConfigPath())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values.

With --interactive, a short form asks for the playlist feed, theme and
favorites database first.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  feeds.playlist_url        Playlist feed URL
  feeds.summary_url         Summary endpoint ({title} and {artist} are substituted)
  feeds.chart_base_url      Chart feed base URL
  feeds.timeout             Request timeout in seconds
  cache.ttl                 Playlist cache window in seconds
  player.sample_rate        Audio sample rate (22050, 44100, 48000)
  favorites.driver          sqlite3 or postgres
  favorites.dsn             Database DSN
  server.listen             API listen address
  tail.interval             Poll interval in milliseconds
  tui.theme                 auto, latte, frappe, macchiato or mocha
  tui.refresh_interval      Playlist refresh in milliseconds
  log.level                 debug, info, warn or error
  log.file                  Log file path

Examples:
  lilt config set tui.theme mocha
  lilt config set favorites.driver postgres`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// intKeys are config keys stored as integers.
var intKeys = map[string]bool{
	"feeds.timeout":            true,
	"cache.ttl":                true,
	"player.sample_rate":       true,
	"player.progress_interval": true,
	"auth.session_ttl":         true,
	"tail.interval":            true,
	"tui.refresh_interval":     true,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitInteractive, "interactive", "i", false, "answer a few questions first")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.Auth.Secret != "" {
		shown.Auth.Secret = "********"
	}

	if JSONOutput() {
		return printJSON(shown)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(stdout)
	encoder.Indent = "  "
	return encoder.Encode(shown)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'lilt config init' first", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	newCfg := config.Default()
	if configInitInteractive {
		if err := configForm(newCfg).Run(); err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		if err := newCfg.Validate(); err != nil {
			return err
		}
	}

	if err := writeConfigFile(configPath, newCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	printf("Created config file: %s\n", configPath)
	printf("\nNext steps:\n")
	printf("  1. Run 'lilt auth login --email you@example.com' to save favorites\n")
	printf("  2. Run 'lilt ui' to start listening\n")
	return nil
}

// configForm asks for the settings people most often change.
func configForm(c *config.Config) *huh.Form {
	themes := make([]huh.Option[string], len(styles.Themes))
	for i, t := range styles.Themes {
		themes[i] = huh.NewOption(t, t)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Playlist feed").
				Description("JSON playlist of the station to follow").
				Value(&c.Feeds.PlaylistURL),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&c.TUI.Theme),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Favorites database").
				Options(
					huh.NewOption("Local file (sqlite)", "sqlite3"),
					huh.NewOption("PostgreSQL", "postgres"),
				).
				Value(&c.Favorites.Driver),
			huh.NewInput().
				Title("Database DSN").
				Description("Leave empty for a local file").
				Value(&c.Favorites.DSN),
		),
	)
}

// writeConfigFile encodes v as TOML under a header comment.
func writeConfigFile(path string, v interface{}) error {
	var buf bytes.Buffer
	_, _ = fmt.Fprintln(&buf, "# lilt configuration")
	_, _ = fmt.Fprintln(&buf, "")

	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'lilt config init' first", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	rawConfig, err := setConfigValue(data, key, value)
	if err != nil {
		return err
	}

	if err := writeConfigFile(configPath, rawConfig); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	printf("Set %s = %s\n", key, value)
	return nil
}

// setConfigValue applies key=value to raw TOML and checks the result is a
// valid configuration.
func setConfigValue(data []byte, key, value string) (map[string]interface{}, error) {
	rawConfig := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid key format. Use 'section.key' (e.g., tui.theme)")
	}
	section, field := parts[0], parts[1]

	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		rawConfig[section] = sectionMap
	}

	if intKeys[key] {
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		sectionMap[field] = i
	} else {
		sectionMap[field] = value
	}

	// Round-trip through the typed config to catch unknown keys and bad values.
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	var check config.Config
	md, err := toml.Decode(buf.String(), &check)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key: %s", undecoded[0])
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return nil, err
	}
	return rawConfig, nil
}
