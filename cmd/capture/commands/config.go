package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/capture-client/internal/constants"
)

// Config represents the CLI configuration.
type Config struct {
	API          string `json:"api,omitempty"            yaml:"api,omitempty"`
	Session      string `json:"session,omitempty"        yaml:"session,omitempty"`
	Username     string `json:"username,omitempty"       yaml:"username,omitempty"`
	Output       string `json:"output,omitempty"         yaml:"output,omitempty"`
	AuditNATSURL string `json:"audit_nats_url,omitempty" yaml:"audit_nats_url,omitempty"`
	AuditSubject string `json:"audit_subject,omitempty"  yaml:"audit_subject,omitempty"`
}

var configKeyHandlers = map[string]func(*Config, string){
	"api":            func(c *Config, v string) { c.API = v },
	"session":        func(c *Config, v string) { c.Session = v },
	"username":       func(c *Config, v string) { c.Username = v },
	"output":         func(c *Config, v string) { c.Output = v },
	"audit_nats_url": func(c *Config, v string) { c.AuditNATSURL = v },
	"audit_subject":  func(c *Config, v string) { c.AuditSubject = v },
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the capture CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with the session masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Session != "" {
				config.Session = constants.MaskedSecret
			}

			return renderOutput(cmd.OutOrStdout(), config, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("Property", "Value")

				_ = table.Append("API", formatValue(config.API))
				_ = table.Append("Session", formatValue(config.Session))
				_ = table.Append("Username", formatValue(config.Username))
				_ = table.Append("Output", formatValue(config.Output))
				_ = table.Append("Audit NATS URL", formatValue(config.AuditNATSURL))
				_ = table.Append("Audit Subject", formatValue(config.AuditSubject))

				return table.Render()
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + configKeyList(),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			handler, ok := configKeyHandlers[key]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			config := loadConfig()
			handler(config, value)

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			viper.Set(key, value)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value. Keys: " + configKeyList(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			handler, ok := configKeyHandlers[key]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			config := loadConfig()
			handler(config, "")

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			viper.Set(key, "")

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)

			return nil
		},
	}
}

// ConfigDir returns $HOME/.capture, creating it when missing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".capture")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	configFile = viper.GetString("config")
	if configFile != "" {
		return configFile, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.yml"), nil
}

func loadConfig() *Config {
	return &Config{
		API:          viper.GetString("api"),
		Session:      viper.GetString("session"),
		Username:     viper.GetString("username"),
		Output:       viper.GetString("output"),
		AuditNATSURL: viper.GetString("audit_nats_url"),
		AuditSubject: viper.GetString("audit_subject"),
	}
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func configKeyList() string {
	keys := make([]string, 0, len(configKeyHandlers))
	for key := range configKeyHandlers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return strings.Join(keys, ", ")
}
