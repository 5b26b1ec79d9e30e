package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/salusapp/salus_backend/config"
	"github.com/salusapp/salus_backend/pkg/authorize"
)

// NewInitCommand writes the Casbin model and policy files a fresh
// deployment needs before the server or the migrator can run.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write initial authorization files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			auth := cfg.Authorization
			if err := writeIfAbsent(auth.CasbinModelPath, authorize.DefaultModel); err != nil {
				return fmt.Errorf("failed to write casbin model: %w", err)
			}
			if err := writeIfAbsent(auth.CasbinPolicyPath, ""); err != nil {
				return fmt.Errorf("failed to write casbin policy: %w", err)
			}

			fmt.Println("Authorization files initialized.")
			return nil
		},
	}

	return cmd
}

func writeIfAbsent(path, content string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("%s already exists, leaving it untouched.\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
