package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/newsdesk/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage newsdesk configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(config.ShowConfig())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print path to config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.FindConfigFile()
			if p == "" {
				return userError("No config file found", "Run 'newsdesk config init' in your site root")
			}
			fmt.Println(p)
			return nil
		},
	})

	var (
		force      bool
		contentDir string
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .newsdesk/config.toml in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			p, err := config.GenerateConfig(cwd, contentDir, force)
			if errors.Is(err, config.ErrConfigExists) {
				return userError("Config already exists at "+p, "Pass --force to overwrite it")
			}
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	initCmd.Flags().StringVar(&contentDir, "content-dir", config.DefaultContentDir, "Content directory to record, relative to the site root")
	cmd.AddCommand(initCmd)

	return cmd
}
