package cmd

import (
	"os"
	"path/filepath"

	"github.com/chainbook/chainbook/logx"
	"github.com/spf13/cobra"
)

var rootDir string

var rootCmd = &cobra.Command{
	Use:   "chainbook",
	Short: "chainbook blockchain management CLI",
	Long:  "Command line interface for creating and managing local blockchain instances and their remote peers.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed: ", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", defaultRootDir(), "Root directory holding the blockchains")
}

func defaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chainbook"
	}
	return filepath.Join(home, ".chainbook")
}
