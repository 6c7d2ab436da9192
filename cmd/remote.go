package cmd

import (
	"fmt"

	"github.com/chainbook/chainbook/blockchain"
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage the remote peers of a blockchain",
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <chain-name> <alias> <endpoint>",
	Short: "Register a remote peer, starting it at genesis",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := blockchain.Load(rootDir, args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		if err := b.AddPeer(args[1], args[2]); err != nil {
			return err
		}
		return b.SaveConfig()
	},
}

var remoteRemoveCmd = &cobra.Command{
	Use:   "rm <chain-name> <alias>",
	Short: "Remove a remote peer and its sync pointer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := blockchain.Load(rootDir, args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		if err := b.RemovePeer(args[1]); err != nil {
			return err
		}
		return b.SaveConfig()
	},
}

var remoteListCmd = &cobra.Command{
	Use:   "ls <chain-name>",
	Short: "List the remote peers of a blockchain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := blockchain.Load(rootDir, args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		for _, peer := range b.Peers() {
			fmt.Printf("%-16s %s\n", peer.Name, peer.Endpoint)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.AddCommand(remoteAddCmd)
	remoteCmd.AddCommand(remoteRemoveCmd)
	remoteCmd.AddCommand(remoteListCmd)
}
