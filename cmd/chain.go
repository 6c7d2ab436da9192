package cmd

import (
	"fmt"

	"github.com/chainbook/chainbook/block"
	"github.com/chainbook/chainbook/blockchain"
	"github.com/chainbook/chainbook/config"
	"github.com/chainbook/chainbook/logx"
	"github.com/spf13/cobra"
)

var (
	newGenesis     string
	newGenesisPrev string
	newEpochStart  uint64
)

var newCmd = &cobra.Command{
	Use:   "new <chain-name>",
	Short: "Create a new local blockchain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		genesis, err := block.ParseHash(newGenesis)
		if err != nil {
			return err
		}
		genesisPrev := block.Hash{}
		if newGenesisPrev != "" {
			if genesisPrev, err = block.ParseHash(newGenesisPrev); err != nil {
				return err
			}
		}

		b, err := blockchain.Create(rootDir, args[0], &config.ChainConfig{
			Genesis:     genesis,
			GenesisPrev: genesisPrev,
			EpochStart:  newEpochStart,
		})
		if err != nil {
			return err
		}
		defer b.Close()

		fmt.Printf("created blockchain %s in %s\n", b.Name, b.Dir)
		return nil
	},
}

var destroyCmd = &cobra.Command{
	Use:   "destroy <chain-name>",
	Short: "Irreversibly delete a local blockchain and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := blockchain.Load(rootDir, args[0])
		if err != nil {
			return err
		}
		if err := b.Destroy(); err != nil {
			return err
		}
		fmt.Printf("destroyed blockchain %s\n", args[0])
		return nil
	},
}

var tipCmd = &cobra.Command{
	Use:   "tip <chain-name>",
	Short: "Show the local tip and every peer's last-synced tip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := blockchain.Load(rootDir, args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		tip, isGenesis, err := b.LoadLocalTip()
		if err != nil {
			return err
		}
		printTip("local", tip, isGenesis)

		tips, err := b.LoadRemoteTips()
		if err != nil {
			return err
		}
		for _, remote := range tips {
			printTip(remote.Peer, remote.Ref, remote.IsGenesis)
		}
		return nil
	},
}

func printTip(owner string, ref block.Ref, isGenesis bool) {
	marker := ""
	if isGenesis {
		marker = " (genesis)"
	}
	fmt.Printf("%-16s %s %s%s\n", owner, ref.Hash, ref.Date, marker)
}

var logCmd = &cobra.Command{
	Use:   "log <chain-name> <from-hash>",
	Short: "List the blocks from a known hash up to the local tip, in chain order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := block.ParseHash(args[1])
		if err != nil {
			return err
		}

		b, err := blockchain.Load(rootDir, args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		r, err := b.OpenRangeToTip(from)
		if err != nil {
			return err
		}
		logx.Debug("CMD", "walking range of ", r.Len(), " blocks")
		for {
			blk, err := r.Next()
			if err != nil {
				return err
			}
			if blk == nil {
				return nil
			}
			fmt.Printf("%s %s\n", blk.BlockHash, blk.Date)
		}
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(tipCmd)
	rootCmd.AddCommand(logCmd)

	newCmd.Flags().StringVar(&newGenesis, "genesis", "", "Genesis block hash (hex)")
	newCmd.Flags().StringVar(&newGenesisPrev, "genesis-prev", "", "Declared parent hash of the genesis block (hex, defaults to zero)")
	newCmd.Flags().Uint64Var(&newEpochStart, "epoch-start", 0, "First epoch of the chain")
	newCmd.MarkFlagRequired("genesis")
}
