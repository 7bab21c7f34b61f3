// Package main provides the nanonode command-line tool. It stands up the
// full fixture stack on an ephemeral chain and mines blocks against it,
// which doubles as an end-to-end smoke test of the node.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bsv-blockchain/nanonode/daemon"
	"github.com/bsv-blockchain/nanonode/ulogger"
)

func main() {
	app := &cli.App{
		Name:  "nanonode",
		Usage: "A minimal in-process node for test harnesses",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Mine a number of blocks on a fresh ephemeral chain",
				Action: generate,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "blocks",
						Usage: "Number of blocks to mine",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "network",
						Usage: "Network profile to activate (mainnet, testnet, regtest)",
						Value: "regtest",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// generate stands up the process, node and chain fixtures, mines the
// requested number of blocks and tears everything back down.
func generate(c *cli.Context) error {
	ctx := context.Background()
	logger := ulogger.New("nanonode")

	env := daemon.NewProcessEnvironment(logger)
	env.MustStart(ctx)

	node, err := daemon.NewNodeFixture(ctx, env, c.String("network"))
	if err != nil {
		return err
	}

	chain, err := daemon.NewChainStateFixture(ctx, node)
	if err != nil {
		return err
	}

	builder, err := daemon.NewSyntheticChainBuilder(chain)
	if err != nil {
		return err
	}

	coinbases, err := builder.BuildChain(ctx, c.Int("blocks"))
	if err != nil {
		return err
	}

	for i, coinbase := range coinbases {
		fmt.Printf("block %d coinbase %s pays %d satoshis\n", i+1, coinbase.TxID(), coinbase.TotalOutputSatoshis())
	}

	if err = chain.Destruct(ctx); err != nil {
		return err
	}

	if err = node.Destruct(ctx); err != nil {
		return err
	}

	return env.Stop(ctx)
}
