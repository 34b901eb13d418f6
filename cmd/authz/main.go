package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/authz-expander-go/pkg/config"
)

func main() {
	app := &cli.App{
		Name:  "authz",
		Usage: "Expand compact hardware wallet signatures into authorization sections",
		Description: `Offline signing tool for section-based transactions.

A hardware wallet returns a compact signature: a public key, the indices of the
sections it signed and the signature bytes. This tool expands that into a full
authorization section that names every signed section by hash.

Transactions and signature messages are given as hex strings or paths to files
containing hex.`,
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "expand",
				Usage: "Build one authorization section from a compact signature",
				Flags: []cli.Flag{
					txFlag,
					&cli.StringFlag{
						Name:     "pubkey",
						Usage:    "Encoded public key (hex)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "indices",
						Usage:    "Signed section indices, e.g. 0,1,2 (0 = header, 255 = raw header)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "Encoded signature (hex)",
						Required: true,
					},
					&cli.UintFlag{
						Name:  "signer-index",
						Usage: "Position of the signature within the section's signer",
						Value: 0,
					},
				},
				Action: expandCommand,
			},
			{
				Name:  "append",
				Usage: "Attach the authorization sections described by a signature message",
				Flags: []cli.Flag{
					txFlag,
					sigMsgFlag,
					outputFlag,
				},
				Action: appendCommand,
			},
			{
				Name:   "hash",
				Usage:  "Print the ID and the per-index section hashes of a transaction",
				Flags:  []cli.Flag{txFlag},
				Action: hashCommand,
			},
			{
				Name:  "store",
				Usage: "Manage transactions waiting for offline signatures",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "persistence-type",
						Usage:   fmt.Sprintf("Storage backend: %s", config.GetSupportedPersistenceTypesString()),
						Value:   config.PersistenceTypeBadger.String(),
						EnvVars: []string{config.EnvAuthzPersistenceType},
					},
					&cli.StringFlag{
						Name:    "data-path",
						Usage:   "Badger data directory",
						Value:   "./authz-data",
						EnvVars: []string{config.EnvAuthzDataPath},
					},
					&cli.StringFlag{
						Name:    "redis-address",
						Usage:   "Redis server address (host:port)",
						EnvVars: []string{config.EnvAuthzRedisAddress},
					},
					&cli.StringFlag{
						Name:    "redis-password",
						Usage:   "Redis password",
						EnvVars: []string{config.EnvAuthzRedisPassword},
					},
					&cli.IntFlag{
						Name:    "redis-db",
						Usage:   "Redis database number (0-15)",
						EnvVars: []string{config.EnvAuthzRedisDB},
					},
					&cli.StringFlag{
						Name:    "redis-key-prefix",
						Usage:   "Prefix prepended to every Redis key",
						EnvVars: []string{config.EnvAuthzRedisKeyPrefix},
					},
					&cli.StringFlag{
						Name:    "chain-id",
						Usage:   "Only accept transactions for this chain",
						EnvVars: []string{config.EnvAuthzChainID},
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Usage:   "Enable verbose logging",
						EnvVars: []string{config.EnvAuthzVerbose},
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:   "submit",
						Usage:  "Store a transaction until its signatures arrive",
						Flags:  []cli.Flag{txFlag},
						Action: storeSubmitCommand,
					},
					{
						Name:   "attach",
						Usage:  "Attach a signature message to a stored transaction",
						Flags:  []cli.Flag{idFlag, sigMsgFlag, outputFlag},
						Action: storeAttachCommand,
					},
					{
						Name:   "get",
						Usage:  "Print a stored transaction",
						Flags:  []cli.Flag{idFlag, outputFlag},
						Action: storeGetCommand,
					},
					{
						Name:  "list",
						Usage: "List stored transactions",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "all",
								Usage: "Include signed transactions",
							},
						},
						Action: storeListCommand,
					},
					{
						Name:   "remove",
						Usage:  "Delete a stored transaction",
						Flags:  []cli.Flag{idFlag},
						Action: storeRemoveCommand,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

var (
	txFlag = &cli.StringFlag{
		Name:     "tx",
		Usage:    "Encoded transaction (hex string) or path to file",
		Required: true,
	}
	sigMsgFlag = &cli.StringFlag{
		Name:     "sig-msg",
		Usage:    "Encoded signature message (hex string) or path to file",
		Required: true,
	}
	idFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "Transaction ID (hex)",
		Required: true,
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Write the resulting transaction to this file instead of stdout",
	}
)
