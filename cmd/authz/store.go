package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/authz-expander-go/pkg/attacher"
	"github.com/Layr-Labs/authz-expander-go/pkg/config"
	"github.com/Layr-Labs/authz-expander-go/pkg/crypto"
	"github.com/Layr-Labs/authz-expander-go/pkg/logger"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence/badger"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence/memory"
	"github.com/Layr-Labs/authz-expander-go/pkg/persistence/redis"
)

// parseAttacherConfig reads the store flags, which fall back to env vars
func parseAttacherConfig(c *cli.Context) (*config.AttacherConfig, error) {
	persistenceType, err := config.ParsePersistenceType(c.String("persistence-type"))
	if err != nil {
		return nil, err
	}

	cfg := &config.AttacherConfig{
		ChainID: c.String("chain-id"),
		Verbose: c.Bool("verbose"),
		Persistence: config.PersistenceConfig{
			Type:     persistenceType,
			DataPath: c.String("data-path"),
		},
	}
	if persistenceType == config.PersistenceTypeRedis {
		cfg.Persistence.Redis = &config.RedisConfig{
			Address:   c.String("redis-address"),
			Password:  c.String("redis-password"),
			DB:        c.Int("redis-db"),
			KeyPrefix: c.String("redis-key-prefix"),
		}
	}
	return cfg, nil
}

// newPersistence opens the backend selected by cfg
func newPersistence(cfg *config.PersistenceConfig, l *zap.Logger) (persistence.ITxPersistence, error) {
	switch cfg.Type {
	case config.PersistenceTypeMemory:
		return memory.NewMemoryPersistence(), nil
	case config.PersistenceTypeBadger:
		return badger.NewBadgerPersistence(cfg.DataPath, l)
	case config.PersistenceTypeRedis:
		return redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}, l)
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s", cfg.Type)
	}
}

// withAttacher builds the logger, store and attacher for a store subcommand
// and tears them down afterwards
func withAttacher(c *cli.Context, fn func(a *attacher.Attacher) error) error {
	cfg, err := parseAttacherConfig(c)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	store, err := newPersistence(&cfg.Persistence, l)
	if err != nil {
		return fmt.Errorf("failed to open persistence: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			l.Sugar().Warnw("Failed to close persistence", "error", err)
		}
	}()

	if err := store.HealthCheck(); err != nil {
		return fmt.Errorf("persistence health check failed: %w", err)
	}

	return fn(attacher.NewAttacher(cfg, store, l))
}

func parseID(c *cli.Context) (crypto.Hash, error) {
	return crypto.HashFromHex(c.String("id"))
}

func storeSubmitCommand(c *cli.Context) error {
	tx, err := readTransaction(c.String("tx"))
	if err != nil {
		return err
	}
	return withAttacher(c, func(a *attacher.Attacher) error {
		id, err := a.Submit(tx)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	})
}

func storeAttachCommand(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	sigMsg, err := readHexInput(c.String("sig-msg"))
	if err != nil {
		return fmt.Errorf("failed to read signature message: %w", err)
	}
	return withAttacher(c, func(a *attacher.Attacher) error {
		tx, err := a.Attach(id, sigMsg)
		if err != nil {
			return err
		}
		return writeTransaction(tx, c.String("output"))
	})
}

func storeGetCommand(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return withAttacher(c, func(a *attacher.Attacher) error {
		record, err := a.Get(id)
		if err != nil {
			return err
		}
		tx, err := record.Transaction()
		if err != nil {
			return err
		}
		return writeTransaction(tx, c.String("output"))
	})
}

func storeListCommand(c *cli.Context) error {
	return withAttacher(c, func(a *attacher.Attacher) error {
		var (
			records []*persistence.TxRecord
			err     error
		)
		if c.Bool("all") {
			records, err = a.All()
		} else {
			records, err = a.Pending()
		}
		if err != nil {
			return err
		}

		for _, r := range records {
			fmt.Printf("%s  %-8s  %s\n", r.ID, r.Status, time.Unix(r.SubmittedAt, 0).UTC().Format(time.RFC3339))
		}
		return nil
	})
}

func storeRemoveCommand(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return withAttacher(c, func(a *attacher.Attacher) error {
		return a.Remove(id)
	})
}
