// Command jankend starts the janken contest daemon: the escrowed
// commit-reveal engine behind a JSON-RPC endpoint, with events bridged
// onto a watermill bus.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/janken-games/janken/config"
	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/engine"
	"github.com/janken-games/janken/events"
	"github.com/janken-games/janken/indexer"
	"github.com/janken-games/janken/ledger"
	"github.com/janken-games/janken/rpc"
	"github.com/janken-games/janken/storage"
	"github.com/janken-games/janken/wallet"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to config file")
	keyPath := flag.String("key", "player.key", "path to keystore file")
	genKey := flag.Bool("genkey", false, "generate a new player key and exit")
	commitMove := flag.String("commit", "", "build a commitment for the given move (rock|paper|scissors) and exit")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Read keystore password from environment (not CLI flags — they leak via ps).
	password := os.Getenv("JANKEN_PASSWORD")
	if password == "" {
		log.Warn().Msg("JANKEN_PASSWORD not set, keystore will use an empty password")
	}

	// ---- generate key mode ----
	if *genKey {
		w, err := wallet.Generate()
		if err != nil {
			log.Fatal().Err(err).Msg("generate key")
		}
		if err := wallet.SaveKey(*keyPath, password, w.PrivKey()); err != nil {
			log.Fatal().Err(err).Msg("save keystore")
		}
		fmt.Printf("Generated key. Player address: %s\n", w.Address())
		fmt.Printf("Saved to: %s\n", *keyPath)
		return
	}

	// ---- build commitment mode ----
	if *commitMove != "" {
		move := core.MoveFromString(*commitMove)
		if !move.Valid() {
			log.Fatal().Str("move", *commitMove).Msg("move must be rock, paper, or scissors")
		}
		priv, err := wallet.LoadKey(*keyPath, password)
		if err != nil {
			log.Fatal().Err(err).Msg("load keystore")
		}
		commitment, secret, err := wallet.New(priv).NewCommitment(move)
		if err != nil {
			log.Fatal().Err(err).Msg("build commitment")
		}
		fmt.Printf("Commitment: %s\n", commitment)
		fmt.Printf("Secret (keep until reveal): %s\n", secret)
		return
	}

	// ---- load config ----
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// ---- open DB ----
	db, err := openDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	store := storage.NewGameStore(db)
	led := ledger.New(db) // same DB, different key prefixes

	// ---- genesis allocation (first start only) ----
	if err := applyGenesis(store, led, cfg.Alloc); err != nil {
		log.Fatal().Err(err).Msg("genesis allocation")
	}

	// ---- events ----
	emitter := events.NewEmitter()
	idx := indexer.New(db, emitter)

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()
	events.NewBridge(emitter, bus, "janken.events")

	// ---- engine ----
	eng, err := engine.New(store, led, clock.New(), emitter, engine.Options{
		FeePercent:  cfg.FeePercent,
		MinStake:    cfg.MinStake,
		Admin:       cfg.Admin,
		JoinTimeout: time.Duration(cfg.JoinTimeout) * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("engine init")
	}

	// ---- RPC ----
	rpcAddr := fmt.Sprintf(":%d", cfg.RPCPort)
	rpcServer := rpc.NewServer(rpcAddr, rpc.NewHandler(eng, led, idx), cfg.AuthToken)
	if err := rpcServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("rpc start")
	}
	defer rpcServer.Stop()
	log.Info().Str("addr", rpcAddr).Msg("rpc listening")
	if cfg.AuthToken != "" {
		log.Info().Msg("rpc bearer token authentication enabled")
	}

	// ---- graceful shutdown ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down")
	// Deferred calls run in LIFO: rpcServer.Stop → bus.Close → db.Close
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("config file not found, using defaults")
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (storage.DB, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return storage.NewRedisDB(cfg.RedisAddr)
	default:
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("mkdir data dir: %w", err)
		}
		return storage.NewLevelDB(cfg.DataDir + "/janken")
	}
}

// applyGenesis funds the configured accounts exactly once.
func applyGenesis(store *storage.GameStore, led *ledger.Ledger, alloc map[string]uint64) error {
	done, err := store.GenesisApplied()
	if err != nil || done {
		return err
	}
	for addr, amount := range alloc {
		if err := led.Credit(addr, amount); err != nil {
			return fmt.Errorf("alloc %q: %w", addr, err)
		}
		log.Info().Str("address", addr).Uint64("amount", amount).Msg("genesis allocation")
	}
	return store.MarkGenesisApplied()
}
