package main

import (
	"chat-local/contract"
	"chat-local/domain"
	"chat-local/moderation"
	"chat-local/peer"
	"chat-local/repositories"
	"chat-local/runtime/workers"
	"chat-local/services"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and owns their lifecycle, so deferred cleanups
// (store closing, final flush) always happen before the process exits.
func run() error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	store, err := repositories.OpenBlobStore(repositories.Driver(config.StoreDriver), config.StorePath)
	if err != nil {
		return fmt.Errorf("store opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing store...")
		_ = store.Close()
	}()

	clock := clockwork.NewRealClock()
	snapshots := repositories.NewSnapshotRepository(store, log)
	persister := workers.NewPersister(log, clock, snapshots, config.FlushInterval)

	opts, err := serviceOptions(config, log)
	if err != nil {
		return err
	}
	service := services.NewChatService(log, config.LocalUserID, snapshots, persister, clock, peerBehavior(config), opts...)
	persister.Attach(service)
	service.SeedSpecializedRooms(domain.SpecializedRooms)

	oinks := services.NewOinkService(log, repositories.NewOinkRepository(store, log), clock)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(persister)
	if config.HeartbeatInterval > 0 {
		sup.Add(workers.NewHeartbeatWorker(log, clock, service, config.HeartbeatInterval))
	}
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	me := domain.Profile{ID: config.LocalUserID, DisplayName: config.LocalUserName}
	console := NewConsole(service, oinks, me, clock, os.Stdin, os.Stdout)
	consoleErr := make(chan error, 1)
	go func() {
		log.Info("Console ready", "store", config.StoreDriver, "at", time.Now().UTC())
		consoleErr <- console.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-consoleErr:
	}

	// Pending replies first, so nothing lands after the final flush
	service.Close()
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")
	return err
}

func peerBehavior(config Config) contract.PeerBehavior {
	if !config.PeerRepliesEnabled {
		return peer.Silent{}
	}
	seed := uint64(time.Now().UnixNano())
	rnd := rand.New(rand.NewPCG(seed, seed>>1))
	return peer.NewRandomBehavior(rnd, config.PeerMinDelay, config.PeerMaxDelay, peer.DefaultPhrases)
}

func serviceOptions(config Config, log *slog.Logger) ([]services.Option, error) {
	words := moderation.ParseWords(config.CensoredWords)
	if len(words) == 0 {
		return nil, nil
	}
	replacement, err := moderation.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, fmt.Errorf("CHARACTER_REPLACEMENT %q: %w", config.CharReplacement, err)
	}
	moderator, err := moderation.NewModerator(words, replacement)
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("%d censored words loaded", len(words)))
	return []services.Option{services.WithFilter(moderator)}, nil
}
