// Package main provides the player daemon entry point.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"quaver/internal/api/control"
	"quaver/internal/app/playback"
	"quaver/internal/app/queue"
	"quaver/internal/app/rules"
	"quaver/internal/infra/config"
	"quaver/internal/infra/engine"
	"quaver/internal/infra/lastfm"
	"quaver/internal/infra/library"
	"quaver/internal/infra/logger"
)

var (
	app        = kingpin.New("quaverd", "quaver music player daemon")
	configPath = app.Flag("config", "Path to config file").Default("config/quaver.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	scanCmd      = app.Command("scan", "Scan music directories and exit")
	listRulesCmd = app.Command("list-rules", "List available smart playlist rules and exit")
)

func init() {
	app.Command("start", "Start the daemon (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listRulesCmd.FullCommand() {
		printRules()
		return
	}

	loggerConfig := logger.Config{Output: "stderr", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if command == scanCmd.FullCommand() {
		if err := runScan(cfg); err != nil {
			zlog.Fatal().Msgf("Scan failed: %v", err)
		}
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Daemon error: %v", err)
		os.Exit(1)
	}
}

// run executes the main daemon logic.
func run(cfg *config.Config) error {
	store, err := library.Open(cfg.Library.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		zlog.Info().Msg("Library is empty, scanning music directories")
		if _, err := library.NewScanner(store).Scan(cfg.Library.MusicDirs); err != nil {
			return err
		}
	}

	chains, err := buildPlaylists(cfg)
	if err != nil {
		return err
	}

	eng, err := engine.NewBeepEngine(cfg.Player.SampleRate)
	if err != nil {
		return err
	}
	defer eng.Close()

	repeat, err := queue.ParseRepeatMode(cfg.Player.Repeat)
	if err != nil {
		return err
	}

	q := queue.New()
	q.SetShuffle(cfg.Player.Shuffle)
	q.SetRepeatMode(repeat)

	player := playback.NewController(playback.Config{PollInterval: cfg.Player.PollInterval()}, q, eng, store)
	defer player.Close()

	if err := player.SetVolume(cfg.Player.Volume); err != nil {
		return err
	}

	if cfg.LastFM.Enabled {
		client := lastfm.NewClient(cfg.LastFM.APIKey, cfg.LastFM.APISecret, cfg.LastFM.SessionKey)
		scrobbler := lastfm.NewScrobbler(client)
		go scrobbler.Run(player.Events())
		zlog.Info().Msg("Last.fm scrobbling enabled")
	}

	server := control.NewServer(cfg.Control.Addr, player, store, chains)
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zlog.Info().Msg("Received shutdown signal...")
	player.Stop()
	<-player.Done()
	zlog.Info().Msg("Daemon stopped")
	return nil
}

// runScan syncs the music directories into the library and exits.
func runScan(cfg *config.Config) error {
	store, err := library.Open(cfg.Library.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := library.NewScanner(store).Scan(cfg.Library.MusicDirs)
	if err != nil {
		return err
	}
	fmt.Printf("Scanned %d files: %d stored, %d failed, %d removed\n",
		result.Scanned, result.Stored, result.Failed, result.Removed)
	return nil
}

// buildPlaylists constructs the configured smart playlist rule chains.
func buildPlaylists(cfg *config.Config) (map[string]*rules.Chain, error) {
	chains := make(map[string]*rules.Chain, len(cfg.Playlists))
	for name, pl := range cfg.Playlists {
		specs := make([]rules.Spec, 0, len(pl.Rules))
		for _, r := range pl.Rules {
			specs = append(specs, rules.Spec{Name: r.Name, Settings: r.Settings})
		}
		chain, err := rules.Build(specs)
		if err != nil {
			return nil, fmt.Errorf("playlist %s: %w", name, err)
		}
		chains[name] = chain
	}
	return chains, nil
}

// printRules prints available smart playlist rules.
func printRules() {
	fmt.Println("Available Rules:")
	for _, factory := range rules.GetRegistered() {
		r := factory()
		fmt.Printf("  %-22s - %s\n", r.Name(), r.Description())
	}
}
