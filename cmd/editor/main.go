package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AaronLay10/nina-sequence-editor/internal/api"
	"github.com/AaronLay10/nina-sequence-editor/internal/catalog"
	"github.com/AaronLay10/nina-sequence-editor/internal/config"
	"github.com/AaronLay10/nina-sequence-editor/internal/editor"
	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/mqtt"
	"github.com/AaronLay10/nina-sequence-editor/internal/session"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage/postgres"
	"github.com/AaronLay10/nina-sequence-editor/internal/storage/sqlite"
	"github.com/AaronLay10/nina-sequence-editor/internal/version"
	"github.com/AaronLay10/nina-sequence-editor/internal/watcher"
)

const (
	alertCheckInterval  = 10 * time.Second
	healthCheckInterval = 5 * time.Second
	heartbeatTolerance  = 2.0
)

type options struct {
	configPath string
	openFile   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "ninaseq-editor",
		Short:        "Serve the NINA sequence editor over HTTP",
		Version:      version.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to editor.yaml")
	cmd.Flags().StringVar(&opts.openFile, "open", "", "sequence JSON file to open instead of restoring from storage")
	return cmd
}

// emit records an event and echoes it to stdout as one JSON line.
func emit(level, name, msg string, fields map[string]interface{}) {
	b, err := events.Emit(level, name, msg, fields)
	if err != nil {
		log.Printf("emit %s: %v", name, err)
		return
	}
	fmt.Println(string(b))
}

func loadConfig(path string) (*config.EditorConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadEditorConfig(path)
}

func loadCatalog(cfg *config.EditorConfig) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Builtin(), nil
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

// openStorage returns the configured sequence store, or nil when storage is
// disabled or postgres cannot be reached. Postgres is optional: the editor
// keeps working in memory and readiness reports it unavailable.
func openStorage(ctx context.Context, cfg *config.EditorConfig) (storage.SequenceStore, error) {
	switch cfg.StorageDriver() {
	case config.StorageSQLite:
		st, err := sqlite.Open(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		api.SetStorageState(true, false)
		return st, nil

	case config.StoragePostgres:
		pg, err := postgres.New(cfg.EditorID())
		if err == nil {
			if err = pg.Ping(ctx); err != nil {
				pg.Close()
			}
		}
		if err != nil {
			log.Printf("postgres unavailable, continuing without storage: %v", err)
			api.SetStorageState(false, true)
			return nil, nil
		}
		events.SetPostgresClient(pg)
		api.SetStorageState(true, false)
		return pg, nil

	default:
		api.SetStorageState(false, true)
		return nil, nil
	}
}

func restoreSession(ctx context.Context, sess *session.Session, openFile string) {
	if openFile != "" {
		if err := sess.OpenFile(openFile); err != nil {
			log.Printf("failed to open %s: %v", openFile, err)
			return
		}
		session.EmitStartupRestore(sess.Sequence().ID, "file")
		return
	}

	state, scanned, err := session.RestoreFromEvents(ctx, events.GetPostgresClient(), session.DefaultRestoreLimit)
	if err != nil {
		log.Printf("event log restore failed: %v", err)
	}
	restored, err := sess.Restore(ctx, state)
	if err != nil {
		log.Printf("restore failed: %v", err)
		return
	}
	if restored {
		log.Printf("restored sequence %s (%d events scanned)", sess.Sequence().ID, scanned)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	autosave, err := cfg.AutosaveInterval()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	hostname, _ := os.Hostname()
	emit("info", "system.startup", "editor starting", map[string]interface{}{
		"service":  "ninaseq-editor",
		"version":  version.Version,
		"editor":   cfg.EditorID(),
		"hostname": hostname,
		"pid":      os.Getpid(),
	})

	api.InitAuth()
	api.InitTLS()
	api.InitMetrics()
	api.InitAlerts()
	if cfg.Editor.Name != "" {
		api.SetEditorName(cfg.Editor.Name)
	} else {
		api.SetEditorName(cfg.EditorID())
	}

	repo, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	sess := session.New(editor.NewStore(cat, cfg.HistoryLimit()), repo)
	restoreSession(ctx, sess, opts.openFile)
	api.SetSession(sess)
	api.SetEditorReady(true)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("API listening on :%d", cfg.HTTPPort())
		return api.ListenAndServe(gctx, cfg.HTTPPort())
	})
	g.Go(func() error {
		return sess.RunAutosave(gctx, autosave)
	})
	g.Go(func() error {
		return api.RunAlertMonitor(gctx, alertCheckInterval)
	})

	if cfg.WatchFile && sess.Path() != "" {
		w, err := watcher.New(sess.Path())
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", sess.Path(), err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to watch %s: %w", sess.Path(), err)
		}
		g.Go(func() error {
			defer w.Stop()
			return watchFile(gctx, w, sess)
		})
	}

	if cfg.MQTT.Enabled {
		g.Go(func() error {
			return runObservatories(gctx, cfg)
		})
	} else {
		api.SetMQTTState(false, true)
	}

	err = g.Wait()

	emit("info", "system.shutdown", "editor stopping", map[string]interface{}{
		"service": "ninaseq-editor",
		"dirty":   sess.Dirty(),
	})
	return err
}

// watchFile reloads the opened sequence whenever the file changes on disk.
func watchFile(ctx context.Context, w *watcher.Watcher, sess *session.Session) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if ch.Kind == watcher.ChangeRemoved {
				emit("warning", "editor.warning", "sequence file removed", map[string]interface{}{
					"op":     "watchFile",
					"id":     ch.File,
					"reason": "sequence file removed",
				})
				continue
			}
			if err := sess.ReloadFile(); err != nil {
				log.Printf("reload %s failed: %v", ch.File, err)
			}
		}
	}
}

// runObservatories connects to the broker, tracks observatory registrations
// and keeps readiness in sync with the broker connection. The client keeps
// redialing in the background; the registration topic is subscribed as soon
// as it is up.
func runObservatories(ctx context.Context, cfg *config.EditorConfig) error {
	specs := make(map[string]mqtt.ObservatorySpec, len(cfg.Observatories))
	for id, o := range cfg.Observatories {
		specs[id] = mqtt.ObservatorySpec{Name: o.Name, Required: o.Required}
	}

	client, err := mqtt.NewClient(mqtt.ClientOptions{
		ClientID: cfg.MQTTClientID(),
		Prefix:   cfg.MQTT.TopicPrefix,
	})
	if err != nil {
		return fmt.Errorf("mqtt client: %w", err)
	}
	monitor := mqtt.NewMonitor(specs, heartbeatTolerance)
	sub := mqtt.NewStatusSubscriber(client, monitor)
	topic := mqtt.RegisterTopic(cfg.MQTT.TopicPrefix)
	handler := mqtt.RegistrationHandler(monitor, sub)

	monitor.Start(healthCheckInterval)
	defer monitor.Stop()

	api.SetObservatories(monitor)
	api.SetDeployer(mqtt.NewDeployer(client, monitor.Registry()))

	subscribed := client.StartWithRetry(topic, handler)
	api.SetMQTTState(subscribed, false)

	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			client.Disconnect()
			return nil
		case <-ticker.C:
			if !subscribed && client.IsConnected() {
				if err := client.Subscribe(topic, handler); err != nil {
					log.Printf("mqtt: %v", err)
				} else {
					subscribed = true
					sub.SubscribeAll(monitor.Registry())
				}
			}
			api.SetMQTTState(subscribed && client.IsConnected(), false)
		}
	}
}
