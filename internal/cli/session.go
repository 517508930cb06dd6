package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/gamestate"
	"github.com/aretw0/gamestate/internal/presentation/tui"
	httpadapter "github.com/aretw0/gamestate/pkg/adapters/http"
	redisadapter "github.com/aretw0/gamestate/pkg/adapters/redis"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/aretw0/gamestate/pkg/observability"
	"github.com/aretw0/gamestate/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// host is a session together with everything built around it.
type host struct {
	def      *dsl.Definition
	session  *gamestate.Session
	runner   *runner.Runner
	metrics  *observability.Metrics
	registry *prometheus.Registry
	logger   *slog.Logger
}

// newHost loads the definition and wires session, metrics and runner.
// Announcements go to the announcer stream; transitions are printed there
// too unless quiet.
func newHost(opts RunOptions, streams Streams, quiet bool, extra ...runner.Option) (*host, error) {
	logger, err := createLogger(opts, streams.Err)
	if err != nil {
		return nil, err
	}
	def, err := LoadDefinition(opts.Path)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(reg)

	announceTo := streams.Out
	if quiet {
		announceTo = streams.Err
	}
	announcer := tui.NewAnnouncer(announceTo)

	sessOpts := []gamestate.Option{
		gamestate.WithLogger(logger),
		gamestate.WithDefinition(def),
		gamestate.WithAnnouncer(announcer),
		gamestate.WithLifecycleHooks(metrics.Hooks()),
	}
	if !quiet {
		sessOpts = append(sessOpts, gamestate.WithLifecycleHooks(announcer.Hooks()))
	}
	sess, err := gamestate.New(sessOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing session: %w", err)
	}

	runnerOpts := []runner.Option{
		runner.WithTickRate(opts.TickRate),
		runner.WithQueueSize(opts.QueueSize),
		runner.WithLogger(logger),
		runner.WithMetrics(metrics),
		runner.WithSignals(opts.Signals),
	}
	runnerOpts = append(runnerOpts, extra...)

	return &host{
		def:      def,
		session:  sess,
		runner:   runner.New(sess, runnerOpts...),
		metrics:  metrics,
		registry: reg,
		logger:   logger,
	}, nil
}

// RunSession runs a definition until the session is over or ctx is
// cancelled, serving the optional HTTP API and Redis event source alongside.
func RunSession(ctx context.Context, opts RunOptions, streams Streams) error {
	var extra []runner.Option
	var snapshots *runner.SnapshotWriter
	if opts.JSON {
		snapshots = runner.NewSnapshotWriter(streams.Out)
		extra = append(extra, runner.WithTickObserver(snapshots.Observe))
	}

	var streamManager *httpadapter.StreamManager
	if opts.HTTPAddr != "" {
		streamManager = httpadapter.NewStreamManager(nil)
		extra = append(extra, runner.WithTickObserver(streamManager.Observe))
	}

	var client *backend.Client
	redisOpts := []redisadapter.Option{redisadapter.WithPrefix(opts.RedisPrefix)}
	if opts.RedisAddr != "" {
		client = redisadapter.NewClient(opts.RedisAddr, "", 0)
		defer client.Close()
		mirror := redisadapter.NewMirror(ctx, client, redisOpts...)
		extra = append(extra, runner.WithTickObserver(mirror.Observe))
	}

	h, err := newHost(opts, streams, opts.JSON, extra...)
	if err != nil {
		return err
	}

	var source *redisadapter.Source
	if client != nil {
		source = redisadapter.NewSource(client, h.runner, append(redisOpts, redisadapter.WithLogger(h.logger))...)
	}
	if err := h.run(ctx, opts, streams, streamManager, source); err != nil {
		return err
	}
	if snapshots != nil && snapshots.Err() != nil {
		return fmt.Errorf("writing snapshots: %w", snapshots.Err())
	}
	return nil
}

func (h *host) run(ctx context.Context, opts RunOptions, streams Streams, sm *httpadapter.StreamManager, source *redisadapter.Source) error {
	if !opts.JSON {
		tui.PrintBanner(streams.Out, strings.TrimSpace(gamestate.Version))
		printSystemMessage(streams.Out, "Running '%s' (%d phases) at %s per tick.", h.def.RootName(), h.def.Count(), h.runner.TickRate())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return h.runner.Run(gctx)
	})

	if opts.HTTPAddr != "" {
		handler := httpadapter.NewHandler(h.runner,
			httpadapter.WithDefinition(h.def),
			httpadapter.WithStreams(sm),
			httpadapter.WithGatherer(h.registry),
			httpadapter.WithLogger(h.logger),
		)
		g.Go(func() error {
			return serveHTTP(gctx, opts.HTTPAddr, handler, h.logger)
		})
	}

	if source != nil {
		g.Go(func() error {
			return source.Run(gctx)
		})
	}

	if opts.Stdin && streams.In != nil {
		// Not part of the group: a blocked read cannot be interrupted.
		go func() {
			if err := runner.ReadEvents(gctx, streams.In, h.runner, h.logger); err != nil && !errors.Is(err, context.Canceled) {
				h.logger.Warn("stdin event reader stopped", "err", err)
			}
		}()
	}

	err := g.Wait()
	if !opts.JSON {
		if h.session.Over() {
			printSystemMessage(streams.Out, "Session over after %d ticks.", h.runner.Ticks())
		} else {
			printSystemMessage(streams.Out, "Session stopped after %d ticks.", h.runner.Ticks())
		}
	}
	return err
}
