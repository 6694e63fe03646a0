package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/board"
	"github.com/DoyleJ11/lol-rune-draft/internal/catalog"
	"github.com/DoyleJ11/lol-rune-draft/internal/httpapi"
	"github.com/DoyleJ11/lol-rune-draft/internal/hub"
	"github.com/DoyleJ11/lol-rune-draft/internal/lobby"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
	"github.com/DoyleJ11/lol-rune-draft/internal/store"
	"github.com/DoyleJ11/lol-rune-draft/internal/ws"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the draft server",
		Long: `Run the HTTP and WebSocket server.

Champions are read from $RUNEDRAFT_DATA_DIR/champions.json. Models load in the
background from $RUNEDRAFT_DATA_DIR/mappings.json and $RUNEDRAFT_MODEL_URL; until
then lobbies report "Models not loaded". Draft history is kept when DATABASE_URL
is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			champs, err := catalog.LoadChampionsFile(cfg.ChampionsPath())
			if err != nil {
				return err
			}
			log.Info("champions loaded", zap.String("version", champs.Version), zap.Int("count", champs.Len()))

			predictor := predict.NewPredictor(log)
			meta := catalog.NewMetadataProvider(cfg.DDragonURL, cfg.DDragonVersion, nil, log)

			deps := lobby.Deps{
				Board: board.Deps{Engine: predictor, Champions: champs, Names: meta},
				Log:   log,
			}
			api := httpapi.Deps{
				Champions: champs,
				Engine:    predictor,
				WS:        ws.Options{OriginPatterns: cfg.AllowedOrigins},
				Log:       log,
			}
			if cfg.DatabaseURL != "" {
				st, err := store.Open(cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer st.Close()
				deps.Recorder = st
				api.History = st
			}

			h := hub.NewHub(ctx, deps)
			api.Hub = h

			go func() {
				if err := loadEngine(cfg, predictor); err != nil {
					log.Warn("models not loaded", zap.Error(err))
					return
				}
				h.Inbox() <- hub.RefreshAll{}
			}()
			go func() {
				if _, err := meta.Load(ctx); err != nil {
					log.Warn("rune metadata not loaded", zap.Error(err))
					return
				}
				h.Inbox() <- hub.RefreshAll{Redraw: true}
			}()

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.SetupRoutes(api),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", cfg.Addr))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			h.Inbox() <- hub.ShutdownHub{}
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides RUNEDRAFT_ADDR)")
	return cmd
}
