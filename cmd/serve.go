package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agdataworks/soilsum-cli/internal/aggregate"
	"github.com/agdataworks/soilsum-cli/internal/loader"
	"github.com/agdataworks/soilsum-cli/internal/model"
	"github.com/agdataworks/soilsum-cli/internal/refs"
	"github.com/agdataworks/soilsum-cli/internal/server"
	"github.com/agdataworks/soilsum-cli/internal/sites"
	"github.com/agdataworks/soilsum-cli/internal/store"
)

var (
	servePort     int
	serveBuildID  string
	serveSitesCSV string
	serveRefsCSV  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a persisted summary dataset over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ds, err := loadDataset(ctx)
		if err != nil {
			return err
		}

		var siteRows []model.Site
		if serveSitesCSV != "" {
			siteRows, err = loadJoinedSites(serveSitesCSV)
			if err != nil {
				return err
			}
		}

		var refRows []model.Reference
		if serveRefsCSV != "" {
			loaded, err := loader.LoadReferences(serveRefsCSV)
			if err != nil {
				return eris.Wrap(err, "serve: load references")
			}
			refRows = refs.Prepare(loaded)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(ds, siteRows, refRows, cfg.Server.RateLimitRPS).Router(),
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("serving summary dataset",
			zap.Int("port", port),
			zap.Int("rows", len(ds.Base)),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "serve: listen")
		}
		return nil
	},
}

// loadDataset reassembles a Dataset from the store: both summaries plus the
// depth ordering recorded with the build.
func loadDataset(ctx context.Context) (*aggregate.Dataset, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	buildID := serveBuildID
	if buildID == "" {
		latest, err := st.LatestBuild(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "serve: latest build")
		}
		if latest == nil {
			return nil, eris.New("serve: store has no builds; run `soilsum build --persist` first")
		}
		buildID = latest.ID
	}

	base, err := st.LoadSummary(ctx, buildID, store.KindBase, store.SummaryFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "serve: load base summary")
	}
	cumulative, err := st.LoadSummary(ctx, buildID, store.KindCumulative, store.SummaryFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "serve: load cumulative summary")
	}

	return &aggregate.Dataset{
		Base:       base,
		Cumulative: cumulative,
		Depths:     aggregate.ResolveDepthOrder(base),
	}, nil
}

func loadJoinedSites(path string) ([]model.Site, error) {
	raw, err := loader.LoadSites(path)
	if err != nil {
		return nil, eris.Wrap(err, "serve: load sites")
	}
	regions, err := loader.LoadRegions(cfg.Regions.Path)
	if err != nil {
		return nil, eris.Wrap(err, "serve: load regions")
	}
	return sites.Join(raw, regions), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: config)")
	serveCmd.Flags().StringVar(&serveBuildID, "build", "", "build ID to serve (default: latest)")
	serveCmd.Flags().StringVar(&serveSitesCSV, "sites", "", "site-location CSV to serve at /sites")
	serveCmd.Flags().StringVar(&serveRefsCSV, "refs", "", "citation CSV to serve at /references")
	rootCmd.AddCommand(serveCmd)
}
