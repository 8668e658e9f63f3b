// Command ebxminer runs the mining control loop as a single
// long-lived process: load configuration, connect to the SQL store,
// and drive services/miner's loop until an interrupt signal or a
// fatal error.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/earthbucks/ebxd/config"
	"github.com/earthbucks/ebxd/services/miner"
	sqlstore "github.com/earthbucks/ebxd/stores/mining/sql"
	"github.com/earthbucks/ebxd/ulogger"
	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const progname = "ebxminer"

var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
	gocore.Log(progname)
}

func main() {
	logLevel, _ := gocore.Config().Get("logLevel", "info")
	logger := ulogger.New(progname, ulogger.Options{Level: logLevel, Pretty: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("loading configuration: %v", err)
	}

	store, err := sqlstore.New(logger.New("store"), cfg.DatabaseURLObj)
	if err != nil {
		logger.Fatalf("connecting to store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	voteOracle := acceptingVoteOracle(logger.New("vote"), cfg)

	m := miner.NewMiner(logger.New("miner"), store, miner.Config{
		Domain:      cfg.Domain,
		CoinbasePkh: cfg.CoinbasePkh,
	}, voteOracle)

	port, _ := gocore.Config().GetInt("health_check_port", 8000)
	startHealthServer(logger, port)

	if err := m.Start(ctx); err != nil {
		logger.Fatalf("mining loop exited: %v", err)
	}
}

// acceptingVoteOracle is the default vote policy: accept every
// block-verified header. A deployment that wants a real consensus
// policy (quorum signatures, external attestation) supplies its own
// miner.VoteOracle in place of this one.
func acceptingVoteOracle(logger ulogger.Logger, _ *config.Config) miner.VoteOracle {
	return func(row *sqlstore.HeaderRow) (bool, error) {
		logger.Debugf("voting to accept header at block %d", row.Header.BlockNum)
		return true, nil
	}
}

func startHealthServer(logger ulogger.Logger, port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("health server stopped: %v", err)
		}
	}()

	logger.Infof("health check endpoint listening on http://localhost:%d/health", port)
}
