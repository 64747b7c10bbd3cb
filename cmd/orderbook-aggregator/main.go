package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	pb "github.com/dimajoyti/orderbook-aggregator/api/proto"
	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/merge"
	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/publish"
	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/sources"
	"github.com/dimajoyti/orderbook-aggregator/pkg/config"
	"github.com/dimajoyti/orderbook-aggregator/pkg/logger"
)

const serviceName = "orderbook-aggregator"

var (
	version = "dev"
	commit  = "unknown"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:     serviceName,
		Short:   "Streams a merged top-of-book summary across Binance and Bitstamp over gRPC",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		RunE:    run,
	}
	root.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (optional)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting orderbook aggregator",
		zap.String("version", version),
		zap.String("pair", cfg.Pair),
	)

	in := make(chan domain.InputUpdate, cfg.Merge.ChannelSize)
	cell := publish.NewSummaryCell()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sources.Run(gctx, log.Named("binance"), sources.BinanceProtocol{BaseURL: cfg.Binance.WebSocketURL}, cfg.Pair, in)
	})
	g.Go(func() error {
		return sources.Run(gctx, log.Named("bitstamp"), sources.BitstampProtocol{BaseURL: cfg.Bitstamp.WebSocketURL}, cfg.Pair, in)
	})

	g.Go(func() error {
		merge.Run(gctx, in, cfg.Merge.TopLevels, cell.Set)
		return nil
	})

	grpcServer := newGRPCServer(log, cell)
	g.Go(func() error {
		return serveGRPC(gctx, log, grpcServer, cfg.Server.ListenAddr)
	})

	metricsMux := http.NewServeMux()
	metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    cfg.Metrics.ListenAddr,
		Handler: metricsMux,
	}
	g.Go(func() error {
		return serveMetrics(gctx, log, metricsServer)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		done := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			log.Warn("grpc graceful stop timed out, forcing stop")
			grpcServer.Stop()
		}

		cell.Close()
		return metricsServer.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("orderbook aggregator exited with error", zap.Error(err))
		return err
	}

	log.Info("orderbook aggregator stopped")
	return nil
}

func newGRPCServer(log *zap.Logger, cell *publish.SummaryCell) *grpc.Server {
	server := grpc.NewServer(
		grpc.UnaryInterceptor(loggingUnaryInterceptor(log)),
		grpc.StreamInterceptor(loggingStreamInterceptor(log)),
	)

	pb.RegisterOrderbookAggregatorServer(server, publish.NewServer(cell, log))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	reflection.Register(server)

	return server
}

func serveGRPC(ctx context.Context, log *zap.Logger, server *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	log.Info("grpc server listening", zap.String("addr", addr))
	if err := server.Serve(lis); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

func serveMetrics(ctx context.Context, log *zap.Logger, server *http.Server) error {
	log.Info("metrics server listening", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// loggingUnaryInterceptor logs every unary RPC (currently unused by
// OrderbookAggregator, which is stream-only, but kept for forward
// compatibility and the health service's Check calls).
func loggingUnaryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		if err != nil {
			log.Error("grpc request failed", zap.String("method", info.FullMethod), zap.Duration("duration", duration), zap.Error(err))
		} else {
			log.Info("grpc request completed", zap.String("method", info.FullMethod), zap.Duration("duration", duration))
		}
		return resp, err
	}
}

// loggingStreamInterceptor logs the lifetime of every streaming RPC: every
// BookSummary subscription, as well as health Watch and reflection streams.
func loggingStreamInterceptor(log *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, stream)
		duration := time.Since(start)

		if err != nil {
			log.Error("grpc stream failed", zap.String("method", info.FullMethod), zap.Duration("duration", duration), zap.Error(err))
		} else {
			log.Info("grpc stream completed", zap.String("method", info.FullMethod), zap.Duration("duration", duration))
		}
		return err
	}
}
