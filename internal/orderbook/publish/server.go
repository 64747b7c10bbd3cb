package publish

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	pb "github.com/dimajoyti/orderbook-aggregator/api/proto"
	"github.com/dimajoyti/orderbook-aggregator/internal/orderbook/domain"
	"github.com/dimajoyti/orderbook-aggregator/pkg/metrics"
)

// Server implements pb.OrderbookAggregatorServer over a SummaryCell owned by
// the Merger. Every subscription is served by the stream handler goroutine
// google.golang.org/grpc already allocates per stream; no additional
// goroutine is spawned here.
type Server struct {
	pb.UnimplementedOrderbookAggregatorServer

	cell   *SummaryCell
	logger *zap.Logger
}

// NewServer returns a Server that streams whatever cell holds.
func NewServer(cell *SummaryCell, logger *zap.Logger) *Server {
	return &Server{cell: cell, logger: logger}
}

// BookSummary streams the merged book to one subscriber: the currently
// published Summary first, then every subsequent one, skipping any that
// were superseded before this subscriber caught up.
func (s *Server) BookSummary(_ *pb.Empty, stream pb.OrderbookAggregator_BookSummaryServer) error {
	subscriberID := uuid.NewString()
	s.logger.Info("subscriber connected", zap.String("subscriber_id", subscriberID))
	metrics.SubscribersConnected.Inc()
	defer func() {
		metrics.SubscribersConnected.Dec()
		s.logger.Info("subscriber disconnected", zap.String("subscriber_id", subscriberID))
	}()

	ctx := stream.Context()
	var version uint64

	for {
		summary, nextVersion, ok := s.cell.Next(ctx, version)
		if !ok {
			return ctx.Err()
		}
		if err := stream.Send(toProtoSummary(summary)); err != nil {
			metrics.SubscriberSendErrorsTotal.Inc()
			s.logger.Error("send failed", zap.String("subscriber_id", subscriberID), zap.Error(err))
			return err
		}
		metrics.SubscriberSendsTotal.Inc()
		version = nextVersion
	}
}

func toProtoSummary(s domain.Summary) *pb.Summary {
	return &pb.Summary{
		Spread: s.Spread,
		Bids:   toProtoLevels(s.Bids),
		Asks:   toProtoLevels(s.Asks),
	}
}

func toProtoLevels(levels []domain.OutLevel) []*pb.Level {
	out := make([]*pb.Level, len(levels))
	for i, l := range levels {
		out[i] = &pb.Level{
			Exchange: l.Exchange.String(),
			Price:    l.Price.Float64(),
			Amount:   l.Amount.Float64(),
		}
	}
	return out
}
