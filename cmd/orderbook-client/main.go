package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/dimajoyti/orderbook-aggregator/api/proto"
)

func main() {
	addr := flag.String("addr", "localhost:5005", "orderbook-aggregator gRPC address")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	client := pb.NewOrderbookAggregatorClient(conn)

	stream, err := client.BookSummary(context.Background(), &pb.Empty{})
	if err != nil {
		log.Fatalf("open BookSummary stream: %v", err)
	}

	for {
		summary, err := stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Fatalf("receive summary: %v", err)
		}

		fmt.Printf("spread=%.8f\n", summary.Spread)
		for _, bid := range summary.Bids {
			fmt.Printf("  bid %-10s price=%.8f amount=%.8f\n", bid.Exchange, bid.Price, bid.Amount)
		}
		for _, ask := range summary.Asks {
			fmt.Printf("  ask %-10s price=%.8f amount=%.8f\n", ask.Exchange, ask.Price, ask.Amount)
		}
	}
}
