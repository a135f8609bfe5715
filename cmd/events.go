package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"nexus/domain/events"
	"nexus/infrastructure"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print domain events exported to NATS until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.NATSServers == "" {
			return fmt.Errorf("NATS_SERVERS is required to tail events")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := infrastructure.NewNATSClient(cfg.NATSServers, "nexus-events")
		if replay, _ := cmd.Flags().GetBool("replay"); replay {
			client.ReplayFromStart()
		}
		if err := client.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer client.Close()

		subscriber := infrastructure.NewNATSEventSubscriber(client, infrastructure.NewEventSubjectMapper())
		var mu sync.Mutex
		out := json.NewEncoder(cmd.OutOrStdout())
		for _, eventType := range infrastructure.DomainEventTypes() {
			err := subscriber.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				return out.Encode(map[string]any{"type": event.Type(), "event": event})
			})
			if err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", eventType, err)
			}
		}

		log.Info("Tailing domain events, press Ctrl+C to stop")
		<-ctx.Done()
		return nil
	},
}

func init() {
	eventsCmd.Flags().Bool("replay", false, "Print the retained stream before new events")
	rootCmd.AddCommand(eventsCmd)
}
