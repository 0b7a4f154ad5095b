package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kessler0712/ColdMailer/internal/campaign"
	"github.com/Kessler0712/ColdMailer/internal/recipients"
	"github.com/Kessler0712/ColdMailer/internal/samples"
	"github.com/Kessler0712/ColdMailer/internal/status"
	"github.com/Kessler0712/ColdMailer/internal/transport"
	"github.com/Kessler0712/ColdMailer/pkg/config"
	"github.com/Kessler0712/ColdMailer/pkg/logx"
	"github.com/Kessler0712/ColdMailer/pkg/rmq"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.json", "configuration file path")
	recipientsPath := flag.String("recipients", "recipients.csv", "recipients CSV file path")
	dryRun := flag.Bool("dry-run", false, "run the full pipeline without sending emails")
	testRun := flag.Bool("test", false, "use test.csv instead of the recipients file")
	createSamples := flag.Bool("create-samples", false, "create sample config and recipients files")
	flag.Parse()

	// Missing .env is fine, the OS environment still applies.
	_ = godotenv.Load()

	logx.Init()
	defer logx.Sync()
	log := logx.L()

	if *createSamples {
		if err := samples.WriteConfig("config.json"); err != nil {
			log.Errorw("sample_config_error", "error", err)
			return 1
		}
		if err := samples.WriteRecipients("recipients.csv"); err != nil {
			log.Errorw("sample_recipients_error", "error", err)
			return 1
		}
		fmt.Println("Sample files created. Please edit config.json and recipients.csv before running.")
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorw("config_load_error", "path", *configPath, "error", err)
		return 1
	}
	log.Infow("config_loaded", "path", *configPath)

	recFile := *recipientsPath
	if *testRun {
		recFile = "test.csv"
	}
	recs, err := recipients.Load(recFile, log)
	if err != nil {
		log.Errorw("recipients_load_error", "path", recFile, "error", err)
		return 1
	}

	gw := transport.NewSMTP(cfg.Email.SMTPServer, cfg.Email.SMTPPort, cfg.Email.SenderEmail, cfg.Email.SenderPassword)
	policy := cfg.Policy()
	lim := campaign.NewLimiter(policy, time.Now().UnixNano())
	rend := campaign.Renderer{Fallback: cfg.Template.MissingFieldFallback}
	d := campaign.NewDispatcher(gw, lim, rend, log)

	if url := os.Getenv("RMQ_URL"); url != "" {
		pub, err := rmq.NewPublisher(url, getenv("QUEUE", "campaign_events"))
		if err != nil {
			log.Errorw("rmq_init_error", "error", err)
			return 1
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Warnw("rmq_publisher_close_error", "error", err)
			}
		}()
		d.Events = pub
		log.Infow("event_publishing_enabled", "url", url)
	}

	if addr := os.Getenv("STATUS_ADDR"); addr != "" {
		srv := status.NewHTTPServer(addr, d)
		go func() {
			log.Infow("status_listen_start", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("status_server_error", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warnw("status_shutdown_error", "error", err)
			}
		}()
	}

	mode := campaign.Live
	if *dryRun {
		mode = campaign.DryRun
		log.Infow("dry_run_mode", "note", "no emails will be sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, runErr := d.Run(ctx, cfg.CampaignTemplate(), recs, policy, mode)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Errorw("campaign_run_error", "error", runErr)
	}

	fmt.Printf("\nCampaign Summary:\n")
	fmt.Printf("Emails sent: %d\n", sum.Sent)
	fmt.Printf("Emails failed: %d\n", sum.Failed)
	if sum.Skipped > 0 {
		fmt.Printf("Emails skipped (dry run): %d\n", sum.Skipped)
	}

	if sum.Failed > 0 {
		return 1
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
