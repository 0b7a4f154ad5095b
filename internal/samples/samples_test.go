package samples

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Kessler0712/ColdMailer/internal/recipients"
	"github.com/Kessler0712/ColdMailer/pkg/config"
)

func TestWriteConfig_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := WriteConfig(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config must pass validation: %v", err)
	}
	if cfg.Email.SMTPServer != "smtp.gmail.com" {
		t.Fatalf("server=%q", cfg.Email.SMTPServer)
	}
	p := cfg.Policy()
	if p.MaxPerHour != 50 {
		t.Fatalf("policy=%+v", p)
	}
}

func TestWriteRecipients_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipients.csv")
	if err := WriteRecipients(path); err != nil {
		t.Fatal(err)
	}

	recs, err := recipients.Load(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Email() != "john.doe@example.com" {
		t.Fatalf("record 0: %v", recs[0])
	}
	if recs[1]["company"] != "StartupXYZ" {
		t.Fatalf("record 1: %v", recs[1])
	}
}
