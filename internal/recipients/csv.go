// Package recipients loads the campaign recipient list from a CSV file
// with a header row, one record per row.
package recipients

import (
	"encoding/csv"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Kessler0712/ColdMailer/internal/campaign"
)

// Load reads all rows into records. The file must have an "email"
// column; rows whose email is blank or not RFC-shaped are kept (the
// engine records them as failed outcomes instead of aborting the
// campaign), but the malformed address is cleared and logged.
func Load(path string, log *zap.SugaredLogger) ([]campaign.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipients file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read recipients file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("recipients file %s is empty", path)
	}

	header := rows[0]
	emailCol := -1
	for i, name := range header {
		if strings.TrimSpace(strings.ToLower(name)) == "email" {
			emailCol = i
			break
		}
	}
	if emailCol < 0 {
		return nil, fmt.Errorf("recipients file %s has no email column", path)
	}

	records := make([]campaign.Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec := make(campaign.Record, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[strings.TrimSpace(name)] = strings.TrimSpace(row[i])
			}
		}
		if addr := rec.Email(); addr != "" {
			if _, err := mail.ParseAddress(addr); err != nil {
				log.Warnw("invalid_recipient_email", "row", n+2, "email", addr)
				delete(rec, "email")
			}
		}
		records = append(records, rec)
	}

	log.Infow("recipients_loaded", "file", path, "count", len(records))
	return records, nil
}
