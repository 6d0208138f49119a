package test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/attachment"
	"github.com/wedding-ledger/backend/internal/config"
)

// Kolkata is the fixed zone used in tests. It does not depend on the
// time zone database.
var Kolkata = time.FixedZone("IST", 5*60*60+30*60)

// Config returns the default configuration with the attachment store in
// a temporary directory.
func Config(t *testing.T) config.Config {
	return config.Config{
		Port:            8080,
		DatabaseURL:     TmpFile(t),
		UploadDir:       filepath.Join(t.TempDir(), "uploads"),
		Budget:          decimal.NewFromInt(1000000),
		Zone:            Kolkata,
		Timezone:        "Asia/Kolkata",
		CurrencySymbol:  "₹",
		Locale:          "en-IN",
		DefaultCategory: "Misc",
		PaymentTypes:    []string{"Advance", "Final", "Other"},
		Allowed:         attachment.DefaultAllowed,
		SecretKey:       "test-secret",
	}
}
