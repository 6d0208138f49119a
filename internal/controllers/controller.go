// Package controllers implements the HTTP handlers of the expense ledger.
package controllers

import (
	"github.com/wedding-ledger/backend/internal/attachment"
	"github.com/wedding-ledger/backend/internal/config"
	"github.com/wedding-ledger/backend/internal/ledger"
	"gorm.io/gorm"
)

// Controller holds everything the handlers need.
type Controller struct {
	DB     *gorm.DB
	Ledger ledger.Ledger
	Store  attachment.Store
	Config config.Config
}

// New sets up a Controller. It creates the attachment directory if needed.
func New(db *gorm.DB, cfg config.Config) (Controller, error) {
	store, err := attachment.New(cfg.UploadDir, cfg.Allowed)
	if err != nil {
		return Controller{}, err
	}

	return Controller{
		DB: db,
		Ledger: ledger.New(db, ledger.Settings{
			Zone:         cfg.Zone,
			Budget:       cfg.Budget,
			PaymentTypes: cfg.PaymentTypes,
		}),
		Store:  store,
		Config: cfg,
	}, nil
}
