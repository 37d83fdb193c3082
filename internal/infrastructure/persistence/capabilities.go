package persistence

import (
	"gorm.io/gorm"

	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// schemaVersion identifies the schema this build expects. Bumped together
// with the migrations directory.
const schemaVersion = "2025.3"

// ProbeCapabilities inspects the live schema once at startup. Handlers branch
// on the returned descriptor instead of probing table metadata per request.
func ProbeCapabilities(db *gorm.DB) document.Capabilities {
	migrator := db.Migrator()

	var features []string
	if migrator.HasColumn(&models.Customer{}, "credit_limit") {
		features = append(features, document.FeatureCustomerCredit)
	}
	if migrator.HasColumn(&models.Item{}, "barcode") {
		features = append(features, document.FeatureItemBarcodes)
	}
	if migrator.HasTable(&models.ActivityEntry{}) {
		features = append(features, document.FeatureActivityLog)
	}

	return document.NewCapabilities(schemaVersion, features...)
}
