package seeders

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
)

// SeedGlobalChains creates a single-level global default chain for every
// module a tenant is missing one for. Resolution requires a live global
// default per module; without it the first submission fails, so seeding
// runs at startup. Existing chains are left untouched.
func SeedGlobalChains(db *gorm.DB, tenantID string, defaultApproverID uuid.UUID) error {
	for _, module := range models.Modules {
		var count int64
		err := db.Model(&models.ApprovalSetting{}).
			Where("tenant_id = ? AND module = ? AND scope = ?", tenantID, module, models.ScopeGlobal).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		setting := models.ApprovalSetting{
			TenantID:   tenantID,
			Module:     module,
			Scope:      models.ScopeGlobal,
			LevelCount: 1,
			Levels: []models.ApprovalLevel{
				{
					Rank: 1,
					Approvers: []models.ApprovalApprover{
						{ApproverID: defaultApproverID},
					},
				},
			},
		}
		if err := db.Create(&setting).Error; err != nil {
			log.Printf("Failed to seed global chain for module %s: %v", module, err)
			return err
		}
		log.Printf("Seeded global approval chain: %s (tenant: %s)", module, tenantID)
	}

	return nil
}
