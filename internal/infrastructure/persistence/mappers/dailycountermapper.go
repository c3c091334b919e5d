package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/videocc/videocc/internal/domain/quota"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
)

func DailyCounterToModel(c *quota.DailyCounter) (*models.DailyCounterModel, error) {
	ids := c.ContactedMemberIDs()
	if ids == nil {
		ids = []uint{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode contacted members: %w", err)
	}
	return &models.DailyCounterModel{
		ID:                 c.ID(),
		MemberID:           c.MemberID(),
		Day:                c.Day(),
		MessagesSent:       c.MessagesSent(),
		ContactedMemberIDs: datatypes.JSON(raw),
		CallCount:          c.CallCount(),
		CallSeconds:        c.CallSeconds(),
		CreatedAt:          c.CreatedAt(),
		UpdatedAt:          c.UpdatedAt(),
	}, nil
}

func DailyCounterToDomain(model *models.DailyCounterModel) (*quota.DailyCounter, error) {
	var ids []uint
	if len(model.ContactedMemberIDs) > 0 {
		if err := json.Unmarshal(model.ContactedMemberIDs, &ids); err != nil {
			return nil, fmt.Errorf("failed to decode contacted members of counter %d: %w", model.ID, err)
		}
	}
	return quota.ReconstructDailyCounter(
		model.ID,
		model.MemberID,
		model.Day,
		model.MessagesSent,
		ids,
		model.CallCount,
		model.CallSeconds,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}
