// Package mappers converts between domain aggregates and gorm models.
package mappers

import (
	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
)

func MemberToModel(m *member.Member) *models.MemberModel {
	return &models.MemberModel{
		ID:           m.ID(),
		Username:     m.Username(),
		Gender:       m.Gender().String(),
		IsVIP:        m.IsVIP(),
		VIPExpiresAt: m.VIPExpiresAt(),
		IsAdmin:      m.IsAdmin(),
		CreatedAt:    m.CreatedAt(),
		UpdatedAt:    m.UpdatedAt(),
	}
}

func MemberToDomain(model *models.MemberModel) *member.Member {
	return member.ReconstructMember(
		model.ID,
		model.Username,
		member.ParseGender(model.Gender),
		model.IsVIP,
		model.VIPExpiresAt,
		model.IsAdmin,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
