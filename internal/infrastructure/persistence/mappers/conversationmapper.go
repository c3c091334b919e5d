package mappers

import (
	"github.com/videocc/videocc/internal/domain/conversation"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
)

func PermissionToModel(p *conversation.Permission) *models.ConversationStateModel {
	return &models.ConversationStateModel{
		ID:                      p.ID(),
		SenderID:                p.SenderID(),
		ReceiverID:              p.ReceiverID(),
		LastMessageBySenderAt:   p.LastMessageBySenderAt(),
		LastMessageByReceiverAt: p.LastMessageByReceiverAt(),
		CanSenderMessageAgain:   p.CanSenderMessageAgain(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	}
}

func PermissionToDomain(model *models.ConversationStateModel) *conversation.Permission {
	return conversation.ReconstructPermission(
		model.ID,
		model.SenderID,
		model.ReceiverID,
		model.LastMessageBySenderAt,
		model.LastMessageByReceiverAt,
		model.CanSenderMessageAgain,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func MessageToModel(m *conversation.Message) *models.MessageModel {
	return &models.MessageModel{
		ID:         m.ID(),
		SenderID:   m.SenderID(),
		ReceiverID: m.ReceiverID(),
		Content:    m.Content(),
		CreatedAt:  m.CreatedAt(),
	}
}
