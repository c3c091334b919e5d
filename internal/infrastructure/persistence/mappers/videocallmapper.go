package mappers

import (
	"github.com/videocc/videocc/internal/domain/videocall"
	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
)

func VideoCallSessionToModel(s *videocall.Session) *models.VideoCallSessionModel {
	var txID *string
	if s.TransactionID() != "" {
		id := s.TransactionID()
		txID = &id
	}
	return &models.VideoCallSessionModel{
		ID:              s.ID(),
		CallerID:        s.CallerID(),
		ReceiverID:      s.ReceiverID(),
		IsMatch:         s.IsMatch(),
		CostPerMinute:   s.CostPerMinute(),
		Status:          string(s.Status()),
		DurationSeconds: s.DurationSeconds(),
		TotalCost:       s.TotalCost(),
		PaymentStatus:   string(s.PaymentStatus()),
		PaymentMethod:   string(s.PaymentMethod()),
		TransactionID:   txID,
		StartedAt:       s.StartedAt(),
		EndedAt:         s.EndedAt(),
		BilledAt:        s.BilledAt(),
	}
}

func VideoCallSessionToDomain(model *models.VideoCallSessionModel) *videocall.Session {
	txID := ""
	if model.TransactionID != nil {
		txID = *model.TransactionID
	}
	return videocall.ReconstructSession(
		model.ID,
		model.CallerID,
		model.ReceiverID,
		model.IsMatch,
		model.CostPerMinute,
		videocall.Status(model.Status),
		model.DurationSeconds,
		model.TotalCost,
		videocall.PaymentStatus(model.PaymentStatus),
		videocall.PaymentMethod(model.PaymentMethod),
		txID,
		model.StartedAt,
		model.EndedAt,
		model.BilledAt,
	)
}
