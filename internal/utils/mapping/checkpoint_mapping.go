package mapping

import (
	"bankbook/internal/core/domain"
	"bankbook/internal/models"
)

// ToModelCheckpoint converts a domain Checkpoint to a model Checkpoint
func ToModelCheckpoint(d domain.Checkpoint) models.Checkpoint {
	return models.Checkpoint{
		CheckpointID:      d.CheckpointID,
		AccountID:         d.AccountID,
		CheckpointDate:    d.CheckpointDate,
		DeclaredBalance:   d.DeclaredBalance,
		CalculatedBalance: d.CalculatedBalance,
		AdjustmentAmount:  d.AdjustmentAmount,
		IsReconciled:      d.IsReconciled,
		Notes:             d.Notes,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCheckpoint converts a model Checkpoint to a domain Checkpoint
func ToDomainCheckpoint(m models.Checkpoint) domain.Checkpoint {
	return domain.Checkpoint{
		CheckpointID:      m.CheckpointID,
		AccountID:         m.AccountID,
		CheckpointDate:    m.CheckpointDate,
		DeclaredBalance:   m.DeclaredBalance,
		CalculatedBalance: m.CalculatedBalance,
		AdjustmentAmount:  m.AdjustmentAmount,
		IsReconciled:      m.IsReconciled,
		Notes:             m.Notes,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCheckpointSlice converts a slice of model Checkpoints to domain Checkpoints
func ToDomainCheckpointSlice(ms []models.Checkpoint) []domain.Checkpoint {
	ds := make([]domain.Checkpoint, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCheckpoint(m)
	}
	return ds
}
