package service

import (
	"context"
	"strings"
	"time"

	"github.com/SyncShire/E-Commerce/internal/constants"
	"github.com/SyncShire/E-Commerce/internal/logger"
	"github.com/SyncShire/E-Commerce/internal/models"
	"github.com/SyncShire/E-Commerce/internal/repository"
)

const returnNoteMaxRunes = 500

var adminReturnStatuses = map[string]struct{}{
	constants.ReturnStatusPending:  {},
	constants.ReturnStatusApproved: {},
	constants.ReturnStatusRejected: {},
	constants.ReturnStatusRefunded: {},
}

// ReturnService 管理端退货处理
type ReturnService struct {
	returnRepo repository.ReturnRepository
}

// NewReturnService 创建退货服务
func NewReturnService(returnRepo repository.ReturnRepository) *ReturnService {
	return &ReturnService{returnRepo: returnRepo}
}

// ListReturnsForAdmin 退货列表
func (s *ReturnService) ListReturnsForAdmin(filter repository.ReturnListFilter) ([]models.ReturnRequest, int64, error) {
	filter.Status = normalizeStatus(filter.Status)
	rows, total, err := s.returnRepo.ListAdmin(filter)
	if err != nil {
		return nil, 0, wrapStore(err)
	}
	return rows, total, nil
}

// UpdateReturnStatus 更新退货状态与备注
func (s *ReturnService) UpdateReturnStatus(ctx context.Context, id uint, status, note string) (*models.ReturnRequest, error) {
	status = normalizeStatus(status)
	if _, ok := adminReturnStatuses[status]; !ok {
		return nil, ErrReturnStatusInvalid
	}
	row, err := s.returnRepo.GetByID(id)
	if err != nil {
		return nil, wrapStore(err)
	}
	if row == nil {
		return nil, ErrReturnNotFound
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	note = truncateRunes(sanitizeText(note), returnNoteMaxRunes)
	if strings.TrimSpace(note) != "" {
		updates["admin_note"] = note
		row.AdminNote = note
	}
	if err := s.returnRepo.Update(row.ID, updates); err != nil {
		return nil, wrapStore(err)
	}
	logger.Ctx(ctx).Infow("return_status_updated", "return_id", row.ID, "order_id", row.OrderID, "status", status)
	row.Status = status
	return row, nil
}
