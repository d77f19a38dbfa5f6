package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/logging"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/dmitrijs2005/plms/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ToolPage is one page of the inventory plus the overall tool count.
type ToolPage struct {
	Tools []models.Tool
	Total int
}

type ToolService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewToolService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ToolService {
	return &ToolService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "tools"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// List returns tools ordered by last update, newest first.
func (s *ToolService) List(ctx context.Context, limit, offset int) (*ToolPage, error) {
	if limit < 1 || limit > MaxPageSize || offset < 0 {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Tools(s.db)

	tools, err := repo.List(ctx, limit, offset)
	if err != nil {
		s.log.Error(ctx, "listing tools failed", "error", err)
		return nil, common.ErrorInternal
	}
	total, err := repo.Count(ctx)
	if err != nil {
		s.log.Error(ctx, "counting tools failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &ToolPage{Tools: tools, Total: total}, nil
}

// Create validates and stores a tool, returning it with lookup names
// resolved. Status defaults to available; a German status label is
// accepted in place of the code. A taken tool number is
// common.ErrorAlreadyExists and a reference to a missing type, status or
// user is common.ErrorValidation.
func (s *ToolService) Create(ctx context.Context, in models.NewTool) (*models.Tool, error) {
	in, err := normalizeNewTool(in)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := s.now()

	var created *models.Tool
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tools(tx)

		taken, err := repo.NumberExists(ctx, in.Number)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorAlreadyExists
		}
		field, err := repo.MissingReference(ctx, in)
		if err != nil {
			return err
		}
		if field != "" {
			return fmt.Errorf("%w: unknown %s", common.ErrorValidation, field)
		}

		if err := repo.Create(ctx, id, in, now); err != nil {
			return err
		}
		t, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorValidation):
		s.log.Info(ctx, "tool rejected", "number", in.Number, "reason", err)
		return nil, common.ErrorValidation
	case errors.Is(err, common.ErrorAlreadyExists):
		s.log.Info(ctx, "tool number taken", "number", in.Number)
		return nil, common.ErrorAlreadyExists
	default:
		s.log.Error(ctx, "creating tool failed", "number", in.Number, "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "tool created", "tool_id", id, "number", in.Number)
	return created, nil
}

func normalizeNewTool(in models.NewTool) (models.NewTool, error) {
	in.Number = strings.TrimSpace(in.Number)
	in.Designation = strings.TrimSpace(in.Designation)
	in.TypeID = strings.TrimSpace(in.TypeID)
	in.AssignedUserID = strings.TrimSpace(in.AssignedUserID)
	if in.Number == "" || in.Designation == "" {
		return in, common.ErrorValidation
	}

	if in.Category != "" {
		c := models.ParseToolCategory(in.Category)
		if c == models.CategoryUnknown {
			return in, common.ErrorValidation
		}
		in.Category = string(c)
	}

	if in.StatusID == "" {
		in.StatusID = string(models.StatusAvailable)
	}
	st := models.ParseToolStatus(in.StatusID)
	if st == models.StatusUnknown {
		return in, common.ErrorValidation
	}
	in.StatusID = string(st)

	if in.Stock < 0 || in.UnitsSold < 0 {
		return in, common.ErrorValidation
	}
	if in.DemandQuantity != nil && *in.DemandQuantity < 0 {
		return in, common.ErrorValidation
	}
	return in, nil
}
