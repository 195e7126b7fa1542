package branch

import (
	"context"
	"fmt"
	"time"

	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBranchInput contains the input for creating a branch
type CreateBranchInput struct {
	Name      string
	Code      *string
	CashLimit *decimal.Decimal
}

// BranchResponse represents a branch in API responses. CashLimit is a decimal string.
type BranchResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	Code           *string   `json:"code"`
	CashLimit      *string   `json:"cashLimit"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ToBranchResponse converts a domain branch to its response
func ToBranchResponse(b *branch.Branch) BranchResponse {
	resp := BranchResponse{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		Name:           b.Name,
		Code:           b.Code,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.CashLimit != nil {
		limit := b.CashLimit.String()
		resp.CashLimit = &limit
	}
	return resp
}

// Service manages the branch registry
type Service struct {
	repo   branch.Repository
	logger *zap.Logger
}

// NewService creates a new branch service
func NewService(repo branch.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create adds a branch to organizationID
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, input CreateBranchInput) (*BranchResponse, error) {
	b, err := branch.NewBranch(organizationID, input.Name, input.Code, input.CashLimit)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if shared.HasCode(err, shared.CodeBranchAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}

	s.logger.Info("Branch created",
		zap.String("branch_id", b.ID.String()),
		zap.String("organization_id", organizationID.String()),
		zap.String("name", b.Name),
	)

	resp := ToBranchResponse(b)
	return &resp, nil
}

// List returns the organization's branches, newest first
func (s *Service) List(ctx context.Context, organizationID uuid.UUID) ([]BranchResponse, error) {
	branches, err := s.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	responses := make([]BranchResponse, len(branches))
	for i, b := range branches {
		responses[i] = ToBranchResponse(b)
	}
	return responses, nil
}

// AssertExists fails with BRANCH_NOT_FOUND unless branchID belongs to organizationID
func (s *Service) AssertExists(ctx context.Context, organizationID, branchID uuid.UUID) error {
	exists, err := s.repo.ExistsInOrganization(ctx, organizationID, branchID)
	if err != nil {
		return fmt.Errorf("failed to check branch: %w", err)
	}
	if !exists {
		return shared.ErrBranchNotFound
	}
	return nil
}
