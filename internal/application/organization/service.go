package organization

import (
	"context"
	"fmt"
	"time"

	"github.com/cashdesk/backend/internal/domain/organization"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrganizationInput contains the input for creating an organization.
// Slug is derived from Name when empty.
type CreateOrganizationInput struct {
	Name string
	Slug string
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(org *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}

// Service manages organizations
type Service struct {
	repo   organization.Repository
	logger *zap.Logger
}

// NewService creates a new organization service
func NewService(repo organization.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create registers a new organization
func (s *Service) Create(ctx context.Context, input CreateOrganizationInput) (*OrganizationResponse, error) {
	org, err := organization.NewOrganization(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, org); err != nil {
		if shared.HasCode(err, shared.CodeOrganizationSlugExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	s.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)

	resp := toResponse(org)
	return &resp, nil
}

// ListForOrganization returns only the caller's own organization
func (s *Service) ListForOrganization(ctx context.Context, organizationID uuid.UUID) ([]OrganizationResponse, error) {
	orgs, err := s.repo.ListByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	responses := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		responses[i] = toResponse(org)
	}
	return responses, nil
}

// Get loads an organization by id. Organizations are not tenant-filtered rows,
// so the loaded id is checked against the requester's organization.
func (s *Service) Get(ctx context.Context, requesterOrganizationID, id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if shared.HasCode(err, shared.CodeOrganizationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if err := shared.AssertSameOrganization(org.ID, requesterOrganizationID); err != nil {
		s.logger.Warn("Cross-organization lookup denied",
			zap.String("organization_id", id.String()),
			zap.String("requester_organization_id", requesterOrganizationID.String()),
		)
		return nil, err
	}

	resp := toResponse(org)
	return &resp, nil
}
