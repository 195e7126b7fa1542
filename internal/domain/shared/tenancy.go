package shared

import "github.com/google/uuid"

// AssertSameOrganization fails with ACCESS_DENIED when a resource loaded
// outside the organization filter belongs to another organization.
func AssertSameOrganization(resourceOrganizationID, requesterOrganizationID uuid.UUID) error {
	if resourceOrganizationID == uuid.Nil || resourceOrganizationID != requesterOrganizationID {
		return NewDomainError(CodeAccessDenied, "Cross-organization access denied")
	}
	return nil
}
