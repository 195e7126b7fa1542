package handler

import (
	"net/http"
	"testing"

	appcashflow "github.com/cashdesk/backend/internal/application/cashflow"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newStatsRouter(svc *MockStatsService, id *identity.Identity, roles ...identity.RoleName) *gin.Engine {
	h := NewCashflowHandler(svc)
	r := gin.New()
	r.GET("/cashflow/stats", asActor(id, roles...), h.Stats)
	return r
}

func TestCashflowHandler_Stats(t *testing.T) {
	t.Run("returns decimal strings", func(t *testing.T) {
		svc := new(MockStatsService)
		router := newStatsRouter(svc, newIdentity(nil), identity.RoleAdmin)
		svc.On("GetStats", mock.Anything, mock.Anything, appcashflow.StatsInput{}).Return(&appcashflow.StatsResponse{
			TotalIncomeApproved:  "150.5",
			TotalExpenseApproved: "20",
			Balance:              "130.5",
			PendingCount:         2,
		}, nil)

		rec := serve(router, http.MethodGet, "/cashflow/stats", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":{
			"totalIncomeApproved":"150.5",
			"totalExpenseApproved":"20",
			"balance":"130.5",
			"pendingCount":2
		}}`, rec.Body.String())
	})

	t.Run("branch filter", func(t *testing.T) {
		svc := new(MockStatsService)
		router := newStatsRouter(svc, newIdentity(nil), identity.RoleManager)
		branchID := uuid.New()
		svc.On("GetStats", mock.Anything, mock.Anything, mock.MatchedBy(func(in appcashflow.StatsInput) bool {
			return in.BranchID != nil && *in.BranchID == branchID && in.From != nil && in.To == nil
		})).Return(&appcashflow.StatsResponse{TotalIncomeApproved: "0", TotalExpenseApproved: "0", Balance: "0"}, nil)

		rec := serve(router, http.MethodGet, "/cashflow/stats?branchId="+branchID.String()+"&from=2024-03-01", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("operator without branch is denied", func(t *testing.T) {
		svc := new(MockStatsService)
		router := newStatsRouter(svc, newIdentity(nil), identity.RoleOperator)
		svc.On("GetStats", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrAccessDenied)

		rec := serve(router, http.MethodGet, "/cashflow/stats", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid branch id", func(t *testing.T) {
		svc := new(MockStatsService)
		router := newStatsRouter(svc, newIdentity(nil), identity.RoleAdmin)

		rec := serve(router, http.MethodGet, "/cashflow/stats?branchId=xyz", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetStats", mock.Anything, mock.Anything, mock.Anything)
	})
}
