package handler

import (
	"net/http"
	"testing"
	"time"

	appbranch "github.com/cashdesk/backend/internal/application/branch"
	apporg "github.com/cashdesk/backend/internal/application/organization"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrganizationHandler(t *testing.T) {
	id := newIdentity(nil)

	newRouter := func(svc *MockOrganizationService) *gin.Engine {
		h := NewOrganizationHandler(svc)
		r := gin.New()
		g := r.Group("/organizations", asActor(id, identity.RoleAdmin))
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		return r
	}

	t.Run("create with derived slug", func(t *testing.T) {
		svc := new(MockOrganizationService)
		svc.On("Create", mock.Anything, apporg.CreateOrganizationInput{Name: "Acme Exchange"}).
			Return(&apporg.OrganizationResponse{ID: uuid.New(), Name: "Acme Exchange", Slug: "acme-exchange", CreatedAt: time.Now()}, nil)

		rec := serve(newRouter(svc), http.MethodPost, "/organizations", `{"name":"Acme Exchange"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		_, data := decodeResponse(t, rec)
		assert.Equal(t, "acme-exchange", data["slug"])
	})

	t.Run("slug conflict", func(t *testing.T) {
		svc := new(MockOrganizationService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, shared.ErrOrganizationSlugExists)

		rec := serve(newRouter(svc), http.MethodPost, "/organizations", `{"name":"Acme","slug":"acme"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid slug", func(t *testing.T) {
		svc := new(MockOrganizationService)

		rec := serve(newRouter(svc), http.MethodPost, "/organizations", `{"name":"Acme","slug":"Not A Slug"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("list is scoped to caller organization", func(t *testing.T) {
		svc := new(MockOrganizationService)
		svc.On("ListForOrganization", mock.Anything, id.OrganizationID).
			Return([]apporg.OrganizationResponse{{ID: id.OrganizationID, Name: "Acme", Slug: "acme"}}, nil)

		rec := serve(newRouter(svc), http.MethodGet, "/organizations", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("get own organization", func(t *testing.T) {
		svc := new(MockOrganizationService)
		svc.On("Get", mock.Anything, id.OrganizationID, id.OrganizationID).
			Return(&apporg.OrganizationResponse{ID: id.OrganizationID, Name: "Acme", Slug: "acme"}, nil)

		rec := serve(newRouter(svc), http.MethodGet, "/organizations/"+id.OrganizationID.String(), "")

		assert.Equal(t, http.StatusOK, rec.Code)
		_, data := decodeResponse(t, rec)
		assert.Equal(t, "acme", data["slug"])
	})

	t.Run("get other organization is forbidden", func(t *testing.T) {
		other := uuid.New()
		svc := new(MockOrganizationService)
		svc.On("Get", mock.Anything, id.OrganizationID, other).
			Return(nil, shared.NewDomainError(shared.CodeAccessDenied, "Cross-organization access denied"))

		rec := serve(newRouter(svc), http.MethodGet, "/organizations/"+other.String(), "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("get with invalid id", func(t *testing.T) {
		svc := new(MockOrganizationService)

		rec := serve(newRouter(svc), http.MethodGet, "/organizations/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBranchHandler(t *testing.T) {
	id := newIdentity(nil)

	newRouter := func(svc *MockBranchService) *gin.Engine {
		h := NewBranchHandler(svc)
		r := gin.New()
		g := r.Group("/branches", asActor(id, identity.RoleAdmin))
		g.POST("", h.Create)
		g.GET("", h.List)
		return r
	}

	t.Run("create in caller organization", func(t *testing.T) {
		svc := new(MockBranchService)
		limit := "2500.5"
		svc.On("Create", mock.Anything, id.OrganizationID, mock.MatchedBy(func(in appbranch.CreateBranchInput) bool {
			return in.Name == "Downtown" && in.CashLimit != nil && in.CashLimit.Equal(decimal.RequireFromString("2500.50"))
		})).Return(&appbranch.BranchResponse{ID: uuid.New(), OrganizationID: id.OrganizationID, Name: "Downtown", CashLimit: &limit}, nil)

		rec := serve(newRouter(svc), http.MethodPost, "/branches", `{"name":"Downtown","cashLimit":"2500.50"}`)

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		_, data := decodeResponse(t, rec)
		assert.Equal(t, "2500.5", data["cashLimit"])
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc := new(MockBranchService)
		svc.On("Create", mock.Anything, id.OrganizationID, mock.Anything).Return(nil, shared.ErrBranchAlreadyExists)

		rec := serve(newRouter(svc), http.MethodPost, "/branches", `{"name":"Downtown"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("cash limit precision", func(t *testing.T) {
		svc := new(MockBranchService)

		rec := serve(newRouter(svc), http.MethodPost, "/branches", `{"name":"Downtown","cashLimit":1.001}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		svc := new(MockBranchService)
		svc.On("List", mock.Anything, id.OrganizationID).Return([]appbranch.BranchResponse{}, nil)

		rec := serve(newRouter(svc), http.MethodGet, "/branches", "")

		assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
	})
}
