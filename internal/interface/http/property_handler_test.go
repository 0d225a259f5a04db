package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/realestate-api/internal/application"
	"github.com/oksasatya/realestate-api/internal/domain/entity"
	repo "github.com/oksasatya/realestate-api/internal/domain/repository"
	"github.com/oksasatya/realestate-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// fakePropertySvc records the arguments each handler forwards.
type fakePropertySvc struct {
	lastPrincipal entity.Principal
	lastFilter    repo.PropertyFilter
	lastCreate    application.CreatePropertyInput
	lastUpdate    application.UpdatePropertyInput
	lastID        string

	property *entity.Property
	list     []*entity.Property
	err      error
}

func (f *fakePropertySvc) Create(_ context.Context, p entity.Principal, in application.CreatePropertyInput) (*entity.Property, error) {
	f.lastPrincipal, f.lastCreate = p, in
	return f.property, f.err
}

func (f *fakePropertySvc) Get(_ context.Context, p entity.Principal, id string) (*entity.Property, error) {
	f.lastPrincipal, f.lastID = p, id
	return f.property, f.err
}

func (f *fakePropertySvc) List(_ context.Context, p entity.Principal, filter repo.PropertyFilter) ([]*entity.Property, error) {
	f.lastPrincipal, f.lastFilter = p, filter
	return f.list, f.err
}

func (f *fakePropertySvc) Update(_ context.Context, p entity.Principal, id string, in application.UpdatePropertyInput) (*entity.Property, error) {
	f.lastPrincipal, f.lastID, f.lastUpdate = p, id, in
	return f.property, f.err
}

func (f *fakePropertySvc) Delete(_ context.Context, p entity.Principal, id string) error {
	f.lastPrincipal, f.lastID = p, id
	return f.err
}

func (f *fakePropertySvc) Inquire(_ context.Context, propertyID string, _ application.InquiryInput) error {
	f.lastID = propertyID
	return f.err
}

func (f *fakePropertySvc) Search(_ context.Context, _ string, _ int) ([]map[string]any, error) {
	return []map[string]any{}, f.err
}

func newTestRouter(svc *fakePropertySvc, userID string) *gin.Engine {
	h := NewPropertyHandler(svc, nil)
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) { c.Set("userID", userID) })
	}
	r.GET("/api/properties", h.List)
	r.GET("/api/properties/:id", h.Get)
	r.POST("/api/properties", h.Create)
	r.PATCH("/api/properties/:id", h.Update)
	r.DELETE("/api/properties/:id", h.Delete)
	r.POST("/api/properties/:id/inquiries", h.Inquire)
	return r
}

func sampleProperty() *entity.Property {
	return &entity.Property{
		ID: "p1", OwnerID: "owner-1", OwnerName: "Demo Agent",
		Address: "114 Maple Street", City: "Austin", State: "TX", ZipCode: "78701",
		Price: decimal.NewFromInt(450000), Bedrooms: 3, Bathrooms: decimal.NewFromInt(2),
		Size: 1850, Status: entity.StatusActive,
		Images: []entity.PropertyImage{{ID: 7, PropertyID: "p1", ImageURL: "https://img.example/1.jpg"}},
	}
}

func TestListParsesFilters(t *testing.T) {
	svc := &fakePropertySvc{list: []*entity.Property{sampleProperty()}}
	r := newTestRouter(svc, "viewer-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/properties?min_price=100000&max_price=500000&bedrooms=2&location=aus&status=active", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "viewer-1", svc.lastPrincipal.UserID)
	require.NotNil(t, svc.lastFilter.MinPrice)
	assert.True(t, svc.lastFilter.MinPrice.Equal(decimal.NewFromInt(100000)))
	require.NotNil(t, svc.lastFilter.MaxPrice)
	require.NotNil(t, svc.lastFilter.Bedrooms)
	assert.Equal(t, 2, *svc.lastFilter.Bedrooms)
	assert.Equal(t, "aus", svc.lastFilter.Location)
	assert.Equal(t, entity.StatusActive, svc.lastFilter.Status)
}

func TestListRejectsMalformedParams(t *testing.T) {
	svc := &fakePropertySvc{}
	r := newTestRouter(svc, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/properties?min_price=abc&bedrooms=-1&status=bogus", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "min_price")
	assert.Contains(t, body.Error, "bedrooms")
	assert.Contains(t, body.Error, "status")
}

func TestGetResponseShape(t *testing.T) {
	svc := &fakePropertySvc{property: sampleProperty()}
	r := newTestRouter(svc, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/properties/p1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data propertyView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "p1", body.Data.ID)
	assert.Equal(t, "owner-1", body.Data.Owner)
	assert.Equal(t, "Demo Agent", body.Data.OwnerName)
	require.Len(t, body.Data.Images, 1)
	assert.Equal(t, int64(7), body.Data.Images[0].ID)
	assert.Equal(t, "https://img.example/1.jpg", body.Data.Images[0].ImageURL)
}

func TestGetNotFound(t *testing.T) {
	svc := &fakePropertySvc{err: application.ErrNotFound}
	r := newTestRouter(svc, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/properties/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateForwardsPayload(t *testing.T) {
	svc := &fakePropertySvc{property: sampleProperty()}
	r := newTestRouter(svc, "owner-1")

	payload := `{
		"address": "114 Maple Street",
		"city": "Austin",
		"state": "TX",
		"zip_code": "78701",
		"price": "450000",
		"bedrooms": 3,
		"bathrooms": "2",
		"size": 1850,
		"image_urls": ["https://img.example/1.jpg"]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "owner-1", svc.lastPrincipal.UserID)
	assert.Equal(t, "114 Maple Street", svc.lastCreate.Address)
	assert.True(t, svc.lastCreate.Price.Equal(decimal.NewFromInt(450000)))
	assert.Equal(t, []string{"https://img.example/1.jpg"}, svc.lastCreate.ImageURLs)
}

func TestCreateRejectsBadPayload(t *testing.T) {
	svc := &fakePropertySvc{}
	r := newTestRouter(svc, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(`{"status":"bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateForbidden(t *testing.T) {
	svc := &fakePropertySvc{err: application.ErrForbidden}
	r := newTestRouter(svc, "stranger")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/properties/p1", strings.NewReader(`{"price":"475000"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdatePartialFields(t *testing.T) {
	svc := &fakePropertySvc{property: sampleProperty()}
	r := newTestRouter(svc, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/properties/p1", strings.NewReader(`{"status":"sold","image_urls":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "p1", svc.lastID)
	assert.Nil(t, svc.lastUpdate.Price)
	require.NotNil(t, svc.lastUpdate.Status)
	assert.Equal(t, entity.StatusSold, *svc.lastUpdate.Status)
	require.NotNil(t, svc.lastUpdate.ImageURLs)
	assert.Empty(t, *svc.lastUpdate.ImageURLs)
}

func TestDeleteNoContent(t *testing.T) {
	svc := &fakePropertySvc{}
	r := newTestRouter(svc, "owner-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/properties/p1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "p1", svc.lastID)
}

func TestInquireAccepted(t *testing.T) {
	svc := &fakePropertySvc{}
	r := newTestRouter(svc, "")

	payload := `{"name":"Sam","email":"sam@example.com","message":"Is this still available?"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/properties/p1/inquiries", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "p1", svc.lastID)
}
