package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realestate-api/internal/application"
	"github.com/oksasatya/realestate-api/internal/domain/entity"
	repo "github.com/oksasatya/realestate-api/internal/domain/repository"
	"github.com/oksasatya/realestate-api/pkg/response"
	"github.com/oksasatya/realestate-api/pkg/validation"
)

// PropertyService is the slice of the application layer this handler needs;
// narrowed to an interface so handler tests can swap in a fake.
type PropertyService interface {
	Create(ctx context.Context, principal entity.Principal, in application.CreatePropertyInput) (*entity.Property, error)
	Get(ctx context.Context, principal entity.Principal, id string) (*entity.Property, error)
	List(ctx context.Context, principal entity.Principal, f repo.PropertyFilter) ([]*entity.Property, error)
	Update(ctx context.Context, principal entity.Principal, id string, in application.UpdatePropertyInput) (*entity.Property, error)
	Delete(ctx context.Context, principal entity.Principal, id string) error
	Inquire(ctx context.Context, propertyID string, in application.InquiryInput) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type PropertyHandler struct {
	Svc    PropertyService
	Logger *logrus.Logger
}

func NewPropertyHandler(svc PropertyService, logger *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{Svc: svc, Logger: logger}
}

// imageView / propertyView are the explicit per-operation field allowlists;
// nothing is serialized straight off the storage schema.
type imageView struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
}

type propertyView struct {
	ID          string          `json:"id"`
	Owner       string          `json:"owner"`
	OwnerName   string          `json:"owner_name"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	ZipCode     string          `json:"zip_code"`
	Price       decimal.Decimal `json:"price"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   decimal.Decimal `json:"bathrooms"`
	Size        int             `json:"size"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Images      []imageView     `json:"images"`
}

func viewOf(p *entity.Property) propertyView {
	images := make([]imageView, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageView{ID: img.ID, ImageURL: img.ImageURL})
	}
	return propertyView{
		ID:          p.ID,
		Owner:       p.OwnerID,
		OwnerName:   p.OwnerName,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		ZipCode:     p.ZipCode,
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Size:        p.Size,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Images:      images,
	}
}

type createPropertyRequest struct {
	Address     string          `json:"address" binding:"required"`
	City        string          `json:"city" binding:"required"`
	State       string          `json:"state" binding:"required"`
	ZipCode     string          `json:"zip_code" binding:"required,zip"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Bedrooms    int             `json:"bedrooms" binding:"gte=0"`
	Bathrooms   decimal.Decimal `json:"bathrooms"`
	Size        int             `json:"size" binding:"required,gt=0"`
	Description string          `json:"description"`
	Status      string          `json:"status" binding:"omitempty,listingstatus"`
	ImageURLs   []string        `json:"image_urls" binding:"omitempty,dive,url"`
}

type updatePropertyRequest struct {
	Address     *string          `json:"address"`
	City        *string          `json:"city"`
	State       *string          `json:"state"`
	ZipCode     *string          `json:"zip_code" binding:"omitempty,zip"`
	Price       *decimal.Decimal `json:"price"`
	Bedrooms    *int             `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms   *decimal.Decimal `json:"bathrooms"`
	Size        *int             `json:"size" binding:"omitempty,gt=0"`
	Description *string          `json:"description"`
	Status      *string          `json:"status" binding:"omitempty,listingstatus"`
	ImageURLs   *[]string        `json:"image_urls" binding:"omitempty,dive,url"`
}

type inquiryRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required,min=10,max=4000"`
}

// parseListFilter reads the listing query parameters. Malformed numerics are
// collected per-field so the caller gets one 400 with all of them.
func parseListFilter(c *gin.Context) (repo.PropertyFilter, map[string]string) {
	var f repo.PropertyFilter
	bad := map[string]string{}

	decimalParam := func(name string) *decimal.Decimal {
		v := c.Query(name)
		if v == "" {
			return nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			bad[name] = "must be a number"
			return nil
		}
		return &d
	}
	intParam := func(name string) *int {
		v := c.Query(name)
		if v == "" {
			return nil
		}
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			bad[name] = "must be a non-negative integer"
			return nil
		}
		return &i
	}

	f.MinPrice = decimalParam("min_price")
	f.MaxPrice = decimalParam("max_price")
	f.MinSize = intParam("min_size")
	f.MaxSize = intParam("max_size")
	f.Bedrooms = intParam("bedrooms")
	f.BedroomsExact = intParam("bedrooms_exact")
	f.Location = c.Query("location")
	f.City = c.Query("city")
	f.State = c.Query("state")
	f.ZipCode = c.Query("zip_code")
	if v := c.Query("status"); v != "" {
		st := entity.PropertyStatus(v)
		if !st.Valid() {
			bad["status"] = "must be one of: active, pending, sold"
		} else {
			f.Status = st
		}
	}
	if len(bad) > 0 {
		return f, bad
	}
	return f, nil
}

// List GET /api/properties (optional auth)
func (h *PropertyHandler) List(c *gin.Context) {
	f, bad := parseListFilter(c)
	if bad != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query parameters", bad)
		return
	}
	props, err := h.Svc.List(c.Request.Context(), principalFrom(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	views := make([]propertyView, 0, len(props))
	for _, p := range props {
		views = append(views, viewOf(p))
	}
	response.Success(c, http.StatusOK, views, "properties", map[string]any{"count": len(views)})
}

// Get GET /api/properties/:id (optional auth)
func (h *PropertyHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, viewOf(p), "property", nil)
}

// Create POST /api/properties (auth required)
func (h *PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), principalFrom(c), application.CreatePropertyInput{
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Size:        req.Size,
		Description: req.Description,
		Status:      entity.PropertyStatus(req.Status),
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, viewOf(p), "property created", nil)
}

// Update PUT/PATCH /api/properties/:id (auth required, owner only)
func (h *PropertyHandler) Update(c *gin.Context) {
	var req updatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.UpdatePropertyInput{
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Size:        req.Size,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	}
	if req.Status != nil {
		st := entity.PropertyStatus(*req.Status)
		in.Status = &st
	}
	p, err := h.Svc.Update(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, viewOf(p), "property updated", nil)
}

// Delete DELETE /api/properties/:id (auth required, owner only)
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search GET /api/properties/search?q= (public, ES-backed)
func (h *PropertyHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// Inquire POST /api/properties/:id/inquiries (public, rate limited)
func (h *PropertyHandler) Inquire(c *gin.Context) {
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.Inquire(c.Request.Context(), c.Param("id"), application.InquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusAccepted, map[string]any{"enqueued": true}, "inquiry sent", nil)
}
