package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
	repo "github.com/oksasatya/realestate-api/internal/domain/repository"
	"github.com/oksasatya/realestate-api/internal/infrastructure/postgres"
	"github.com/oksasatya/realestate-api/pkg/helpers"
	"github.com/oksasatya/realestate-api/pkg/mailer"
	mailtpl "github.com/oksasatya/realestate-api/pkg/mailer/templates"
)

var halfBath = decimal.NewFromFloat(0.5)

type PropertyService struct {
	Repo     repo.PropertyRepository
	Users    repo.UserRepository
	Redis    *redis.Client
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string
	Pub      *helpers.RabbitPublisher
	CacheTTL time.Duration
}

func NewPropertyService(pr repo.PropertyRepository, ur repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, pub *helpers.RabbitPublisher, cacheTTL time.Duration) *PropertyService {
	return &PropertyService{
		Repo:     pr,
		Users:    ur,
		Redis:    rdb,
		Logger:   logger,
		ES:       es,
		ESIndex:  esIndex,
		Pub:      pub,
		CacheTTL: cacheTTL,
	}
}

func propertyCacheKey(id string) string {
	return "property:detail:" + id
}

// CreatePropertyInput deliberately has no owner field: the owner is always the
// authenticated principal, whatever the request payload claimed.
type CreatePropertyInput struct {
	Address     string
	City        string
	State       string
	ZipCode     string
	Price       decimal.Decimal
	Bedrooms    int
	Bathrooms   decimal.Decimal
	Size        int
	Description string
	Status      entity.PropertyStatus
	ImageURLs   []string
}

// UpdatePropertyInput applies only its non-nil fields. ImageURLs nil leaves
// the image set alone; non-nil (including empty) replaces it atomically.
type UpdatePropertyInput struct {
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Price       *decimal.Decimal
	Bedrooms    *int
	Bathrooms   *decimal.Decimal
	Size        *int
	Description *string
	Status      *entity.PropertyStatus
	ImageURLs   *[]string
}

func validateListing(p *entity.Property) error {
	fields := map[string]string{}
	if p.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if p.Bedrooms < 0 {
		fields["bedrooms"] = "must not be negative"
	}
	if p.Bathrooms.IsNegative() {
		fields["bathrooms"] = "must not be negative"
	} else if !p.Bathrooms.Mod(halfBath).IsZero() {
		fields["bathrooms"] = "must be a multiple of 0.5"
	}
	if p.Size <= 0 {
		fields["size"] = "must be positive"
	}
	if !p.Status.Valid() {
		fields["status"] = "must be one of: active, pending, sold"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create inserts a listing owned by the principal together with its image set.
func (s *PropertyService) Create(ctx context.Context, principal entity.Principal, in CreatePropertyInput) (*entity.Property, error) {
	if principal.Anonymous() {
		return nil, ErrUnauthenticated
	}
	p := &entity.Property{
		OwnerID:     principal.UserID,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		ZipCode:     in.ZipCode,
		Price:       in.Price,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Size:        in.Size,
		Description: in.Description,
		Status:      in.Status,
	}
	if p.Status == "" {
		p.Status = entity.StatusActive
	}
	if err := validateListing(p); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p, in.ImageURLs); err != nil {
		return nil, err
	}
	_ = s.indexProperty(ctx, p)
	return p, nil
}

// Get returns one listing if the principal may read it. A listing that exists
// but is not visible to the caller is reported as not found, same as a missing
// id: on the read path the two are indistinguishable by design.
func (s *PropertyService) Get(ctx context.Context, principal entity.Principal, id string) (*entity.Property, error) {
	p, ok := s.cachedProperty(ctx, id)
	if !ok {
		var err error
		p, err = s.Repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		s.cacheProperty(ctx, p)
	}
	if !CanRead(principal, p) {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns the listings visible to the principal, narrowed by f, newest
// first. Listing is read-only and safely restartable.
func (s *PropertyService) List(ctx context.Context, principal entity.Principal, f repo.PropertyFilter) ([]*entity.Property, error) {
	return s.Repo.ListVisible(ctx, principal.UserID, f)
}

// Update applies partial changes to an owned listing. Non-owners get
// ErrForbidden; the owner and creation time are immutable.
func (s *PropertyService) Update(ctx context.Context, principal entity.Principal, id string, in UpdatePropertyInput) (*entity.Property, error) {
	if principal.Anonymous() {
		return nil, ErrUnauthenticated
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanWrite(principal, p) {
		return nil, ErrForbidden
	}

	prevStatus := p.Status
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.State != nil {
		p.State = *in.State
	}
	if in.ZipCode != nil {
		p.ZipCode = *in.ZipCode
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.Size != nil {
		p.Size = *in.Size
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if err := validateListing(p); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, p, in.ImageURLs); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, p.ID)
	_ = s.indexProperty(ctx, p)
	if p.Status != prevStatus {
		s.notifyStatusChange(ctx, p)
	}
	return p, nil
}

// Delete removes an owned listing; image rows cascade with it.
func (s *PropertyService) Delete(ctx context.Context, principal entity.Principal, id string) error {
	if principal.Anonymous() {
		return ErrUnauthenticated
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !CanWrite(principal, p) {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, id)
	s.removeFromIndex(ctx, id)
	return nil
}

type InquiryInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Inquire enqueues an email to the owner of an active listing. The sender does
// not need an account.
func (s *PropertyService) Inquire(ctx context.Context, propertyID string, in InquiryInput) error {
	p, err := s.Repo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if p.Status != entity.StatusActive {
		return ErrNotFound
	}
	owner, err := s.Users.GetByID(ctx, p.OwnerID)
	if err != nil {
		return err
	}
	if s.Pub == nil {
		return errors.New("mail queue not available")
	}
	job := mailer.EmailJob{
		To:       owner.Email,
		Template: mailtpl.Inquiry,
		Data: map[string]any{
			"OwnerName":   owner.Name,
			"Address":     p.Address,
			"City":        p.City,
			"SenderName":  in.Name,
			"SenderEmail": in.Email,
			"SenderPhone": in.Phone,
			"Message":     in.Message,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("property_id", propertyID).Warn("failed to publish inquiry job")
		}
		return err
	}
	return nil
}

func (s *PropertyService) notifyStatusChange(ctx context.Context, p *entity.Property) {
	if s.Pub == nil {
		return
	}
	owner, err := s.Users.GetByID(ctx, p.OwnerID)
	if err != nil {
		return
	}
	job := mailer.EmailJob{
		To:       owner.Email,
		Template: mailtpl.ListingStatus,
		Data: map[string]any{
			"OwnerName": owner.Name,
			"Address":   p.Address,
			"City":      p.City,
			"Status":    string(p.Status),
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("property_id", p.ID).Warn("failed to publish status job")
	}
}

func (s *PropertyService) cachedProperty(ctx context.Context, id string) (*entity.Property, bool) {
	if s.Redis == nil {
		return nil, false
	}
	var p entity.Property
	found, err := helpers.RedisGetJSON(ctx, s.Redis, propertyCacheKey(id), &p)
	if err != nil || !found {
		return nil, false
	}
	return &p, true
}

func (s *PropertyService) cacheProperty(ctx context.Context, p *entity.Property) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, propertyCacheKey(p.ID), p, s.CacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("property_id", p.ID).Debug("property cache set failed")
	}
}

func (s *PropertyService) invalidateCache(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	_ = helpers.RedisDel(ctx, s.Redis, propertyCacheKey(id))
}

func (s *PropertyService) indexProperty(ctx context.Context, p *entity.Property) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":          p.ID,
		"owner_id":    p.OwnerID,
		"address":     p.Address,
		"city":        p.City,
		"state":       p.State,
		"zip_code":    p.ZipCode,
		"price":       p.Price.String(),
		"bedrooms":    p.Bedrooms,
		"size":        p.Size,
		"description": p.Description,
		"status":      string(p.Status),
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("property_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("property_id", p.ID).Warn("es index response error")
	}
	return nil
}

func (s *PropertyService) removeFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("property_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a full-text multi_match over listing text fields, limited to
// active listings. Backed by the Elasticsearch index, not Postgres.
func (s *PropertyService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"address^2", "city^2", "state", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": "active"},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
