package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
	repo "github.com/oksasatya/realestate-api/internal/domain/repository"
	"github.com/oksasatya/realestate-api/internal/infrastructure/postgres"
)

type mockPropertyRepo struct {
	mock.Mock
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *entity.Property, imageURLs []string) error {
	args := m.Called(ctx, p, imageURLs)
	return args.Error(0)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *entity.Property, imageURLs *[]string) error {
	args := m.Called(ctx, p, imageURLs)
	return args.Error(0)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPropertyRepo) ListVisible(ctx context.Context, viewerID string, f repo.PropertyFilter) ([]*entity.Property, error) {
	args := m.Called(ctx, viewerID, f)
	if v := args.Get(0); v != nil {
		return v.([]*entity.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newTestService(pr *mockPropertyRepo, ur *mockUserRepo) *PropertyService {
	return NewPropertyService(pr, ur, nil, nil, nil, "", nil, 0)
}

func validCreateInput() CreatePropertyInput {
	return CreatePropertyInput{
		Address:   "114 Maple Street",
		City:      "Austin",
		State:     "TX",
		ZipCode:   "78701",
		Price:     decimal.NewFromInt(450000),
		Bedrooms:  3,
		Bathrooms: decimal.NewFromInt(2),
		Size:      1850,
	}
}

func TestCreateForcesOwnerAndDefaultStatus(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	pr.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Property) bool {
		return p.OwnerID == "owner-1" && p.Status == entity.StatusActive
	}), []string{"https://img.example/1.jpg"}).Return(nil)

	in := validCreateInput()
	in.ImageURLs = []string{"https://img.example/1.jpg"}
	p, err := svc.Create(context.Background(), entity.Principal{UserID: "owner-1"}, in)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Equal(t, entity.StatusActive, p.Status)
	pr.AssertExpectations(t)
}

func TestCreateAnonymous(t *testing.T) {
	svc := newTestService(new(mockPropertyRepo), nil)

	_, err := svc.Create(context.Background(), entity.Principal{}, validCreateInput())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreateValidation(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)
	principal := entity.Principal{UserID: "owner-1"}

	in := validCreateInput()
	in.Price = decimal.NewFromInt(-1)
	in.Size = 0
	in.Bathrooms = decimal.RequireFromString("1.3")

	_, err := svc.Create(context.Background(), principal, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "size")
	assert.Contains(t, verr.Fields, "bathrooms")
	pr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetHidesInvisibleListing(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	pending := &entity.Property{ID: "p1", OwnerID: "owner-1", Status: entity.StatusPending}
	pr.On("GetByID", mock.Anything, "p1").Return(pending, nil)

	// Missing and invisible look the same to a non-owner.
	_, err := svc.Get(context.Background(), entity.Principal{UserID: "stranger"}, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), entity.Principal{}, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(context.Background(), entity.Principal{UserID: "owner-1"}, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
}

func TestGetMissing(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	pr.On("GetByID", mock.Anything, "nope").Return(nil, postgres.ErrNotFound)

	_, err := svc.Get(context.Background(), entity.Principal{UserID: "owner-1"}, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPassesViewerAndFilter(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	beds := 3
	f := repo.PropertyFilter{Bedrooms: &beds, Status: entity.StatusPending}
	pr.On("ListVisible", mock.Anything, "viewer-1", f).Return([]*entity.Property{}, nil)

	_, err := svc.List(context.Background(), entity.Principal{UserID: "viewer-1"}, f)
	require.NoError(t, err)
	pr.AssertExpectations(t)
}

func TestUpdateNonOwnerForbidden(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	existing := &entity.Property{ID: "p1", OwnerID: "owner-1", Status: entity.StatusActive,
		Price: decimal.NewFromInt(100), Size: 900, Bathrooms: decimal.NewFromInt(1)}
	pr.On("GetByID", mock.Anything, "p1").Return(existing, nil)

	addr := "1 New Street"
	_, err := svc.Update(context.Background(), entity.Principal{UserID: "stranger"}, "p1", UpdatePropertyInput{Address: &addr})
	// Forbidden, not hidden: the write path confirms the listing exists.
	assert.ErrorIs(t, err, ErrForbidden)
	pr.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	existing := &entity.Property{ID: "p1", OwnerID: "owner-1", Address: "114 Maple Street", City: "Austin",
		Status: entity.StatusActive, Price: decimal.NewFromInt(450000), Bedrooms: 3,
		Bathrooms: decimal.NewFromInt(2), Size: 1850}
	pr.On("GetByID", mock.Anything, "p1").Return(existing, nil)

	price := decimal.NewFromInt(475000)
	pr.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Property) bool {
		return p.Price.Equal(price) && p.Address == "114 Maple Street" && p.City == "Austin"
	}), (*[]string)(nil)).Return(nil)

	got, err := svc.Update(context.Background(), entity.Principal{UserID: "owner-1"}, "p1", UpdatePropertyInput{Price: &price})
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price))
	pr.AssertExpectations(t)
}

func TestUpdateImageSetReplacement(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	existing := &entity.Property{ID: "p1", OwnerID: "owner-1", Status: entity.StatusActive,
		Price: decimal.NewFromInt(100), Size: 900, Bathrooms: decimal.NewFromInt(1)}
	pr.On("GetByID", mock.Anything, "p1").Return(existing, nil)

	// An empty non-nil slice clears the set; nil would leave it untouched.
	empty := []string{}
	pr.On("Update", mock.Anything, mock.Anything, &empty).Return(nil)

	_, err := svc.Update(context.Background(), entity.Principal{UserID: "owner-1"}, "p1", UpdatePropertyInput{ImageURLs: &empty})
	require.NoError(t, err)
	pr.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	pr := new(mockPropertyRepo)
	svc := newTestService(pr, nil)

	existing := &entity.Property{ID: "p1", OwnerID: "owner-1", Status: entity.StatusSold}
	pr.On("GetByID", mock.Anything, "p1").Return(existing, nil)
	pr.On("Delete", mock.Anything, "p1").Return(nil)

	err := svc.Delete(context.Background(), entity.Principal{UserID: "owner-1"}, "p1")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), entity.Principal{UserID: "stranger"}, "p1")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), entity.Principal{}, "p1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestInquireNonActiveHidden(t *testing.T) {
	pr := new(mockPropertyRepo)
	ur := new(mockUserRepo)
	svc := newTestService(pr, ur)

	pending := &entity.Property{ID: "p1", OwnerID: "owner-1", Status: entity.StatusPending}
	pr.On("GetByID", mock.Anything, "p1").Return(pending, nil)

	err := svc.Inquire(context.Background(), "p1", InquiryInput{Name: "Sam", Email: "sam@example.com", Message: "Is this available?"})
	assert.ErrorIs(t, err, ErrNotFound)
	ur.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
