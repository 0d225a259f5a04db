package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
	"github.com/oksasatya/realestate-api/internal/domain/repository"
)

type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

func scanProperty(row pgx.Row) (*entity.Property, error) {
	p := &entity.Property{}
	var priceStr, bathStr string
	if err := row.Scan(&p.ID, &p.OwnerID, &p.OwnerName, &p.Address, &p.City, &p.State,
		&p.ZipCode, &priceStr, &p.Bedrooms, &bathStr, &p.Size, &p.Description,
		&p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(priceStr); err != nil {
		return nil, err
	}
	if p.Bathrooms, err = decimal.NewFromString(bathStr); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts the property and its image rows in one transaction. A failed
// image insert rolls the property back.
func (r *PropertyRepository) Create(ctx context.Context, p *entity.Property, imageURLs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO properties (owner_id, address, city, state, zip_code, price, bedrooms, bathrooms, size, description, status)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8::numeric, $9, NULLIF($10, ''), $11)
		RETURNING id, created_at, updated_at
	`, p.OwnerID, p.Address, p.City, p.State, p.ZipCode, p.Price.String(),
		p.Bedrooms, p.Bathrooms.String(), p.Size, p.Description, string(p.Status))
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}

	images, err := insertImages(ctx, tx, p.ID, imageURLs)
	if err != nil {
		return err
	}
	p.Images = images

	return tx.Commit(ctx)
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+propertyColumns+`
		FROM properties p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`, id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	images, err := r.loadImages(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Images = images[p.ID]
	return p, nil
}

// Update writes scalar fields and, when imageURLs is non-nil, replaces the
// image set in the same transaction so a reader never observes a half-swapped
// set. A non-nil empty slice clears all images.
func (r *PropertyRepository) Update(ctx context.Context, p *entity.Property, imageURLs *[]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p.UpdatedAt = time.Now()
	res, err := tx.Exec(ctx, `
		UPDATE properties
		SET address = $1, city = $2, state = $3, zip_code = $4, price = $5::numeric,
		    bedrooms = $6, bathrooms = $7::numeric, size = $8, description = NULLIF($9, ''),
		    status = $10, updated_at = $11
		WHERE id = $12
	`, p.Address, p.City, p.State, p.ZipCode, p.Price.String(), p.Bedrooms,
		p.Bathrooms.String(), p.Size, p.Description, string(p.Status), p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}

	if imageURLs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM property_images WHERE property_id = $1`, p.ID); err != nil {
			return err
		}
		images, err := insertImages(ctx, tx, p.ID, *imageURLs)
		if err != nil {
			return err
		}
		p.Images = images
	}

	return tx.Commit(ctx)
}

// Delete removes the property; image rows go with it via ON DELETE CASCADE.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) ListVisible(ctx context.Context, viewerID string, f repository.PropertyFilter) ([]*entity.Property, error) {
	sql, args := buildListQuery(viewerID, f)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		props []*entity.Property
		ids   []string
	)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return []*entity.Property{}, nil
	}

	// Images are fetched in a second query keyed by property id, so the OR in
	// the visibility predicate can never fan a property out into joined
	// duplicate rows.
	images, err := r.loadImages(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		p.Images = images[p.ID]
	}
	return props, nil
}

func insertImages(ctx context.Context, tx pgx.Tx, propertyID string, urls []string) ([]entity.PropertyImage, error) {
	images := make([]entity.PropertyImage, 0, len(urls))
	for _, u := range urls {
		img := entity.PropertyImage{PropertyID: propertyID, ImageURL: u}
		row := tx.QueryRow(ctx, `
			INSERT INTO property_images (property_id, image_url)
			VALUES ($1, $2)
			RETURNING id, uploaded_at
		`, propertyID, u)
		if err := row.Scan(&img.ID, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (r *PropertyRepository) loadImages(ctx context.Context, propertyIDs []string) (map[string][]entity.PropertyImage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, property_id, image_url, uploaded_at
		FROM property_images
		WHERE property_id = ANY($1)
		ORDER BY id
	`, propertyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]entity.PropertyImage)
	for rows.Next() {
		var img entity.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.ImageURL, &img.UploadedAt); err != nil {
			return nil, err
		}
		out[img.PropertyID] = append(out[img.PropertyID], img)
	}
	return out, rows.Err()
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)
