package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"camino_routes/internal/models"
	"camino_routes/internal/trail"
)

// Postgres stores routes as a tree of tables through gorm.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates or updates the route tables.
func (p *Postgres) Migrate() error {
	return p.db.AutoMigrate(
		&models.Route{},
		&models.DistanceBand{},
		&models.StartingPoint{},
		&models.Stage{},
		&models.Facility{},
		&models.Accommodation{},
	)
}

func preloadTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("DistanceBands").
		Preload("StartingPoints").
		Preload("Stages").
		Preload("Stages.Facilities").
		Preload("Stages.Accommodations")
}

func (p *Postgres) Create(ctx context.Context, route trail.Route) (StoredRoute, error) {
	rec := models.FromTrail(route)

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	})
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.RouteID).Error("store: create route failed")
		return StoredRoute{}, trail.NewStorageError("create", err)
	}

	return p.load(ctx, rec.ID)
}

func (p *Postgres) FindByID(ctx context.Context, routeID string) (StoredRoute, error) {
	var rec models.Route
	err := preloadTree(p.db.WithContext(ctx)).
		Where("route_id = ?", routeID).
		Order("id").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StoredRoute{}, trail.ErrNotFound
		}
		return StoredRoute{}, trail.NewStorageError("find", err)
	}
	return storedFromRecord(rec), nil
}

func (p *Postgres) FindAll(ctx context.Context) ([]StoredRoute, error) {
	var recs []models.Route
	if err := preloadTree(p.db.WithContext(ctx)).Order("id").Find(&recs).Error; err != nil {
		return nil, trail.NewStorageError("list", err)
	}
	out := make([]StoredRoute, 0, len(recs))
	for _, rec := range recs {
		out = append(out, storedFromRecord(rec))
	}
	return out, nil
}

// UpdateByID replaces the route name and every child row of the oldest route
// with routeID inside one transaction.
func (p *Postgres) UpdateByID(ctx context.Context, routeID string, route trail.Route) (StoredRoute, error) {
	route.RouteID = routeID
	var id uint

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Route
		if err := tx.Where("route_id = ?", routeID).Order("id").First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return trail.ErrNotFound
			}
			return err
		}
		id = existing.ID

		if err := deleteChildren(tx, existing.ID); err != nil {
			return err
		}
		if err := tx.Model(&existing).Update("route_name", route.RouteName).Error; err != nil {
			return err
		}
		return createChildren(tx, existing.ID, models.FromTrail(route))
	})
	if err != nil {
		if errors.Is(err, trail.ErrNotFound) {
			return StoredRoute{}, err
		}
		logrus.WithError(err).WithField("route_id", routeID).Error("store: update route failed")
		return StoredRoute{}, trail.NewStorageError("update", err)
	}

	return p.load(ctx, id)
}

func deleteChildren(tx *gorm.DB, routeRecordID uint) error {
	stageIDs := tx.Model(&models.Stage{}).Select("id").Where("route_record_id = ?", routeRecordID)

	if err := tx.Unscoped().Where("stage_id IN (?)", stageIDs).Delete(&models.Facility{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("stage_id IN (?)", stageIDs).Delete(&models.Accommodation{}).Error; err != nil {
		return err
	}
	for _, child := range []any{&models.Stage{}, &models.DistanceBand{}, &models.StartingPoint{}} {
		if err := tx.Unscoped().Where("route_record_id = ?", routeRecordID).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}

func createChildren(tx *gorm.DB, routeRecordID uint, rec models.Route) error {
	for i := range rec.DistanceBands {
		rec.DistanceBands[i].RouteRecordID = routeRecordID
	}
	for i := range rec.StartingPoints {
		rec.StartingPoints[i].RouteRecordID = routeRecordID
	}
	for i := range rec.Stages {
		rec.Stages[i].RouteRecordID = routeRecordID
	}

	if len(rec.DistanceBands) > 0 {
		if err := tx.Create(&rec.DistanceBands).Error; err != nil {
			return err
		}
	}
	if len(rec.StartingPoints) > 0 {
		if err := tx.Create(&rec.StartingPoints).Error; err != nil {
			return err
		}
	}
	if len(rec.Stages) > 0 {
		// facilities and accommodations are created with their stage
		if err := tx.Create(&rec.Stages).Error; err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) load(ctx context.Context, id uint) (StoredRoute, error) {
	var rec models.Route
	if err := preloadTree(p.db.WithContext(ctx)).First(&rec, id).Error; err != nil {
		return StoredRoute{}, trail.NewStorageError("reload", err)
	}
	return storedFromRecord(rec), nil
}

func storedFromRecord(rec models.Route) StoredRoute {
	return StoredRoute{
		ID:        strconv.FormatUint(uint64(rec.ID), 10),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Route:     rec.ToTrail(),
	}
}
