package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clipdex/clipdex/pkg/db/models"
)

// CreateProperty inserts a new taxonomy node. The name must be globally
// unique and the parent, when given, must exist and not introduce a cycle.
func (s *GormStore) CreateProperty(ctx context.Context, name string, parentID *uint, displayOrder int) (*models.Property, error) {
	prop := &models.Property{
		Name:         name,
		ParentID:     parentID,
		DisplayOrder: displayOrder,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Property{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		if parentID != nil {
			// A fresh node cannot be an ancestor of its parent yet, but the
			// walk still validates the parent and guards against a corrupted
			// chain.
			if err := walkAncestors(tx, *parentID, 0); err != nil {
				return err
			}
		}

		return tx.Create(prop).Error
	})
	if err != nil {
		return nil, err
	}
	return prop, nil
}

// GetProperty loads a property with its values and immediate parent.
func (s *GormStore) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	var prop models.Property
	err := s.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("display_order, id") }).
		Preload("Parent").
		First(&prop, id).Error
	if err != nil {
		return nil, notFound(err, ErrUnknownProperty)
	}
	return &prop, nil
}

// UpdateProperty changes name, parent or display order. Re-parenting walks
// the proposed parent's ancestor chain and rejects any path leading back to
// the property itself.
func (s *GormStore) UpdateProperty(ctx context.Context, id uint, name *string, parentID *uint, displayOrder *int) (*models.Property, error) {
	var prop models.Property

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prop, id).Error; err != nil {
			return notFound(err, ErrUnknownProperty)
		}

		if name != nil && *name != prop.Name {
			var count int64
			if err := tx.Model(&models.Property{}).Where("name = ? AND id <> ?", *name, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateName
			}
			prop.Name = *name
		}

		if parentID != nil {
			if *parentID == id {
				return ErrInvalidParent
			}
			if err := walkAncestors(tx, *parentID, id); err != nil {
				return err
			}
			prop.ParentID = parentID
		}

		if displayOrder != nil {
			prop.DisplayOrder = *displayOrder
		}

		return tx.Save(&prop).Error
	})
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

// DeleteProperty removes a taxonomy node. Children are detached and survive
// as new roots; the node's own values and their tags are cascade-deleted.
func (s *GormStore) DeleteProperty(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prop models.Property
		if err := tx.First(&prop, id).Error; err != nil {
			return notFound(err, ErrUnknownProperty)
		}

		if err := tx.Model(&models.Property{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}

		if err := deleteValuesOfProperty(tx, id); err != nil {
			return err
		}

		return tx.Delete(&models.Property{}, id).Error
	})
}

// CreatePropertyValue adds a value to a property; the value string must be
// unique within that property.
func (s *GormStore) CreatePropertyValue(ctx context.Context, propertyID uint, value string, displayOrder int) (*models.PropertyValue, error) {
	pv := &models.PropertyValue{
		PropertyID:   propertyID,
		Value:        value,
		DisplayOrder: displayOrder,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prop models.Property
		if err := tx.Select("id").First(&prop, propertyID).Error; err != nil {
			return notFound(err, ErrUnknownProperty)
		}

		var count int64
		if err := tx.Model(&models.PropertyValue{}).
			Where("property_id = ? AND value = ?", propertyID, value).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateValue
		}

		return tx.Create(pv).Error
	})
	if err != nil {
		return nil, err
	}
	return pv, nil
}

// GetPropertyValue loads a value with its owning property.
func (s *GormStore) GetPropertyValue(ctx context.Context, id uint) (*models.PropertyValue, error) {
	var pv models.PropertyValue
	err := s.db.WithContext(ctx).Preload("Property").First(&pv, id).Error
	if err != nil {
		return nil, notFound(err, ErrUnknownPropertyValue)
	}
	return &pv, nil
}

// DeletePropertyValue removes a value and cascades to its tags.
func (s *GormStore) DeletePropertyValue(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pv models.PropertyValue
		if err := tx.First(&pv, id).Error; err != nil {
			return notFound(err, ErrUnknownPropertyValue)
		}

		if err := tx.Where("property_value_id = ?", id).Delete(&models.Tag{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.PropertyValue{}, id).Error
	})
}

// ListTaxonomy returns the forest of root properties ordered by display
// order. Each root carries its values and one level of children with their
// values; deeper nesting is deliberately not materialized.
func (s *GormStore) ListTaxonomy(ctx context.Context) ([]TaxonomyNode, error) {
	byOrder := func(db *gorm.DB) *gorm.DB { return db.Order("display_order, id") }

	var roots []models.Property
	err := s.db.WithContext(ctx).
		Preload("Values", byOrder).
		Preload("Children", byOrder).
		Preload("Children.Values", byOrder).
		Where("parent_id IS NULL").
		Order("display_order, id").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}

	nodes := make([]TaxonomyNode, 0, len(roots))
	for _, root := range roots {
		node := TaxonomyNode{Property: root, Values: root.Values}
		for _, child := range root.Children {
			node.Children = append(node.Children, TaxonomyNode{
				Property: child,
				Values:   child.Values,
			})
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// walkAncestors follows the parent chain starting at startID. It fails with
// ErrInvalidParent when startID is unknown, when the chain reaches forbidden,
// or when a cycle is already present in the stored chain.
func walkAncestors(tx *gorm.DB, startID, forbidden uint) error {
	seen := map[uint]bool{}
	current := &startID

	for current != nil {
		id := *current
		if id == forbidden || seen[id] {
			return ErrInvalidParent
		}
		seen[id] = true

		var prop models.Property
		if err := tx.Select("id", "parent_id").First(&prop, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidParent
			}
			return err
		}
		current = prop.ParentID
	}
	return nil
}

// deleteValuesOfProperty removes all values of a property together with the
// tags referencing them.
func deleteValuesOfProperty(tx *gorm.DB, propertyID uint) error {
	var valueIDs []uint
	if err := tx.Model(&models.PropertyValue{}).
		Where("property_id = ?", propertyID).
		Pluck("id", &valueIDs).Error; err != nil {
		return err
	}
	if len(valueIDs) == 0 {
		return nil
	}

	if err := tx.Where("property_value_id IN ?", valueIDs).Delete(&models.Tag{}).Error; err != nil {
		return err
	}
	return tx.Where("property_id = ?", propertyID).Delete(&models.PropertyValue{}).Error
}
