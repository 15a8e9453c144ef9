package relational

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-store-service/internal/domain/user"
)

// insertBatchSize keeps each INSERT under the bind-variable limits of sqlite and postgres.
const insertBatchSize = 500

// UserRepo persists the whole user collection into a SQL table through GORM.
// Any dialector works; the service wires sqlite and postgres.
type UserRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false"` // Assigned by the in-memory store
	Name     string `gorm:"not null"`                       // User's full name
	Email    string `gorm:"not null"`                       // User's email address
	Role     string `gorm:"not null"`                       // User's role label
	Position int    `gorm:"not null;index"`                 // Insertion order of the collection
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func (r *UserRepo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&UserSchema{}); err != nil {
		r.log.Error("failed to migrate users table", zap.Error(err))
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Load migrates the schema and reads every user in collection order.
// A fresh database yields an empty collection.
func (r *UserRepo) Load(ctx context.Context) ([]user.User, error) {
	if err := r.Migrate(ctx); err != nil {
		return nil, err
	}

	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to load users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = user.User{
			ID:    model.ID,
			Name:  model.Name,
			Email: model.Email,
			Role:  model.Role,
		}
	}

	r.log.Info("users loaded from db", zap.Int("count", len(users)))
	return users, nil
}

// Save replaces the table contents with the given collection inside one transaction.
func (r *UserRepo) Save(ctx context.Context, users []user.User) error {
	models := make([]UserSchema, len(users))
	for i, u := range users {
		models[i] = UserSchema{
			ID:       u.ID,
			Name:     u.Name,
			Email:    u.Email,
			Role:     u.Role,
			Position: i,
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&UserSchema{}).Error; err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&models, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert users: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to save users in db", zap.Error(err), zap.Int("count", len(users)))
		return fmt.Errorf("failed to save users: %w", err)
	}

	r.log.Debug("users saved in db", zap.Int("count", len(users)))
	return nil
}
