package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetProfileRepository returns the profile repository instance
func (f *Factory) GetProfileRepository() ProfileRepository {
	return f.GetRepositories().Profile
}

// GetProductRepository returns the product repository instance
func (f *Factory) GetProductRepository() ProductRepository {
	return f.GetRepositories().Product
}

// GetSubscriberRepository returns the subscriber repository instance
func (f *Factory) GetSubscriberRepository() SubscriberRepository {
	return f.GetRepositories().Subscriber
}

// GetEventRepository returns the event repository instance
func (f *Factory) GetEventRepository() EventRepository {
	return f.GetRepositories().Event
}

// GetWebhookEventRepository returns the webhook event repository instance
func (f *Factory) GetWebhookEventRepository() WebhookEventRepository {
	return f.GetRepositories().WebhookEvent
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
