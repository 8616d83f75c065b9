package mysql

import "fitops/pkg/store/mysql/model"

// Repository aggregates all MySQL repositories
type Repository struct {
	ds *Datastore

	APILog   *APILogRepository
	AuditLog *AuditLogRepository
	Report   *ReportRepository
	Setting  *SettingRepository
}

// NewRepository creates a new MySQL repository with all sub-repositories
func NewRepository(dsn string) (*Repository, error) {
	ds, err := NewDatastore(dsn)
	if err != nil {
		return nil, err
	}
	return newRepositoryWithDatastore(ds), nil
}

// NewRepositoryWithDatastore builds the repository set over an existing
// datastore (tests wire an in-memory sqlite datastore through here)
func NewRepositoryWithDatastore(ds *Datastore) *Repository {
	return newRepositoryWithDatastore(ds)
}

func newRepositoryWithDatastore(ds *Datastore) *Repository {
	return &Repository{
		ds:       ds,
		APILog:   NewAPILogRepository(ds),
		AuditLog: NewAuditLogRepository(ds),
		Report:   NewReportRepository(ds),
		Setting:  NewSettingRepository(ds),
	}
}

// Migrate creates the backing tables
func (r *Repository) Migrate() error {
	return r.ds.db.AutoMigrate(
		&model.APILog{},
		&model.AuditLog{},
		&model.Report{},
		&model.SystemSetting{},
	)
}

// GetDatastore returns the underlying datastore for transaction support
func (r *Repository) GetDatastore() *Datastore {
	return r.ds
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.ds.Close()
}
