package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"inboxradar/internal/domain"
)

const (
	batchThreshold    = 8191  // Use batches when exceeding this number of records
	maxParamsPerBatch = 65534 // Conservative default (PostgreSQL's limit) - 1
	minBatchSize      = 100   // Minimum batch size to maintain efficiency
)

var ErrNoRecords = errors.New("no records to insert")

// InsertActionRecords writes a batch of classified actions, splitting the
// insert so no statement exceeds the Postgres parameter limit.
func InsertActionRecords(records []domain.ActionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batchSize := calculateBatchSize(len(records), domain.ActionRecord{})

	tx := DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer transactionRollbackHandler(tx)

	if err := tx.CreateInBatches(&records, batchSize).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return len(records), nil
}

func InsertDomainRecords(records []domain.DomainRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batchSize := calculateBatchSize(len(records), domain.DomainRecord{})
	if err := DB.CreateInBatches(&records, batchSize).Error; err != nil {
		return 0, err
	}
	return len(records), nil
}

func InsertInboxRelationships(records []domain.InboxRelationship) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batchSize := calculateBatchSize(len(records), domain.InboxRelationship{})
	if err := DB.CreateInBatches(&records, batchSize).Error; err != nil {
		return 0, err
	}
	return len(records), nil
}

func calculateBatchSize(recordCount int, model any) int {
	if recordCount <= batchThreshold {
		return recordCount
	}

	numFields, err := getNumDatabaseFields(model, DB)
	if err != nil || numFields == 0 {
		return minBatchSize // Fallback to safe minimum
	}

	batchSize := maxParamsPerBatch / numFields
	return clamp(batchSize, minBatchSize, recordCount)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func getNumDatabaseFields(model any, db *gorm.DB) (int, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return 0, err
	}

	count := 0
	for _, field := range stmt.Schema.Fields {
		if field.DBName != "" && field.DataType != schema.DataType("") {
			count++
		}
	}
	return count, nil
}

// GetActionRecords loads the actions of one day per category. Hour filtering
// happens downstream in the aggregation pass, so the trend always sees the
// whole day.
func GetActionRecords(category, date string) ([]domain.ActionRecord, error) {
	var records []domain.ActionRecord
	query := DB.Where("category = ?", category)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func GetDomainRecords(category, date string) ([]domain.DomainRecord, error) {
	var records []domain.DomainRecord
	query := DB.Where("category = ?", category)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func GetInboxRelationships(date string) ([]domain.InboxRelationship, error) {
	var records []domain.InboxRelationship
	query := DB.Model(&domain.InboxRelationship{})
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetDistinctDomains returns every domain seen in one category, for the DNS
// enrichment pass.
func GetDistinctDomains(category string) ([]string, error) {
	var domains []string
	err := DB.Model(&domain.DomainRecord{}).
		Where("category = ? AND domain <> ''", category).
		Distinct("domain").
		Order("domain").
		Pluck("domain", &domains).Error
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// UpdateDomainIPs persists resolved IPs back onto the stored records.
func UpdateDomainIPs(resolved map[string]string) error {
	for domainName, ip := range resolved {
		if ip == "" {
			continue
		}
		if err := DB.Model(&domain.DomainRecord{}).
			Where("domain = ? AND (ip = '' OR ip = 'N/A')", domainName).
			Update("ip", ip).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetAvailableDates lists the distinct dates with any recorded actions,
// newest first.
func GetAvailableDates() ([]string, error) {
	var dates []string
	err := DB.Model(&domain.ActionRecord{}).
		Distinct("date").
		Order("date DESC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}
