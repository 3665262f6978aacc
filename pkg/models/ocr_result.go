package models

import "time"

// OCRResult is the text extracted from one scanned document
type OCRResult struct {
	ID              uint    `gorm:"primaryKey"`
	Filename        string  `gorm:"index"`
	ExtractedText   string  `gorm:"type:text"`
	ReferenceNumber *string `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the table name used by gorm
func (OCRResult) TableName() string {
	return "ocr_results"
}
