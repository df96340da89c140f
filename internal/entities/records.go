package entities

import (
	"time"
)

// The models below describe the tables for the schema initializer only. Record
// reads and writes go through the records engine, which builds its statements
// from the schema registry; the gorm column names here must match
// schema.ColumnName of the registry's logical fields.

type Criminal struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null;index:idx_criminal_name" json:"name"`
	Age       *int       `json:"age"`
	Gender    string     `gorm:"size:10" json:"gender"`
	Crime     string     `gorm:"size:255" json:"crime"`
	CrimeDate *time.Time `gorm:"type:date" json:"crime_date"`
	Status    string     `gorm:"size:50" json:"status"`
}

func (Criminal) TableName() string {
	return "criminals"
}

// CriminalNameIndex is the auxiliary index on criminals.name.
const CriminalNameIndex = "idx_criminal_name"

type Officer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	OfficerRank string `gorm:"size:50" json:"officer_rank"`
	Department  string `gorm:"size:100" json:"department"`
}

func (Officer) TableName() string {
	return "officers"
}

// Case rows survive the deletion of their officer; officer_id becomes NULL.
type Case struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CaseName    string     `gorm:"size:100;not null" json:"case_name"`
	CaseDate    *time.Time `gorm:"type:date" json:"case_date"`
	Description string     `gorm:"type:text" json:"description"`
	OfficerID   *uint      `json:"officer_id"`
	Officer     *Officer   `gorm:"foreignKey:OfficerID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Case) TableName() string {
	return "cases"
}

// Evidence rows are removed together with their case.
type Evidence struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CaseID       *uint  `json:"case_id"`
	Case         *Case  `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE" json:"-"`
	EvidenceType string `gorm:"size:100" json:"evidence_type"`
	Description  string `gorm:"type:text" json:"description"`
}

func (Evidence) TableName() string {
	return "evidence"
}
