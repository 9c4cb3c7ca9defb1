package model

import (
	"bytes"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DefaultImage = "default.png"
	// LoanPeriod is the due date offset applied when a loan is created without one.
	LoanPeriod = 10 * 24 * time.Hour
)

type Program struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateProgramRequest struct {
	Name string `json:"name" validate:"required"`
}

type Student struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Identification int64      `json:"identification" db:"identification"`
	Name           string     `json:"name" db:"name"`
	LastNames      string     `json:"lastNames" db:"last_names"`
	Program        *uuid.UUID `json:"program" db:"program_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

type CreateStudentRequest struct {
	Identification int64  `json:"identification" validate:"required,gt=0"`
	Name           string `json:"name" validate:"required"`
	LastNames      string `json:"lastNames" validate:"required"`
	Program        string `json:"program" validate:"required,uuid"`
}

type FindStudentRequest struct {
	Identification int64 `json:"identification" validate:"required,gt=0"`
}

type Author struct {
	Name         string    `json:"name"`
	DateOfBirth  time.Time `json:"dateOfBirth"`
	PlaceOfBirth string    `json:"placeOfBirth"`
}

type Asset struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Asset           string    `json:"asset" db:"asset"`
	PublicationDate time.Time `json:"publicationDate" db:"publication_date"`
	Image           string    `json:"image" db:"image"`
	Author          Author    `json:"author" db:"author"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type AuthorRequest struct {
	Name         string `json:"name" validate:"required"`
	DateOfBirth  Date   `json:"dateOfBirth" validate:"required" swaggertype:"string" example:"1952-12-05"`
	PlaceOfBirth string `json:"placeOfBirth" validate:"required"`
}

type CreateAssetRequest struct {
	Asset           string         `json:"asset" validate:"required"`
	PublicationDate Date           `json:"publicationDate" validate:"required" swaggertype:"string" example:"2008-08-01"`
	Author          *AuthorRequest `json:"author" validate:"required"`
}

type Loan struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Student   uuid.UUID `json:"student" db:"student_id"`
	Asset     uuid.UUID `json:"asset" db:"asset_id"`
	Period    time.Time `json:"period" db:"period"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LoanDetails is a loan with its references resolved.
type LoanDetails struct {
	ID        uuid.UUID `json:"id"`
	Student   Student   `json:"student"`
	Asset     Asset     `json:"asset"`
	Period    time.Time `json:"period"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateLoanRequest struct {
	Student string `json:"student" validate:"required,uuid"`
	Asset   string `json:"asset" validate:"required,uuid"`
	Period  *Date  `json:"period" swaggertype:"string" example:"2024-06-30"`
}

type UpdateLoanRequest struct {
	Student string `json:"student" validate:"omitempty,uuid"`
	Asset   string `json:"asset" validate:"omitempty,uuid"`
	Period  *Date  `json:"period" swaggertype:"string" example:"2024-06-30"`
}

// LoanPatch holds the fields of a partial loan update; nil means unchanged.
type LoanPatch struct {
	Student *uuid.UUID
	Asset   *uuid.UUID
	Period  *time.Time
}

func (p LoanPatch) Empty() bool {
	return p.Student == nil && p.Asset == nil && p.Period == nil
}

type LoanEventType string

const (
	LoanCreated  LoanEventType = "CREATED"
	LoanUpdated  LoanEventType = "UPDATED"
	LoanReturned LoanEventType = "RETURNED"
)

type LoanEvent struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	LoanID    uuid.UUID     `json:"loan" db:"loan_id"`
	Student   uuid.UUID     `json:"student" db:"student_id"`
	Asset     uuid.UUID     `json:"asset" db:"asset_id"`
	Type      LoanEventType `json:"type" db:"event_type"`
	Period    time.Time     `json:"period" db:"period"`
	Timestamp time.Time     `json:"timestamp" db:"occurred_at"`
}

func NewLoanEvent(t LoanEventType, loan Loan, at time.Time) LoanEvent {
	return LoanEvent{
		ID:        uuid.New(),
		LoanID:    loan.ID,
		Student:   loan.Student,
		Asset:     loan.Asset,
		Type:      t,
		Period:    loan.Period,
		Timestamp: at,
	}
}

// UploadedFile is an image already written to the upload directory.
type UploadedFile struct {
	Filename string
	Path     string
}

type Date struct {
	time.Time `json:",inline"`
}

// UnmarshalJSON accepts both 2006-01-02 and RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(b []byte) (err error) {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), "\"")
	if s == "" {
		return nil
	}
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		date, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return errors.Errorf("invalid date %q", s)
		}
	}
	d.Time = date.UTC()
	return nil
}
