package storage

import (
	"time"

	"mathclass-bot/internal/validation"
)

// PaymentStatus tracks the admin-moderated payment lifecycle of a student.
type PaymentStatus string

const (
	PaymentUnset    PaymentStatus = ""
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// StudentRecord is the durable registration document, one per user.
// RegisteredAt is set once, at the first successful registration; UpdatedAt
// moves on every write.
type StudentRecord struct {
	UserID        int64         `json:"user_id"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Grade         string        `json:"grade"`
	Major         string        `json:"major"`
	Province      string        `json:"province"`
	City          string        `json:"city"`
	Phone         string        `json:"phone"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	RegisteredAt  time.Time     `json:"registration_date"`
	UpdatedAt     time.Time     `json:"last_updated"`
}

// setField writes a single validated value into the record. Unknown fields
// are a programmer error, not user input, hence the panic.
func (r *StudentRecord) setField(field validation.Field, value string) {
	switch field {
	case validation.FieldFirstName:
		r.FirstName = value
	case validation.FieldLastName:
		r.LastName = value
	case validation.FieldGrade:
		r.Grade = value
	case validation.FieldMajor:
		r.Major = value
	case validation.FieldProvince:
		r.Province = value
	case validation.FieldCity:
		r.City = value
	case validation.FieldPhone:
		r.Phone = value
	case validation.FieldPaymentStatus:
		r.PaymentStatus = PaymentStatus(value)
	default:
		panic("storage: unknown field " + string(field))
	}
}
