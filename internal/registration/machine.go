package registration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mathclass-bot/internal/storage"
	"mathclass-bot/internal/validation"
)

// RecordStore is the slice of the record store the machine needs. Writes
// happen only on completion and on edits.
type RecordStore interface {
	Get(ctx context.Context, userID int64) (*storage.StudentRecord, error)
	Put(ctx context.Context, record *storage.StudentRecord) error
	UpdateField(ctx context.Context, userID int64, field validation.Field, value string) error
}

// Gate is consulted before any input is accepted. A denied request changes
// nothing.
type Gate interface {
	Allow(userID int64) bool
}

// Result describes the outcome of one transition. Exactly one of the
// following holds: Throttled, Failure != nil, CommitErr != nil, or the input
// was accepted and Step is the step after the transition.
type Result struct {
	Step      Step
	Failure   *validation.FieldError
	Throttled bool

	// Completed is true when this transition committed the full record.
	Completed bool
	// EditedField is set when this transition committed a field edit.
	EditedField validation.Field
	// Restarted is true when a declined confirmation cleared the flow.
	Restarted bool
	// CommitErr is a storage failure during commit; the step does not
	// advance and the user may retry.
	CommitErr error
}

// Machine sequences the registration steps. It owns no conversation state;
// callers pass the Context explicitly.
type Machine struct {
	store  RecordStore
	gate   Gate
	logger *zap.Logger
}

func NewMachine(store RecordStore, gate Gate, logger *zap.Logger) *Machine {
	return &Machine{store: store, gate: gate, logger: logger}
}

// Advance feeds one raw input into the conversation. Invalid input never
// mutates the context; the same step is simply re-prompted.
func (m *Machine) Advance(ctx context.Context, c *Context, input string) Result {
	if !m.gate.Allow(c.UserID) {
		return Result{Step: c.Step, Throttled: true}
	}

	switch c.Step {
	case StepFirstName:
		return m.collect(c, validation.FieldFirstName, input, StepLastName)
	case StepLastName:
		return m.collect(c, validation.FieldLastName, input, StepGrade)
	case StepGrade:
		return m.collect(c, validation.FieldGrade, input, StepMajor)
	case StepMajor:
		return m.collect(c, validation.FieldMajor, input, StepProvince)
	case StepProvince:
		return m.collect(c, validation.FieldProvince, input, StepCity)
	case StepCity:
		return m.collect(c, validation.FieldCity, input, StepPhone)
	case StepPhone:
		return m.collect(c, validation.FieldPhone, input, StepConfirmation)
	case StepConfirmation:
		return m.confirm(ctx, c, input)
	case StepEditValue:
		return m.applyEdit(ctx, c, input)
	case StepCompleted:
		return Result{Step: StepCompleted}
	default:
		// Unknown steps come from stale serialized contexts; restart.
		m.logger.Warn("Discarding context with unknown step",
			zap.Int64("user_id", c.UserID),
			zap.String("step", string(c.Step)))
		c.reset()
		return Result{Step: c.Step}
	}
}

func (m *Machine) collect(c *Context, field validation.Field, input string, next Step) Result {
	value, ferr := m.validate(c, field, input)
	if ferr != nil {
		return Result{Step: c.Step, Failure: ferr}
	}
	c.Fields[field] = value
	c.Step = next
	return Result{Step: next}
}

func (m *Machine) validate(c *Context, field validation.Field, input string) (string, *validation.FieldError) {
	switch field {
	case validation.FieldFirstName, validation.FieldLastName:
		return validation.Name(field, input)
	case validation.FieldGrade:
		return validation.Grade(input)
	case validation.FieldMajor:
		return validation.Major(input)
	case validation.FieldProvince:
		return validation.Province(input)
	case validation.FieldCity:
		return validation.City(input, c.Fields[validation.FieldProvince])
	case validation.FieldPhone:
		return validation.Phone(input)
	default:
		panic("registration: no validator for field " + string(field))
	}
}

func (m *Machine) confirm(ctx context.Context, c *Context, input string) Result {
	switch input {
	case InputConfirm:
		record := m.recordFromFields(c)
		if err := m.store.Put(ctx, record); err != nil {
			m.logger.Error("Failed to commit registration",
				zap.Int64("user_id", c.UserID),
				zap.Error(err))
			return Result{Step: StepConfirmation, CommitErr: err}
		}
		c.Step = StepCompleted
		return Result{Step: StepCompleted, Completed: true}

	case InputRestart:
		c.reset()
		return Result{Step: StepFirstName, Restarted: true}

	default:
		return Result{Step: StepConfirmation, Failure: &validation.FieldError{
			Field:   "confirmation",
			Code:    validation.CodeUnknownEnumMember,
			Message: "لطفاً از دکمه‌های زیر استفاده کنید.",
		}}
	}
}

// BeginEdit re-enters the flow for a single field from a completed state.
// The stored record seeds the field map so dependent validation (city needs
// its province) sees current values.
func (m *Machine) BeginEdit(ctx context.Context, c *Context, field validation.Field) error {
	editable := false
	for _, f := range EditableFields {
		if f == field {
			editable = true
			break
		}
	}
	if !editable {
		return fmt.Errorf("field %q is not editable", field)
	}

	record, err := m.store.Get(ctx, c.UserID)
	if err != nil {
		return fmt.Errorf("load record for edit: %w", err)
	}

	c.Fields = map[validation.Field]string{
		validation.FieldFirstName: record.FirstName,
		validation.FieldLastName:  record.LastName,
		validation.FieldGrade:     record.Grade,
		validation.FieldMajor:     record.Major,
		validation.FieldProvince:  record.Province,
		validation.FieldCity:      record.City,
		validation.FieldPhone:     record.Phone,
	}
	c.Step = StepEditValue
	c.EditField = field
	return nil
}

func (m *Machine) applyEdit(ctx context.Context, c *Context, input string) Result {
	field := c.EditField
	value, ferr := m.validate(c, field, input)
	if ferr != nil {
		return Result{Step: c.Step, Failure: ferr}
	}

	if field == validation.FieldProvince {
		c.Fields[field] = value
		if !validation.CityValidFor(c.Fields[validation.FieldCity], value) {
			// The old city no longer belongs to the new province:
			// collect a new city before committing either field.
			c.EditField = validation.FieldCity
			return Result{Step: StepEditValue}
		}
		return m.commitEdit(ctx, c, validation.FieldProvince, value)
	}

	if field == validation.FieldCity {
		c.Fields[field] = value
		return m.commitLocation(ctx, c)
	}

	c.Fields[field] = value
	return m.commitEdit(ctx, c, field, value)
}

func (m *Machine) commitEdit(ctx context.Context, c *Context, field validation.Field, value string) Result {
	if err := m.store.UpdateField(ctx, c.UserID, field, value); err != nil {
		m.logger.Error("Failed to commit field edit",
			zap.Int64("user_id", c.UserID),
			zap.String("field", string(field)),
			zap.Error(err))
		return Result{Step: StepEditValue, CommitErr: err}
	}
	c.Step = StepCompleted
	c.EditField = ""
	return Result{Step: StepCompleted, EditedField: field}
}

// commitLocation finishes a city edit. When the province changed in the same
// edit chain the pair is replaced in one Put so the stored record is never
// left with a city outside its province; a lone city change goes through
// UpdateField like any other edit.
func (m *Machine) commitLocation(ctx context.Context, c *Context) Result {
	province := c.Fields[validation.FieldProvince]
	city := c.Fields[validation.FieldCity]

	record, err := m.store.Get(ctx, c.UserID)
	if err != nil {
		m.logger.Error("Failed to load record for edit commit",
			zap.Int64("user_id", c.UserID),
			zap.Error(err))
		return Result{Step: StepEditValue, CommitErr: err}
	}

	if record.Province == province {
		return m.commitEdit(ctx, c, validation.FieldCity, city)
	}

	record.Province = province
	record.City = city
	if err := m.store.Put(ctx, record); err != nil {
		m.logger.Error("Failed to commit field edit",
			zap.Int64("user_id", c.UserID),
			zap.String("field", string(validation.FieldCity)),
			zap.Error(err))
		return Result{Step: StepEditValue, CommitErr: err}
	}
	c.Step = StepCompleted
	c.EditField = ""
	return Result{Step: StepCompleted, EditedField: validation.FieldCity}
}

func (m *Machine) recordFromFields(c *Context) *storage.StudentRecord {
	return &storage.StudentRecord{
		UserID:        c.UserID,
		FirstName:     c.Fields[validation.FieldFirstName],
		LastName:      c.Fields[validation.FieldLastName],
		Grade:         c.Fields[validation.FieldGrade],
		Major:         c.Fields[validation.FieldMajor],
		Province:      c.Fields[validation.FieldProvince],
		City:          c.Fields[validation.FieldCity],
		Phone:         c.Fields[validation.FieldPhone],
		PaymentStatus: storage.PaymentPending,
	}
}
