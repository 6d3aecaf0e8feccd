package registration

import "mathclass-bot/internal/validation"

// Step identifies where a registration conversation currently is. The main
// flow is linear; StepEditValue is the one-field side channel entered from
// StepCompleted.
type Step string

const (
	StepFirstName    Step = "awaiting_first_name"
	StepLastName     Step = "awaiting_last_name"
	StepGrade        Step = "awaiting_grade"
	StepMajor        Step = "awaiting_major"
	StepProvince     Step = "awaiting_province"
	StepCity         Step = "awaiting_city"
	StepPhone        Step = "awaiting_phone"
	StepConfirmation Step = "awaiting_confirmation"
	StepCompleted    Step = "completed"
	StepEditValue    Step = "awaiting_edit_value"
)

// Inputs the confirmation step understands. The transport layer maps its
// buttons onto these.
const (
	InputConfirm = "confirm"
	InputRestart = "restart"
)

// EditableFields lists the record fields a user may change after completion,
// in the order the edit keyboard offers them.
var EditableFields = []validation.Field{
	validation.FieldFirstName,
	validation.FieldLastName,
	validation.FieldGrade,
	validation.FieldMajor,
	validation.FieldProvince,
	validation.FieldCity,
	validation.FieldPhone,
}
