package registration

import "mathclass-bot/internal/validation"

// Context is the transient state of one user's conversation. It is an
// explicit value passed into every transition and serializes to JSON so
// session stores can persist it with a TTL. Nothing here is durable: partial
// registrations die with the context.
type Context struct {
	UserID int64                       `json:"user_id"`
	Step   Step                        `json:"step"`
	Fields map[validation.Field]string `json:"fields"`

	// EditField is set while Step is StepEditValue.
	EditField validation.Field `json:"edit_field,omitempty"`
}

// NewContext starts a fresh registration conversation.
func NewContext(userID int64) *Context {
	return &Context{
		UserID: userID,
		Step:   StepFirstName,
		Fields: make(map[validation.Field]string),
	}
}

func (c *Context) reset() {
	c.Step = StepFirstName
	c.Fields = make(map[validation.Field]string)
	c.EditField = ""
}
