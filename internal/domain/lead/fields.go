// Package lead implements the lead qualification flow: the fixed field
// schema, pure field validation, phrase word-set lookups and the
// multi-turn collection state machine.
package lead

import "fmt"

// FieldKey identifies one collected lead field.
type FieldKey string

const (
	FieldFirstName FieldKey = "first_name"
	FieldLastName  FieldKey = "last_name"
	FieldEmail     FieldKey = "email"
	FieldPhone     FieldKey = "phone"
	FieldCompany   FieldKey = "company_name"
	FieldAddress   FieldKey = "address"
)

// FieldSpec describes one entry of the fixed collection schema.
type FieldSpec struct {
	Key      FieldKey
	Label    string
	Question string
	Required bool
}

// Fields is the collection order. It is fixed: the qualification flow
// is not a configurable form builder.
var Fields = []FieldSpec{
	{FieldFirstName, "First Name", "What's your **first name**?", true},
	{FieldLastName, "Last Name", "And your **last name**?", true},
	{FieldEmail, "Email Address", "Could you share your **email address**?", true},
	{FieldPhone, "Contact Number", "What's your **contact number**?", true},
	{FieldCompany, "Company", "What's the name of your **company**? *(If not applicable, just type 'skip')*", false},
	{FieldAddress, "Address", "What is your **complete postal address**?", true},
}

// RequiredFieldCount returns how many fields must be collected before a
// record is complete.
func RequiredFieldCount() int {
	n := 0
	for _, f := range Fields {
		if f.Required {
			n++
		}
	}
	return n
}

// KnownField reports whether key belongs to the fixed schema.
func KnownField(key FieldKey) bool {
	for _, f := range Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

func acknowledgement(key FieldKey, value string) string {
	switch key {
	case FieldFirstName:
		return fmt.Sprintf("Nice to meet you, **%s**!", value)
	case FieldEmail:
		return "Perfect, email noted."
	case FieldPhone:
		return "Contact number saved."
	case FieldCompany:
		return fmt.Sprintf("Great, **%s** — noted!", value)
	case FieldAddress:
		return "Address noted."
	default:
		return "Got it!"
	}
}
