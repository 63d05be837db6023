package tracking

import "log/slog"

// FieldValue is one typed custom field value of a board item. The set of
// implementations is closed; UnknownValue stands in for types this package
// does not understand.
type FieldValue interface {
	FieldName() string
	isFieldValue()
}

type SingleSelectValue struct {
	Field string
	Name  string
}

type TextValue struct {
	Field string
	Text  string
}

type NumberValue struct {
	Field  string
	Number float64
}

// DateValue holds the date as reported by the board (YYYY-MM-DD).
type DateValue struct {
	Field string
	Date  string
}

type UserValue struct {
	Field  string
	Logins []string
}

type RepositoryValue struct {
	Field string
	Name  string
}

type MilestoneValue struct {
	Field string
	Title string
}

type LabelValue struct {
	Field string
	Names []string
}

type PullRequestValue struct {
	Field  string
	Titles []string
}

type UnknownValue struct {
	Field    string
	TypeName string
}

func (v SingleSelectValue) FieldName() string { return v.Field }
func (v TextValue) FieldName() string         { return v.Field }
func (v NumberValue) FieldName() string       { return v.Field }
func (v DateValue) FieldName() string         { return v.Field }
func (v UserValue) FieldName() string         { return v.Field }
func (v RepositoryValue) FieldName() string   { return v.Field }
func (v MilestoneValue) FieldName() string    { return v.Field }
func (v LabelValue) FieldName() string        { return v.Field }
func (v PullRequestValue) FieldName() string  { return v.Field }
func (v UnknownValue) FieldName() string      { return v.Field }

func (SingleSelectValue) isFieldValue() {}
func (TextValue) isFieldValue()         {}
func (NumberValue) isFieldValue()       {}
func (DateValue) isFieldValue()         {}
func (UserValue) isFieldValue()         {}
func (RepositoryValue) isFieldValue()   {}
func (MilestoneValue) isFieldValue()    {}
func (LabelValue) isFieldValue()        {}
func (PullRequestValue) isFieldValue()  {}
func (UnknownValue) isFieldValue()      {}

// GetFieldValue resolves fieldName on the item. The first field value with a
// matching name wins. Scalars come back as string or float64, multi-valued
// fields as []string; an empty list is reported as absent. Items without
// issue content never resolve.
func GetFieldValue(item Item, fieldName string) (any, bool) {
	if item.Issue == nil {
		return nil, false
	}

	for _, fv := range item.FieldValues {
		if fv == nil || fv.FieldName() == "" || fv.FieldName() != fieldName {
			continue
		}

		switch v := fv.(type) {
		case SingleSelectValue:
			return v.Name, true
		case TextValue:
			return v.Text, true
		case NumberValue:
			return v.Number, true
		case DateValue:
			return v.Date, true
		case UserValue:
			return nonEmpty(v.Logins)
		case RepositoryValue:
			return v.Name, true
		case MilestoneValue:
			return v.Title, true
		case LabelValue:
			return nonEmpty(v.Names)
		case PullRequestValue:
			return nonEmpty(v.Titles)
		case UnknownValue:
			slog.Warn("unknown field value type", "type", v.TypeName, "field", v.Field, "item", item.ID)
		default:
			slog.Warn("unhandled field value", "field", fv.FieldName(), "item", item.ID)
		}
	}

	return nil, false
}

// FieldString is GetFieldValue for fields expected to hold a single string.
func FieldString(item Item, fieldName string) string {
	v, ok := GetFieldValue(item, fieldName)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func nonEmpty(values []string) (any, bool) {
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}
