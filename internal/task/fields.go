package task

import "strings"

// Field names that are stored as typed task fields rather than as
// custom fields.
const (
	FieldAssignee = "Assigned To"
	FieldPriority = "Priority"
	FieldPackage  = "Package"
)

// Unassigned is the package name of tasks without a package.
const Unassigned = "Unassigned"

// View identifies a presentation of tasks. Each view has its own
// defaults for missing optional fields.
type View int

const (
	// ViewTaskList is the flat task list and the terminal board.
	ViewTaskList View = iota
	// ViewTableRow is the table-row rendering of the table view.
	ViewTableRow
	// ViewExport is the delimited-text export.
	ViewExport
)

// Defaults are the values shown for missing optional fields.
type Defaults struct {
	Assignee string
	Priority string
	Package  string
}

// DefaultsFor returns the missing-field defaults of a view. The task list
// shows "Normal" for an unset priority while the table row shows
// "Medium"; both are kept because each view renders its own default.
func DefaultsFor(v View) Defaults {
	switch v {
	case ViewTableRow:
		return Defaults{Assignee: Unassigned, Priority: string(PriorityMedium), Package: Unassigned}
	case ViewExport:
		return Defaults{Assignee: "", Priority: "", Package: Unassigned}
	default:
		return Defaults{Assignee: "-", Priority: "Normal", Package: Unassigned}
	}
}

// Display holds the optional fields of a task with view defaults applied.
type Display struct {
	Assignee string
	Priority string
	Package  string
}

// DisplayFor resolves assignee, priority and package for the given view.
func (t *Task) DisplayFor(v View) Display {
	def := DefaultsFor(v)
	d := Display{Assignee: t.Assignee, Priority: string(t.Priority), Package: t.Package}
	if d.Assignee == "" {
		d.Assignee = def.Assignee
	}
	if d.Priority == "" {
		d.Priority = def.Priority
	}
	if d.Package == "" {
		d.Package = def.Package
	}
	return d
}

// PackageName returns the package of the task, or Unassigned.
func (t *Task) PackageName() string {
	if t.Package == "" {
		return Unassigned
	}
	return t.Package
}

// Field looks a field up by name. Promoted names read the typed fields;
// other names return the first matching custom field.
func (t *Task) Field(name string) (string, bool) {
	switch canonicalFieldName(name) {
	case FieldAssignee:
		return t.Assignee, t.Assignee != ""
	case FieldPriority:
		return string(t.Priority), t.Priority != ""
	case FieldPackage:
		return t.Package, t.Package != ""
	}
	for _, f := range t.CustomFields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// SetField sets or clears a field by name. An empty value clears it.
// newID supplies ids for newly created custom fields.
func (t *Task) SetField(name, value string, newID func(prefix string) string) error {
	if err := validateField(name, value); err != nil {
		return err
	}
	return t.setField(name, value, func() string { return newID(PrefixField) })
}

func (t *Task) setField(name, value string, nextID func() string) error {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	switch canonicalFieldName(name) {
	case FieldAssignee:
		t.Assignee = value
		return nil
	case FieldPriority:
		p, err := ParsePriority(value)
		if err != nil {
			return err
		}
		t.Priority = p
		return nil
	case FieldPackage:
		t.Package = value
		return nil
	}

	for i := range t.CustomFields {
		if t.CustomFields[i].Name != name {
			continue
		}
		if value == "" {
			t.CustomFields = append(t.CustomFields[:i:i], t.CustomFields[i+1:]...)
			return nil
		}
		t.CustomFields[i].Value = value
		return nil
	}
	if value == "" {
		return nil
	}
	t.CustomFields = append(t.CustomFields, CustomField{ID: nextID(), Name: name, Value: value})
	return nil
}

// PromoteLegacyFields moves custom fields that carry a promoted name into
// the typed fields. A typed field that is already set wins. It reports
// whether anything changed.
func (t *Task) PromoteLegacyFields() bool {
	changed := false
	kept := t.CustomFields[:0:0]
	for _, f := range t.CustomFields {
		switch canonicalFieldName(f.Name) {
		case FieldAssignee:
			if t.Assignee == "" {
				t.Assignee = strings.TrimSpace(f.Value)
			}
			changed = true
			continue
		case FieldPackage:
			if t.Package == "" {
				t.Package = strings.TrimSpace(f.Value)
			}
			changed = true
			continue
		case FieldPriority:
			p, err := ParsePriority(f.Value)
			if err != nil {
				kept = append(kept, f)
				continue
			}
			if t.Priority == "" {
				t.Priority = p
			}
			changed = true
			continue
		}
		kept = append(kept, f)
	}
	if changed {
		if len(kept) == 0 {
			kept = nil
		}
		t.CustomFields = kept
	}
	return changed
}

func canonicalFieldName(name string) string {
	switch {
	case strings.EqualFold(name, FieldAssignee), strings.EqualFold(name, "assignee"):
		return FieldAssignee
	case strings.EqualFold(name, FieldPriority):
		return FieldPriority
	case strings.EqualFold(name, FieldPackage):
		return FieldPackage
	default:
		return name
	}
}

func validateField(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return ValidateFieldName(name)
	}
	if canonicalFieldName(strings.TrimSpace(name)) == FieldPriority {
		if _, err := ParsePriority(value); err != nil {
			return err
		}
	}
	return nil
}
